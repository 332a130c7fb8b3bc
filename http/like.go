package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Toggle the authed user's like on a comment.
	r.HandleFunc("/comments/{id}/like", s.requireRole(auth.RoleUser, s.handleToggleLike)).Methods("POST")
}

// handleToggleLike handles the route "POST /comments/:id/like".
// One call likes the comment, the next call by the same user unlikes it.
// The response carries the post-commit state, so the caller always reads
// its own write.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	identity := auth.GetIdentity(r.Context())

	result, err := s.ls.Toggle(r.Context(), identity.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		errs.LogError(r, err)
	}
}
