package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/errs"
)

// registerFollowRoutes is a helper for registering all Follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	// Toggle whether the authed user follows another user.
	r.HandleFunc("/users/{id}/follow", s.requireRole(auth.RoleUser, s.handleToggleFollow)).Methods("POST")
}

// handleToggleFollow handles the route "POST /users/:id/follow".
func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	identity := auth.GetIdentity(r.Context())

	result, err := s.fs.Toggle(r.Context(), identity.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		errs.LogError(r, err)
	}
}
