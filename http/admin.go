package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/errs"
)

// registerAdminRoutes is a helper for registering all moderation routes.
// All of them require the admin role; ownership checks don't apply here.
func (s *Server) registerAdminRoutes(r *mux.Router) {
	r.HandleFunc("/admin/posts/{id}", s.requireRole(auth.RoleAdmin, s.handleModeratePost)).Methods("DELETE")
	r.HandleFunc("/admin/comments/{id}", s.requireRole(auth.RoleAdmin, s.handleModerateComment)).Methods("DELETE")
}

// handleModeratePost handles the route "DELETE /admin/posts/:id".
// It deletes any post regardless of who wrote it.
func (s *Server) handleModeratePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.ps.Delete(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleModerateComment handles the route "DELETE /admin/comments/:id".
// It deletes any comment regardless of who wrote it.
func (s *Server) handleModerateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	comment, err := s.cs.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.cs.Delete(comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
