package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/domain"
	"inkwell/errs"
)

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	// Comment on a post.
	r.HandleFunc("/posts/{id}/comments", s.requireRole(auth.RoleUser, s.handleCreateComment)).Methods("POST")

	// Delete one of the authed user's own comments.
	r.HandleFunc("/comments/{id}", s.requireRole(auth.RoleUser, s.handleDeleteComment)).Methods("DELETE")
}

// handleCreateComment handles the route "POST /posts/:id/comments".
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	postId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || postId <= 0 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	comment.PostID = postId

	identity := auth.GetIdentity(r.Context())
	comment.UserID = identity.ID

	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteComment handles the route "DELETE /comments/:id".
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
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

	identity := auth.GetIdentity(r.Context())
	if comment.UserID != identity.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "You are not allowed to delete this comment."))
		return
	}

	if err := s.cs.Delete(comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
