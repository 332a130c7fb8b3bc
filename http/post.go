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

// registerPostRoutes is a helper for registering all Post routes.
func (s *Server) registerPostRoutes(r *mux.Router) {
	// Publish a new post.
	r.HandleFunc("/posts", s.requireRole(auth.RoleUser, s.handleCreatePost)).Methods("POST")

	// Get the newest posts, paged by an optional offset query parameter.
	r.HandleFunc("/posts", s.handleFeed).Methods("GET")

	// Get a single post with its comments.
	r.HandleFunc("/posts/{id}", s.handleGetPost).Methods("GET")

	// Delete one of the authed user's own posts.
	r.HandleFunc("/posts/{id}", s.requireRole(auth.RoleUser, s.handleDeletePost)).Methods("DELETE")
}

// handleCreatePost handles the route "POST /posts".
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	identity := auth.GetIdentity(r.Context())
	post.UserID = identity.ID

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleFeed handles the route "GET /posts".
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	feed, err := s.ps.Feed(offset)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(feed); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetPost handles the route "GET /posts/:id".
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
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

	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePost handles the route "DELETE /posts/:id".
// Users may only delete their own posts; admin moderation has its own route.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
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

	identity := auth.GetIdentity(r.Context())
	if post.UserID != identity.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "You are not allowed to delete this post."))
		return
	}

	if err := s.ps.Delete(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
