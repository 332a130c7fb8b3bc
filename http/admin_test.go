package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/auth"
	"inkwell/domain"
)

type stubCommentService struct {
	byID   func(id int) (*domain.Comment, error)
	delete func(comment *domain.Comment) error
}

func (s stubCommentService) Create(comment *domain.Comment) error { return nil }
func (s stubCommentService) ByID(id int) (*domain.Comment, error) { return s.byID(id) }
func (s stubCommentService) Delete(comment *domain.Comment) error { return s.delete(comment) }

func TestModerateCommentRequiresAdminRole(t *testing.T) {
	server, authority := newTestServer(Services{})

	req := httptest.NewRequest(http.MethodDelete, "/admin/comments/1", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, authority, 1))
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user credential, got %d", resp.Code)
	}
}

func TestModerateCommentDeletesAnyComment(t *testing.T) {
	var deleted int
	server, authority := newTestServer(Services{
		Comment: stubCommentService{
			byID: func(id int) (*domain.Comment, error) {
				return &domain.Comment{ID: id, UserID: 99}, nil
			},
			delete: func(comment *domain.Comment) error {
				deleted = comment.ID
				return nil
			},
		},
	})

	token, err := authority.Issue(auth.Identity{ID: 1, Name: "mod", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin/comments/5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if deleted != 5 {
		t.Fatalf("expected comment 5 deleted, got %d", deleted)
	}
}
