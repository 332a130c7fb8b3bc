package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/auth"
	"inkwell/domain"
	"inkwell/errs"
)

type stubFollowService struct {
	toggle func(ctx context.Context, followerID, followedID int) (*domain.FollowResult, error)
}

func (s stubFollowService) Toggle(ctx context.Context, followerID, followedID int) (*domain.FollowResult, error) {
	return s.toggle(ctx, followerID, followedID)
}

func TestToggleFollowRequiresCredential(t *testing.T) {
	server, _ := newTestServer(Services{})

	req := httptest.NewRequest(http.MethodPost, "/users/1/follow", nil)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	var body struct {
		Error errs.Error `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if body.Error.Code != errs.EUNAUTHENTICATED {
		t.Fatalf("expected code %q, got %q", errs.EUNAUTHENTICATED, body.Error.Code)
	}
}

func TestToggleFollowRejectsAdminRole(t *testing.T) {
	server, authority := newTestServer(Services{})

	token, err := authority.Issue(auth.Identity{ID: 1, Name: "a", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/users/1/follow", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestToggleFollow(t *testing.T) {
	var gotFollowerID, gotFollowedID int
	server, authority := newTestServer(Services{
		Follow: stubFollowService{toggle: func(ctx context.Context, followerID, followedID int) (*domain.FollowResult, error) {
			gotFollowerID, gotFollowedID = followerID, followedID
			return &domain.FollowResult{Following: true, Count: 5}, nil
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/users/17/follow", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, authority, 42))
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotFollowerID != 42 || gotFollowedID != 17 {
		t.Fatalf("expected toggle(42, 17), got toggle(%d, %d)", gotFollowerID, gotFollowedID)
	}
	var result domain.FollowResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if !result.Following || result.Count != 5 {
		t.Fatalf("expected {following:true count:5}, got %+v", result)
	}
}

func TestToggleFollowSelf(t *testing.T) {
	server, authority := newTestServer(Services{
		Follow: stubFollowService{toggle: func(ctx context.Context, followerID, followedID int) (*domain.FollowResult, error) {
			return nil, errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/users/7/follow", nil)
	req.Header.Set("Authorization", "Bearer "+userToken(t, authority, 7))
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
