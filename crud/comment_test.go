package crud

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"inkwell/domain"
	"inkwell/errs"
)

func TestDeleteCommentCascadesLikes(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	ls := NewLikeService(db)
	ctx := context.Background()

	author := seedUser(t, db, "cascade-author@example.com")
	u1 := seedUser(t, db, "cascade-u1@example.com")
	u2 := seedUser(t, db, "cascade-u2@example.com")
	comment := seedComment(t, db, author)

	if _, err := ls.Toggle(ctx, u1.ID, comment.ID); err != nil {
		t.Fatalf("u1 like: %v", err)
	}
	if _, err := ls.Toggle(ctx, u2.ID, comment.ID); err != nil {
		t.Fatalf("u2 like: %v", err)
	}

	if err := cs.Delete(comment); err != nil {
		t.Fatalf("delete comment: %v", err)
	}

	if got := likeRows(t, db, comment.ID); got != 0 {
		t.Fatalf("expected no like rows after comment delete, got %d", got)
	}
	if _, err := cs.ByID(comment.ID); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Fatalf("expected deleted comment to be gone, got %v", err)
	}
}

// TestDeleteCommentConcurrentToggles races the delete cascade against
// toggles on the same comment. Whatever the interleaving, the end state
// must hold no like row for the gone comment: toggles that won the row
// lock commit before the cascade and get swept, toggles that lost it see
// the comment missing and fail with ENOTFOUND.
func TestDeleteCommentConcurrentToggles(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	ls := NewLikeService(db)
	ctx := context.Background()

	author := seedUser(t, db, "race-author@example.com")
	comment := seedComment(t, db, author)

	const n = 8
	users := make([]*domain.User, n)
	for i := range users {
		users[i] = seedUser(t, db, fmt.Sprintf("race-%d@example.com", i))
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	errc := make(chan error, n)
	for _, user := range users {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			<-start
			for i := 0; i < 5; i++ {
				_, err := ls.Toggle(ctx, userID, comment.ID)
				if errs.ErrorCode(err) == errs.ENOTFOUND {
					return
				}
				if err != nil {
					errc <- fmt.Errorf("toggle by user %d: %w", userID, err)
					return
				}
			}
		}(user.ID)
	}

	close(start)
	if err := cs.Delete(comment); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		t.Fatalf("concurrent toggle: %v", err)
	}

	if got := likeRows(t, db, comment.ID); got != 0 {
		t.Fatalf("expected no orphan like rows after concurrent delete, got %d", got)
	}
}
