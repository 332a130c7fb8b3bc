package crud

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inkwell/domain"
	"inkwell/errs"
)

// testDB opens the postgres database named by INKWELL_TEST_DB and resets
// its contents. Tests that need a real store skip when the variable is
// unset, so the rest of the suite stays runnable anywhere.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("INKWELL_TEST_DB")
	if dsn == "" {
		t.Skip("INKWELL_TEST_DB not set; skipping postgres integration test")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	err = db.AutoMigrate(
		domain.User{},
		domain.Post{},
		domain.Comment{},
		domain.Like{},
		domain.Follow{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"likes", "follows", "comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	user := domain.User{
		Name:         email,
		Email:        email,
		Role:         "user",
		PasswordHash: "irrelevant",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &user
}

func seedComment(t *testing.T, db *gorm.DB, author *domain.User) *domain.Comment {
	t.Helper()
	post := domain.Post{UserID: author.ID, Title: "t", Content: "c"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	comment := domain.Comment{PostID: post.ID, UserID: author.ID, Content: "first"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return &comment
}

// likeCount reads the denormalized counter column back from the database.
func likeCount(t *testing.T, db *gorm.DB, commentID int) int {
	t.Helper()
	var comment domain.Comment
	if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	return comment.LikeCount
}

// likeRows counts the membership rows, the counter's source of truth.
func likeRows(t *testing.T, db *gorm.DB, commentID int) int {
	t.Helper()
	var n int64
	if err := db.Model(&domain.Like{}).Where("comment_id = ?", commentID).Count(&n).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	return int(n)
}

func TestToggleLikeScenario(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	author := seedUser(t, db, "author@example.com")
	u1 := seedUser(t, db, "u1@example.com")
	u2 := seedUser(t, db, "u2@example.com")
	comment := seedComment(t, db, author)

	res, err := ls.Toggle(ctx, u1.ID, comment.ID)
	if err != nil {
		t.Fatalf("u1 like: %v", err)
	}
	if !res.Liked || res.Count != 1 {
		t.Fatalf("u1 like: expected {true 1}, got {%v %d}", res.Liked, res.Count)
	}

	res, err = ls.Toggle(ctx, u2.ID, comment.ID)
	if err != nil {
		t.Fatalf("u2 like: %v", err)
	}
	if !res.Liked || res.Count != 2 {
		t.Fatalf("u2 like: expected {true 2}, got {%v %d}", res.Liked, res.Count)
	}

	res, err = ls.Toggle(ctx, u1.ID, comment.ID)
	if err != nil {
		t.Fatalf("u1 unlike: %v", err)
	}
	if res.Liked || res.Count != 1 {
		t.Fatalf("u1 unlike: expected {false 1}, got {%v %d}", res.Liked, res.Count)
	}

	if got := likeCount(t, db, comment.ID); got != 1 {
		t.Fatalf("counter column: expected 1, got %d", got)
	}
	if got := likeRows(t, db, comment.ID); got != 1 {
		t.Fatalf("membership rows: expected 1, got %d", got)
	}
}

func TestToggleLikePairing(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	user := seedUser(t, db, "pair@example.com")
	comment := seedComment(t, db, user)

	first, err := ls.Toggle(ctx, user.ID, comment.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	second, err := ls.Toggle(ctx, user.ID, comment.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if !first.Liked || second.Liked {
		t.Fatalf("expected liked=true then liked=false, got %v then %v", first.Liked, second.Liked)
	}
	if second.Count != 0 {
		t.Fatalf("expected counter back at 0, got %d", second.Count)
	}
	if got := likeCount(t, db, comment.ID); got != 0 {
		t.Fatalf("counter column: expected 0, got %d", got)
	}
}

func TestToggleLikeMissingComment(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)

	user := seedUser(t, db, "missing@example.com")

	_, err := ls.Toggle(context.Background(), user.ID, 999999)
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Fatalf("expected not_found, got %v", err)
	}

	var n int64
	if err := db.Model(&domain.Like{}).Where("user_id = ?", user.ID).Count(&n).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no membership rows after failed toggle, got %d", n)
	}
}

func TestToggleLikeConcurrent(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	ctx := context.Background()

	author := seedUser(t, db, "conc-author@example.com")
	comment := seedComment(t, db, author)

	const n = 8
	users := make([]*domain.User, n)
	for i := range users {
		users[i] = seedUser(t, db, fmt.Sprintf("conc-%d@example.com", i))
	}

	var wg sync.WaitGroup
	errc := make(chan error, n)
	for _, user := range users {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			res, err := ls.Toggle(ctx, userID, comment.ID)
			if err != nil {
				errc <- err
				return
			}
			if !res.Liked {
				errc <- fmt.Errorf("first-time like reported liked=false for user %d", userID)
			}
		}(user.ID)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		t.Fatalf("concurrent toggle: %v", err)
	}

	if got := likeCount(t, db, comment.ID); got != n {
		t.Fatalf("counter column after %d concurrent likes: expected %d, got %d", n, n, got)
	}
	if got := likeRows(t, db, comment.ID); got != n {
		t.Fatalf("membership rows after %d concurrent likes: expected %d, got %d", n, n, got)
	}
}

func TestToggleLikeInvalidIDs(t *testing.T) {
	// Validation runs before any store access, so no database is needed.
	ls := NewLikeService(nil)

	if _, err := ls.Toggle(context.Background(), 0, 1); errs.ErrorCode(err) != errs.EINVALID {
		t.Fatalf("expected invalid for user id 0, got %v", err)
	}
	if _, err := ls.Toggle(context.Background(), 1, -3); errs.ErrorCode(err) != errs.EINVALID {
		t.Fatalf("expected invalid for comment id -3, got %v", err)
	}
}
