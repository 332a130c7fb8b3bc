package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/domain"
	"inkwell/errs"
)

// LikeService toggles Likes. It is the only write path to like rows and to
// the denormalized comments.like_count column; keeping the two consistent
// under concurrent callers is this service's whole job.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on the incoming toggle arguments.
// On success, it passes them on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs the toggle transaction against the database.
// It assumes that arguments have been validated.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Toggle validates the IDs before any store access happens.
func (lv *likeValidator) Toggle(ctx context.Context, userID, commentID int) (*domain.LikeResult, error) {
	if userID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	if commentID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid comment ID.")
	}
	return lv.likeGorm.Toggle(ctx, userID, commentID)
}

// Toggle atomically flips whether the user likes the comment and rewrites
// the comment's like counter. The whole operation runs in one transaction:
//
//  1. lock the comment row (SELECT ... FOR UPDATE), which serializes all
//     concurrent toggles on the same comment; toggles on different
//     comments never block each other,
//  2. insert the (user_id, comment_id) row, silently doing nothing when it
//     already exists under the unique index,
//  3. if nothing was inserted, the row existed, so delete it instead,
//  4. recompute the count from the like rows and write it to the comment.
//
// The counter is always recomputed, never incremented in place, so a
// committed toggle can't leave it drifted from the membership rows. Any
// failure rolls the entire transaction back; no reader ever sees the
// membership change without the matching counter value.
func (lg *likeGorm) Toggle(ctx context.Context, userID, commentID int) (*domain.LikeResult, error) {
	var result domain.LikeResult
	err := lg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment domain.Comment
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&comment, "id = ?", commentID).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "The liked comment does not exist.")
			}
			return err
		}

		like := domain.Like{UserID: userID, CommentID: commentID}
		insert := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "comment_id"}},
				DoNothing: true,
			}).
			Create(&like)
		if insert.Error != nil {
			return insert.Error
		}

		if insert.RowsAffected == 1 {
			result.Liked = true
		} else {
			// The row already existed, so this call is an unlike.
			err := tx.
				Where("user_id = ? AND comment_id = ?", userID, commentID).
				Delete(&domain.Like{}).
				Error
			if err != nil {
				return err
			}
			result.Liked = false
		}

		var count int64
		err = tx.
			Model(&domain.Like{}).
			Where("comment_id = ?", commentID).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		err = tx.
			Model(&domain.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("like_count", count).
			Error
		if err != nil {
			return err
		}
		result.Count = int(count)
		return nil
	})
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return &result, nil
}
