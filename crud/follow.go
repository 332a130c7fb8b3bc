package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/domain"
	"inkwell/errs"
)

// FollowService toggles Follows between users. It reuses the like toggle's
// shape: lock the target row, insert-or-delete the membership row, recount,
// write the counter back, commit. It is the only write path to follow rows
// and to the denormalized users.follower_count column.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on the incoming toggle arguments.
// On success, it passes them on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs the toggle transaction against the database.
// It assumes that arguments have been validated.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Toggle validates the IDs before any store access happens.
func (fv *followValidator) Toggle(ctx context.Context, followerID, followedID int) (*domain.FollowResult, error) {
	if followerID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	if followedID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid user ID.")
	}
	if followerID == followedID {
		return nil, errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return fv.followGorm.Toggle(ctx, followerID, followedID)
}

// Toggle atomically flips whether follower follows followed and rewrites
// the followed user's follower counter, under the same row lock discipline
// as the like toggle.
func (fg *followGorm) Toggle(ctx context.Context, followerID, followedID int) (*domain.FollowResult, error) {
	var result domain.FollowResult
	err := fg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var followed domain.User
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&followed, "id = ?", followedID).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "The followed user does not exist.")
			}
			return err
		}

		follow := domain.Follow{FollowerID: followerID, FollowedID: followedID}
		insert := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
				DoNothing: true,
			}).
			Create(&follow)
		if insert.Error != nil {
			return insert.Error
		}

		if insert.RowsAffected == 1 {
			result.Following = true
		} else {
			err := tx.
				Where("follower_id = ? AND followed_id = ?", followerID, followedID).
				Delete(&domain.Follow{}).
				Error
			if err != nil {
				return err
			}
			result.Following = false
		}

		var count int64
		err = tx.
			Model(&domain.Follow{}).
			Where("followed_id = ?", followedID).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		err = tx.
			Model(&domain.User{}).
			Where("id = ?", followedID).
			UpdateColumn("follower_count", count).
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
