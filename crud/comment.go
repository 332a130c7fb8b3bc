package crud

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"inkwell/domain"
	"inkwell/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.userIdValid,
		cv.postExists,
		cv.contentRequired,
		cv.contentMaxLength)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(comment)
}

// Delete runs validations needed for deleting existing Comment database records.
func (cv *commentValidator) Delete(comment *domain.Comment) error {
	err := runCommentValFns(comment, cv.idValid)
	if err != nil {
		return err
	}
	return cv.commentGorm.Delete(comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the passed in Comment object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment object and returns an error.
type commentValFn func(comment *domain.Comment) error

// contentMaxLength makes sure that the Comment's content does not exceed the maximum content length.
func (cv *commentValidator) contentMaxLength(comment *domain.Comment) error {
	if utf8.RuneCountInString(comment.Content) > 2000 {
		return errs.Errorf(errs.EINVALID, "Comment content max length is 2000 characters.")
	}
	return nil
}

// contentRequired makes sure that the Comment's content is not empty.
func (cv *commentValidator) contentRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Comment content must not be empty.")
	}
	return nil
}

// idValid makes sure that the passed in ID of a Comment to be deleted is greater than 0.
func (cv *commentValidator) idValid(comment *domain.Comment) error {
	if comment.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid comment ID.")
	}
	return nil
}

// postExists makes sure that the post to be commented on actually exists.
func (cv *commentValidator) postExists(comment *domain.Comment) error {
	err := cv.db.First(&domain.Post{}, "id = ?", comment.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The commented post does not exist.")
		}
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (cv *commentValidator) userIdValid(comment *domain.Comment) error {
	if comment.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	return nil
}

// ByID retrieves a single Comment by ID, along with its author.
func (cg *commentGorm) ByID(id int) (*domain.Comment, error) {
	var comment domain.Comment
	err := cg.db.
		Preload("User").
		First(&comment, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
		}
		return nil, err
	}
	return &comment, nil
}

// Create stores the data from the Comment object in a new database record.
// On success, it eager-loads the author relation, so that the json response
// displays the full data of the created comment.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	err := cg.db.Create(comment).Error
	if err != nil {
		return err
	}
	cg.db.Preload("User").First(comment)
	return nil
}

// Delete permanently deletes the comment and any likes pointing at it.
// The comment row goes first: deleting it takes the same row lock the like
// toggle acquires, so a concurrent toggle either commits before the cascade
// runs (and its like row is swept below) or blocks, then fails with
// ENOTFOUND once the cascade commits. Sweeping likes before taking that
// lock would let a blocked toggle insert a row behind the sweep's back.
func (cg *commentGorm) Delete(comment *domain.Comment) error {
	return cg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(comment).Error; err != nil {
			return err
		}
		return tx.Where("comment_id = ?", comment.ID).Delete(&domain.Like{}).Error
	})
}
