package db

import (
	"context"

	"github.com/yatube/yatube/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Post", "Author").Create(comment).Error
}

// ListByPost returns the comments of a post, newest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order(models.CommentOrder).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost returns the number of comments on a post
func (r *CommentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
