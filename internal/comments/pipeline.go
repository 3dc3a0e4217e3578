// Package comments accepts and lists comments on posts.
package comments

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// Input is a submitted comment form
type Input struct {
	Text string `json:"text" form:"text" validate:"required"`
}

// Pipeline creates comments for authenticated users
type Pipeline struct {
	posts    *db.PostRepository
	comments *db.CommentRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPipeline creates a new comment pipeline
func NewPipeline(database *db.DB) *Pipeline {
	repo := db.NewRepository(database.DB)
	return &Pipeline{
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		validate: apperr.NewValidator(),
		logger:   logging.WithComponent("comments"),
	}
}

// Add stores a comment by authorID on postID. Nothing is written unless
// the caller is authenticated, the post exists and the text is non-blank.
func (p *Pipeline) Add(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	if authorID == 0 {
		return nil, apperr.ErrUnauthorized
	}
	post, err := p.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post %d", postID)
	}

	in := Input{Text: strings.TrimSpace(text)}
	if err := p.validate.Struct(in); err != nil {
		return nil, apperr.FromValidator(err)
	}

	comment := &models.Comment{
		PostID:   sql.NullInt64{Int64: post.ID, Valid: true},
		AuthorID: sql.NullInt64{Int64: authorID, Valid: true},
		Text:     in.Text,
	}
	if err := p.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	p.logger.Debug("Comment added", zap.Int64("post_id", postID), zap.Int64("comment_id", comment.ID))
	return comment, nil
}

// ListForPost returns the comments on postID, newest first
func (p *Pipeline) ListForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return p.comments.ListByPost(ctx, postID)
}
