// Package posts creates, edits and loads individual posts.
package posts

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/internal/comments"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
	"github.com/yatube/yatube/pkg/logging"
)

// Image is an uploaded file attached to a post form
type Image struct {
	Filename string
	Body     io.Reader
}

// Input is a submitted post form. GroupID zero means no group.
type Input struct {
	Text    string `json:"text" form:"text" validate:"required"`
	GroupID int64  `json:"group" form:"group" validate:"gte=0"`
	Image   *Image `json:"-" form:"-"`
}

// Detail is a post with its author's post count and its comments
type Detail struct {
	Post            *models.Post
	AuthorPostCount int64
	Comments        []models.Comment
}

// Form is what a post form needs to render: the group choices and, when
// editing, the current post
type Form struct {
	Post   *models.Post
	Groups []models.Group
}

// Service implements post operations
type Service struct {
	posts    *db.PostRepository
	groups   *db.GroupRepository
	comments *comments.Pipeline
	files    storage.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new post service. files may be nil, in which case
// image uploads are rejected.
func NewService(database *db.DB, pipeline *comments.Pipeline, files storage.Store) *Service {
	repo := db.NewRepository(database.DB)
	return &Service{
		posts:    db.NewPostRepository(repo),
		groups:   db.NewGroupRepository(repo),
		comments: pipeline,
		files:    files,
		validate: apperr.NewValidator(),
		logger:   logging.WithComponent("posts"),
	}
}

// Create publishes a new post by authorID
func (s *Service) Create(ctx context.Context, authorID int64, in Input) (*models.Post, error) {
	if authorID == 0 {
		return nil, apperr.ErrUnauthorized
	}
	post := &models.Post{AuthorID: authorID}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if err := s.attach(ctx, post, in.Image); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.orphaned(post, in.Image, err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.logger.Info("Post created", zap.Int64("post_id", post.ID), zap.Int64("author_id", authorID))
	return s.posts.GetByID(ctx, post.ID)
}

// Edit replaces the text, group and optionally the image of a post. Only
// the author may edit; pub_date and author are never changed.
func (s *Service) Edit(ctx context.Context, editorID, postID int64, in Input) (*models.Post, error) {
	if editorID == 0 {
		return nil, apperr.ErrUnauthorized
	}
	post, err := s.owned(ctx, editorID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if err := s.attach(ctx, post, in.Image); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		s.orphaned(post, in.Image, err)
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return s.posts.GetByID(ctx, post.ID)
}

// NewForm returns the data for an empty post form
func (s *Service) NewForm(ctx context.Context, authorID int64) (*Form, error) {
	if authorID == 0 {
		return nil, apperr.ErrUnauthorized
	}
	return s.form(ctx, nil)
}

// EditForm returns the data for editing postID. Only its author may load it.
func (s *Service) EditForm(ctx context.Context, editorID, postID int64) (*Form, error) {
	if editorID == 0 {
		return nil, apperr.ErrUnauthorized
	}
	post, err := s.owned(ctx, editorID, postID)
	if err != nil {
		return nil, err
	}
	return s.form(ctx, post)
}

func (s *Service) form(ctx context.Context, post *models.Post) (*Form, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return &Form{Post: post, Groups: groups}, nil
}

// owned loads postID and checks that editorID wrote it
func (s *Service) owned(ctx context.Context, editorID, postID int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post %d", postID)
	}
	if post.AuthorID != editorID {
		return nil, apperr.ErrForbidden
	}
	return post, nil
}

// Detail loads a post for display
func (s *Service) Detail(ctx context.Context, postID int64) (*Detail, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post %d", postID)
	}
	count, err := s.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	list, err := s.comments.ListForPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return &Detail{Post: post, AuthorPostCount: count, Comments: list}, nil
}

// apply validates in and copies it onto post. The image is only checked
// here; attach stores it.
func (s *Service) apply(ctx context.Context, post *models.Post, in Input) error {
	in.Text = strings.TrimSpace(in.Text)
	if err := s.validate.Struct(in); err != nil {
		return apperr.FromValidator(err)
	}

	post.Text = in.Text
	post.GroupID = sql.NullInt64{}
	if in.GroupID != 0 {
		group, err := s.groups.GetByID(ctx, in.GroupID)
		if err != nil {
			return fmt.Errorf("failed to load group: %w", err)
		}
		if group == nil {
			return apperr.Invalid("group", "select a valid group")
		}
		post.GroupID = sql.NullInt64{Int64: group.ID, Valid: true}
	}

	if in.Image != nil && s.files == nil {
		return apperr.Invalid("image", "image uploads are disabled")
	}
	return nil
}

// attach stores img and points post at it
func (s *Service) attach(ctx context.Context, post *models.Post, img *Image) error {
	if img == nil {
		return nil
	}
	handle, err := s.files.Save(ctx, img.Filename, img.Body)
	if err != nil {
		return err
	}
	post.Image = sql.NullString{String: handle, Valid: true}
	return nil
}

// orphaned logs an image stored for a post that was never written
func (s *Service) orphaned(post *models.Post, img *Image, err error) {
	if img == nil || !post.Image.Valid {
		return
	}
	s.logger.Warn("Orphaned post image",
		zap.String("image", post.Image.String),
		zap.Int64("author_id", post.AuthorID),
		zap.Error(err),
	)
}
