package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yatube/yatube/internal/models"
)

// PostFilter narrows a post listing. Zero values mean "no restriction",
// except AuthorIDs: a non-nil empty slice matches nothing.
type PostFilter struct {
	GroupID   int64
	AuthorID  int64
	AuthorIDs []int64
}

func (f PostFilter) apply(q *gorm.DB) *gorm.DB {
	if f.GroupID != 0 {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.AuthorIDs != nil {
		if len(f.AuthorIDs) == 0 {
			q = q.Where("1 = 0")
		} else {
			q = q.Where("author_id IN ?", f.AuthorIDs)
		}
	}
	return q
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post with its author and group
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// List returns one window of posts matching the filter in default order
func (r *PostRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := filter.apply(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author").
		Preload("Group").
		Order(models.PostOrder).
		Offset(offset).
		Limit(limit)
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Count returns the number of posts matching the filter
func (r *PostRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var n int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Post{})).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountByAuthor returns the number of posts written by an author
func (r *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	return r.Count(ctx, PostFilter{AuthorID: authorID})
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

// Update writes the editable columns of a post. Author and pub_date are
// never touched.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// Delete removes a post; its comments cascade
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

// DeleteAll removes every post
func (r *PostRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Post{})
	return res.RowsAffected, res.Error
}
