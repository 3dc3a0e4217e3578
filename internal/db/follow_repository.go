package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yatube/yatube/internal/models"
)

// FollowRepository provides follow edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Insert adds the edge user -> author. It reports false when the edge
// already existed; the unique index decides, not a prior read.
func (r *FollowRepository) Insert(ctx context.Context, userID, authorID int64) (bool, error) {
	edge := &models.Follow{UserID: userID, AuthorID: authorID}
	res := r.db.WithContext(ctx).
		Omit("User", "Author").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(edge)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the edge user -> author and reports whether it existed
func (r *FollowRepository) Delete(ctx context.Context, userID, authorID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists checks whether the edge user -> author exists
func (r *FollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// AuthorIDsFollowedBy returns the ids of every author the user follows
func (r *FollowRepository) AuthorIDsFollowedBy(ctx context.Context, userID int64) ([]int64, error) {
	ids := make([]int64, 0)
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("author_id ASC").
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFollowing returns how many authors the user follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// CountFollowers returns how many users follow the author
func (r *FollowRepository) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// Count returns the total number of follow edges
func (r *FollowRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Count(&n).Error
	return n, err
}
