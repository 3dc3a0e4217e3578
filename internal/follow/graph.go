// Package follow maintains the directed follower -> author graph.
package follow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// Graph adds, removes and queries follow edges
type Graph struct {
	users   *db.UserRepository
	follows *db.FollowRepository
	logger  *zap.Logger
}

// NewGraph creates a new follow graph
func NewGraph(database *db.DB) *Graph {
	repo := db.NewRepository(database.DB)
	return &Graph{
		users:   db.NewUserRepository(repo),
		follows: db.NewFollowRepository(repo),
		logger:  logging.WithComponent("follow"),
	}
}

// Follow creates the edge userID -> authorID. It returns created=false
// with a nil error when the edge already exists.
func (g *Graph) Follow(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == 0 {
		return false, apperr.ErrUnauthorized
	}
	if userID == authorID {
		return false, apperr.Invalid("author", "you cannot follow yourself")
	}
	author, err := g.users.GetByID(ctx, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to load author: %w", err)
	}
	if author == nil {
		return false, apperr.NotFound("user %d", authorID)
	}

	created, err := g.follows.Insert(ctx, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to insert follow: %w", err)
	}
	if created {
		g.logger.Debug("Follow created", zap.Int64("user_id", userID), zap.Int64("author_id", authorID))
	}
	return created, nil
}

// Unfollow deletes the edge userID -> authorID if present.
func (g *Graph) Unfollow(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == 0 {
		return false, apperr.ErrUnauthorized
	}
	removed, err := g.follows.Delete(ctx, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}
	return removed, nil
}

// FollowUsername resolves username and follows it
func (g *Graph) FollowUsername(ctx context.Context, userID int64, username string) (*models.User, bool, error) {
	author, err := g.resolve(ctx, username)
	if err != nil {
		return nil, false, err
	}
	created, err := g.Follow(ctx, userID, author.ID)
	return author, created, err
}

// UnfollowUsername resolves username and unfollows it
func (g *Graph) UnfollowUsername(ctx context.Context, userID int64, username string) (*models.User, bool, error) {
	author, err := g.resolve(ctx, username)
	if err != nil {
		return nil, false, err
	}
	removed, err := g.Unfollow(ctx, userID, author.ID)
	return author, removed, err
}

// IsFollowing reports whether userID follows authorID. Anonymous callers
// follow nobody.
func (g *Graph) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return g.follows.Exists(ctx, userID, authorID)
}

// FollowingOf returns the ids of the authors userID follows
func (g *Graph) FollowingOf(ctx context.Context, userID int64) ([]int64, error) {
	return g.follows.AuthorIDsFollowedBy(ctx, userID)
}

// Counts returns how many authors userID follows and how many users follow userID
func (g *Graph) Counts(ctx context.Context, userID int64) (following, followers int64, err error) {
	if following, err = g.follows.CountFollowing(ctx, userID); err != nil {
		return 0, 0, err
	}
	if followers, err = g.follows.CountFollowers(ctx, userID); err != nil {
		return 0, 0, err
	}
	return following, followers, nil
}

func (g *Graph) resolve(ctx context.Context, username string) (*models.User, error) {
	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %q", username)
	}
	return user, nil
}
