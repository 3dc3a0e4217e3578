package feed

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/follow"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/telemetry"
)

// DefaultPageSize is used when the assembler is built with a non-positive size
const DefaultPageSize = 10

// Result is a feed page plus the metadata its scope carries
type Result struct {
	Scope Scope
	Page  Page

	// ByGroup
	Group *models.Group

	// ByAuthor
	Author          *models.User
	AuthorPostCount int64
	Following       bool
	FollowingCount  int64
	FollowersCount  int64
}

// Assembler builds feed pages from the store
type Assembler struct {
	posts    *db.PostRepository
	groups   *db.GroupRepository
	users    *db.UserRepository
	graph    *follow.Graph
	pageSize int
}

// NewAssembler creates a new feed assembler
func NewAssembler(database *db.DB, graph *follow.Graph, pageSize int) *Assembler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	repo := db.NewRepository(database.DB)
	return &Assembler{
		posts:    db.NewPostRepository(repo),
		groups:   db.NewGroupRepository(repo),
		users:    db.NewUserRepository(repo),
		graph:    graph,
		pageSize: pageSize,
	}
}

// Assemble returns page number of the feed selected by scope
func (a *Assembler) Assemble(ctx context.Context, scope Scope, number int) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.Assemble")
	defer span.End()
	span.SetAttributes(
		attribute.String("feed.scope", scope.Kind.String()),
		attribute.Int("feed.page", number),
	)

	res := &Result{Scope: scope}
	var filter db.PostFilter

	switch scope.Kind {
	case Global:
	case ByGroup:
		group, err := a.groups.GetBySlug(ctx, scope.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to load group: %w", err)
		}
		if group == nil {
			return nil, apperr.NotFound("group %q", scope.Slug)
		}
		res.Group = group
		filter.GroupID = group.ID
	case ByAuthor:
		author, err := a.users.GetByUsername(ctx, scope.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to load author: %w", err)
		}
		if author == nil {
			return nil, apperr.NotFound("user %q", scope.Username)
		}
		res.Author = author
		filter.AuthorID = author.ID
		if res.Following, err = a.graph.IsFollowing(ctx, scope.ViewerID, author.ID); err != nil {
			return nil, fmt.Errorf("failed to check follow: %w", err)
		}
		if res.FollowingCount, res.FollowersCount, err = a.graph.Counts(ctx, author.ID); err != nil {
			return nil, fmt.Errorf("failed to count follows: %w", err)
		}
	case Following:
		if scope.ViewerID == 0 {
			return nil, apperr.ErrUnauthorized
		}
		ids, err := a.graph.FollowingOf(ctx, scope.ViewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load followed authors: %w", err)
		}
		filter.AuthorIDs = ids
	default:
		return nil, fmt.Errorf("unknown feed scope %v", scope.Kind)
	}

	total, err := a.posts.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	if scope.Kind == ByAuthor {
		res.AuthorPostCount = total
	}

	page, offset := newPage(total, number, a.pageSize)
	if int64(offset) < total {
		items, err := a.posts.List(ctx, filter, offset, a.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list posts: %w", err)
		}
		page.Items = items
	}
	res.Page = page

	span.SetAttributes(attribute.Int("feed.items", len(page.Items)))
	return res, nil
}
