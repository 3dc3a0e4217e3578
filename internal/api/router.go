package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/comments"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/feed"
	"github.com/yatube/yatube/internal/follow"
	"github.com/yatube/yatube/internal/posts"
	"github.com/yatube/yatube/internal/storage"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

// Router sets up the HTTP routes
type Router struct {
	db         *db.DB
	pageCache  cache.Store
	feeds      *feed.Assembler
	home       *feed.HomeFeed
	graph      *follow.Graph
	posts      *posts.Service
	comments   *comments.Pipeline
	tokens     *auth.Tokens
	users      *db.UserRepository
	views      *views
	loginURL   string
	adminToken string
	logger     *zap.Logger
}

// NewRouter wires the services behind the HTTP routes. store holds the
// rendered home page; files may be nil to disable image uploads.
func NewRouter(cfg *config.Config, database *db.DB, store cache.Store, files storage.Store) *Router {
	graph := follow.NewGraph(database)
	pipeline := comments.NewPipeline(database)
	assembler := feed.NewAssembler(database, graph, cfg.Feed.PageSize)
	v := &views{files: files}

	return &Router{
		db:         database,
		pageCache:  store,
		feeds:      assembler,
		home:       feed.NewHomeFeed(assembler, store, cfg.Feed.IndexCacheTTL, v.renderFeed),
		graph:      graph,
		posts:      posts.NewService(database, pipeline, files),
		comments:   pipeline,
		tokens:     auth.NewTokens(cfg.Auth.JWTSecret),
		users:      db.NewUserRepository(db.NewRepository(database.DB)),
		views:      v,
		loginURL:   cfg.Auth.LoginURL,
		adminToken: cfg.Server.AdminToken,
		logger:     logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(tracing(), requestLogger(r.logger), auth.Identify(r.tokens, r.users))

	engine.GET("/health", r.healthHandler)

	engine.GET("/", r.index)
	engine.GET("/group/:slug/", r.groupPosts)
	engine.GET("/profile/:username/", r.profile)
	engine.GET("/posts/:post_id/", r.postDetail)

	member := engine.Group("/", auth.RequireUser(r.loginURL))
	member.GET("/create/", r.newPostForm)
	member.POST("/create/", r.createPost)
	member.GET("/posts/:post_id/edit/", r.editPostForm)
	member.POST("/posts/:post_id/edit/", r.editPost)
	member.POST("/posts/:post_id/comment/", r.addComment)
	member.GET("/follow/", r.followIndex)
	member.POST("/profile/:username/follow/", r.profileFollow)
	member.POST("/profile/:username/unfollow/", r.profileUnfollow)

	if r.adminToken != "" {
		engine.POST("/admin/cache/clear", r.clearCache)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, NewError(http.StatusNotFound, "page not found"))
	})
}

// healthHandler handles health check requests. A page cache that cannot be
// reached is reported but does not fail the check; the home page renders
// live without it.
func (r *Router) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()
	body := gin.H{
		"status":  "OK",
		"service": "yatube",
	}
	if checker, ok := r.pageCache.(cache.Checker); ok {
		body["cache"] = "OK"
		if err := checker.Health(ctx); err != nil {
			r.logger.Warn("Page cache health check failed", zap.Error(err))
			body["cache"] = "UNAVAILABLE"
		}
	}
	if err := r.db.Health(ctx); err != nil {
		r.logger.Warn("Health check failed", zap.Error(err))
		body["status"] = "UNAVAILABLE"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
