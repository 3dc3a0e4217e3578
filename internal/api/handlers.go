package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/apperr"
	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/feed"
	"github.com/yatube/yatube/internal/posts"
)

const adminTokenHeader = "X-Admin-Token"

// index serves the global feed. The first page comes from the page cache.
func (r *Router) index(c *gin.Context) {
	body, err := r.home.Render(c.Request.Context(), feed.ParsePage(c.Query("page")))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (r *Router) groupPosts(c *gin.Context) {
	res, err := r.feeds.Assemble(c.Request.Context(), feed.GroupScope(c.Param("slug")), feed.ParsePage(c.Query("page")))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.views.feed(res))
}

func (r *Router) profile(c *gin.Context) {
	scope := feed.AuthorScope(c.Param("username"), auth.UserID(c))
	res, err := r.feeds.Assemble(c.Request.Context(), scope, feed.ParsePage(c.Query("page")))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.views.profile(res))
}

func (r *Router) postDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		r.respondError(c, apperr.NotFound("post %q", c.Param("post_id")))
		return
	}
	d, err := r.posts.Detail(c.Request.Context(), id)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.views.detail(d))
}

// newPostForm returns the group choices for the create form
func (r *Router) newPostForm(c *gin.Context) {
	form, err := r.posts.NewForm(c.Request.Context(), auth.UserID(c))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.views.form(form))
}

// editPostForm returns the post and group choices to its author. Anyone
// else is sent back to the post.
func (r *Router) editPostForm(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		r.respondError(c, apperr.NotFound("post %q", c.Param("post_id")))
		return
	}
	form, err := r.posts.EditForm(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.views.form(form))
}

// createPost accepts JSON or a multipart form with an optional image
func (r *Router) createPost(c *gin.Context) {
	in, release, err := bindPost(c)
	if err != nil {
		r.respondError(c, err)
		return
	}
	defer release()
	user := auth.CurrentUser(c)
	post, err := r.posts.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.Header("Location", "/profile/"+user.Username+"/")
	c.JSON(http.StatusCreated, r.views.post(post))
}

func (r *Router) editPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		r.respondError(c, apperr.NotFound("post %q", c.Param("post_id")))
		return
	}
	in, release, err := bindPost(c)
	if err != nil {
		r.respondError(c, err)
		return
	}
	defer release()
	post, err := r.posts.Edit(c.Request.Context(), auth.UserID(c), id, in)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.views.post(post))
}

func (r *Router) addComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		r.respondError(c, apperr.NotFound("post %q", c.Param("post_id")))
		return
	}
	var form struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.ShouldBind(&form); err != nil {
		r.respondError(c, apperr.Invalid("text", "malformed request body"))
		return
	}
	comment, err := r.comments.Add(c.Request.Context(), id, auth.UserID(c), form.Text)
	if err != nil {
		r.respondError(c, err)
		return
	}
	comment.Author = auth.CurrentUser(c)
	c.Header("Location", "/posts/"+c.Param("post_id")+"/")
	c.JSON(http.StatusCreated, r.views.comment(comment))
}

func (r *Router) followIndex(c *gin.Context) {
	res, err := r.feeds.Assemble(c.Request.Context(), feed.FollowingScope(auth.UserID(c)), feed.ParsePage(c.Query("page")))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.views.feed(res))
}

func (r *Router) profileFollow(c *gin.Context) {
	author, created, err := r.graph.FollowUsername(c.Request.Context(), auth.UserID(c), c.Param("username"))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"author":    r.views.user(author),
		"following": true,
		"changed":   created,
	})
}

func (r *Router) profileUnfollow(c *gin.Context) {
	author, removed, err := r.graph.UnfollowUsername(c.Request.Context(), auth.UserID(c), c.Param("username"))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"author":    r.views.user(author),
		"following": false,
		"changed":   removed,
	})
}

// clearCache drops every cached page. Only registered when an admin
// token is configured.
func (r *Router) clearCache(c *gin.Context) {
	token := c.GetHeader(adminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(r.adminToken)) != 1 {
		c.JSON(http.StatusForbidden, NewError(http.StatusForbidden, "invalid admin token"))
		return
	}
	if err := r.home.Clear(c.Request.Context()); err != nil {
		r.respondError(c, err)
		return
	}
	r.logger.Info("Page cache cleared")
	c.Status(http.StatusNoContent)
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// bindPost reads a post form from JSON, urlencoded or multipart bodies.
// The returned func releases the uploaded file.
func bindPost(c *gin.Context) (posts.Input, func(), error) {
	var in posts.Input
	noop := func() {}
	if err := c.ShouldBind(&in); err != nil {
		return in, noop, apperr.Invalid("body", "malformed request body")
	}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return in, noop, nil
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, noop, nil
	}
	if err != nil {
		return in, noop, apperr.Invalid("image", "malformed upload")
	}
	f, err := fh.Open()
	if err != nil {
		return in, noop, err
	}
	in.Image = &posts.Image{Filename: fh.Filename, Body: f}
	return in, func() { _ = f.Close() }, nil
}
