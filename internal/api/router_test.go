package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/dbtest"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
	"github.com/yatube/yatube/pkg/config"
)

const (
	testSecret     = "test-secret"
	testAdminToken = "admin-token"
)

type testServer struct {
	engine   *gin.Engine
	database *db.DB
}

func newTestServer(t *testing.T, adminToken string) *testServer {
	t.Helper()
	return newTestServerWithStore(t, adminToken, cache.NewMemory())
}

func newTestServerWithStore(t *testing.T, adminToken string, store cache.Store) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{AdminToken: adminToken},
		Feed:   config.FeedConfig{PageSize: 10, IndexCacheTTL: time.Minute},
		Auth:   config.AuthConfig{JWTSecret: testSecret, LoginURL: "/auth/login/"},
	}
	database := dbtest.Open(t)
	files, err := storage.NewLocal(t.TempDir(), "/media/")
	require.NoError(t, err)

	engine := gin.New()
	NewRouter(cfg, database, store, files).SetupRoutes(engine)
	return &testServer{engine: engine, database: database}
}

func (s *testServer) do(t *testing.T, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.authorize(t, req, user)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) authorize(t *testing.T, req *http.Request, user *models.User) {
	t.Helper()
	if user == nil {
		return
	}
	token, err := auth.NewTokens(testSecret).Issue(user.ID, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func decodeFeed(t *testing.T, rec *httptest.ResponseRecorder) feedView {
	t.Helper()
	var v feedView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestIndexPaginationAndCache(t *testing.T) {
	s := newTestServer(t, testAdminToken)
	author := dbtest.User(t, s.database, "writer")
	dbtest.Posts(t, s.database, author, nil, 13)

	rec := s.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeFeed(t, rec)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, int64(13), first.Page.Count)
	assert.True(t, first.Page.HasNext)

	rec = s.do(t, http.MethodGet, "/?page=2", nil, nil)
	assert.Len(t, decodeFeed(t, rec).Posts, 3)

	rec = s.do(t, http.MethodGet, "/?page=3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeFeed(t, rec).Posts)

	rec = s.do(t, http.MethodGet, "/?page=abc", nil, nil)
	assert.Equal(t, 1, decodeFeed(t, rec).Page.Number)

	cached := s.do(t, http.MethodGet, "/", nil, nil).Body.String()

	rec = s.do(t, http.MethodPost, "/create/", author, map[string]interface{}{"text": "brand new"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/profile/writer/", rec.Header().Get("Location"))

	assert.Equal(t, cached, s.do(t, http.MethodGet, "/", nil, nil).Body.String(), "home page should be served from cache")

	rec = s.do(t, http.MethodPost, "/admin/cache/clear", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/clear", nil)
	req.Header.Set(adminTokenHeader, testAdminToken)
	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	fresh := decodeFeed(t, s.do(t, http.MethodGet, "/", nil, nil))
	require.NotEmpty(t, fresh.Posts)
	assert.Equal(t, "brand new", fresh.Posts[0].Text)
	assert.Equal(t, int64(14), fresh.Page.Count)
}

func TestAdminRouteAbsentWithoutToken(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodPost, "/admin/cache/clear", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	s := newTestServer(t, "")
	dbtest.User(t, s.database, "writer")

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/create/"},
		{method: http.MethodPost, path: "/create/"},
		{method: http.MethodGet, path: "/posts/1/edit/"},
		{method: http.MethodGet, path: "/follow/"},
		{method: http.MethodPost, path: "/profile/writer/follow/"},
		{method: http.MethodPost, path: "/posts/1/comment/"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, nil, nil)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, auth.LoginRedirect("/auth/login/", tt.path), rec.Header().Get("Location"))
		})
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, "")

	for _, path := range []string{"/group/missing/", "/profile/nobody/", "/posts/999/", "/posts/abc/", "/no/such/page/"} {
		t.Run(path, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, path, nil, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			var e Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.Equal(t, http.StatusNotFound, e.Code)
		})
	}
}

func TestGroupAndProfile(t *testing.T) {
	s := newTestServer(t, "")
	author := dbtest.User(t, s.database, "writer")
	viewer := dbtest.User(t, s.database, "viewer")
	cats := dbtest.Group(t, s.database, "cats")
	dbtest.Posts(t, s.database, author, cats, 2)
	dbtest.Posts(t, s.database, author, nil, 1)

	rec := s.do(t, http.MethodGet, "/group/cats/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	group := decodeFeed(t, rec)
	assert.Len(t, group.Posts, 2)
	require.NotNil(t, group.Group)
	assert.Equal(t, "cats", group.Group.Slug)

	rec = s.do(t, http.MethodPost, "/profile/writer/follow/", viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/profile/writer/", viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p profileView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, int64(3), p.PostCount)
	assert.True(t, p.Following)
	assert.Equal(t, int64(1), p.FollowersCount)
	assert.Len(t, p.Posts, 3)
}

func TestFollowFlow(t *testing.T) {
	s := newTestServer(t, "")
	reader := dbtest.User(t, s.database, "reader")
	author := dbtest.User(t, s.database, "writer")
	dbtest.Posts(t, s.database, author, nil, 2)

	assert.Empty(t, decodeFeed(t, s.do(t, http.MethodGet, "/follow/", reader, nil)).Posts)

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/profile/writer/follow/", reader, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	n, err := db.NewFollowRepository(db.NewRepository(s.database.DB)).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Len(t, decodeFeed(t, s.do(t, http.MethodGet, "/follow/", reader, nil)).Posts, 2)

	rec := s.do(t, http.MethodPost, "/profile/reader/follow/", reader, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/profile/ghost/follow/", reader, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/profile/writer/unfollow/", reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeFeed(t, s.do(t, http.MethodGet, "/follow/", reader, nil)).Posts)
}

func TestEditPost(t *testing.T) {
	s := newTestServer(t, "")
	author := dbtest.User(t, s.database, "writer")
	other := dbtest.User(t, s.database, "other")
	post := dbtest.Post(t, s.database, author, nil, "draft", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	path := fmt.Sprintf("/posts/%d/edit/", post.ID)

	rec := s.do(t, http.MethodPost, path, other, map[string]interface{}{"text": "hijack"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), rec.Header().Get("Location"))

	rec = s.do(t, http.MethodPost, path, author, map[string]interface{}{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, path, author, map[string]interface{}{"text": "final"})
	require.Equal(t, http.StatusOK, rec.Code)
	var v postView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "final", v.Text)
	assert.True(t, v.PubDate.Equal(post.PubDate))
}

func TestPostForms(t *testing.T) {
	s := newTestServer(t, "")
	author := dbtest.User(t, s.database, "writer")
	other := dbtest.User(t, s.database, "other")
	dbtest.Group(t, s.database, "dogs")
	cats := dbtest.Group(t, s.database, "cats")
	post := dbtest.Post(t, s.database, author, cats, "draft", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	rec := s.do(t, http.MethodGet, "/create/", author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var created formView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.IsEdit)
	assert.Nil(t, created.Post)
	require.Len(t, created.Groups, 2)
	assert.Equal(t, "cats", created.Groups[0].Slug, "groups are ordered by title")

	path := fmt.Sprintf("/posts/%d/edit/", post.ID)
	rec = s.do(t, http.MethodGet, path, author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var edit formView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &edit))
	assert.True(t, edit.IsEdit)
	require.NotNil(t, edit.Post)
	assert.Equal(t, "draft", edit.Post.Text)
	require.NotNil(t, edit.Post.Group)
	assert.Equal(t, "cats", edit.Post.Group.Slug)
	assert.Len(t, edit.Groups, 2)

	rec = s.do(t, http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/posts/999/edit/", author, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentFlow(t *testing.T) {
	s := newTestServer(t, "")
	author := dbtest.User(t, s.database, "writer")
	post := dbtest.Post(t, s.database, author, nil, "hello", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	path := fmt.Sprintf("/posts/%d/comment/", post.ID)

	rec := s.do(t, http.MethodPost, path, author, map[string]interface{}{"text": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var e Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "text", e.Fields[0].Field)

	for _, text := range []string{"first", "second"} {
		rec = s.do(t, http.MethodPost, path, author, map[string]interface{}{"text": text})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/posts/999/comment/", author, map[string]interface{}{"text": "lost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/", post.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var d detailView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.Len(t, d.Comments, 2)
	assert.Equal(t, "second", d.Comments[0].Text)
	assert.Equal(t, "first", d.Comments[1].Text)
	assert.Equal(t, int64(1), d.AuthorPostCount)
}

func TestCreateWithImage(t *testing.T) {
	s := newTestServer(t, "")
	author := dbtest.User(t, s.database, "writer")
	group := dbtest.Group(t, s.database, "cats")

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("text", "with a picture"))
	require.NoError(t, w.WriteField("group", fmt.Sprint(group.ID)))
	part, err := w.CreateFormFile("image", "cat.gif")
	require.NoError(t, err)
	_, err = part.Write([]byte("GIF89a"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/create/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	s.authorize(t, req, author)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var v postView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.True(t, strings.HasPrefix(v.Image, "/media/posts/"))
	assert.True(t, strings.HasSuffix(v.Image, ".gif"))
	require.NotNil(t, v.Group)
	assert.Equal(t, "cats", v.Group.Slug)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	assert.NotContains(t, rec.Body.String(), `"cache"`, "the in-process cache has no backend to report")
}

func TestHealthReportsUnreachableCache(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	s := newTestServerWithStore(t, "", cache.NewWithClient(client))

	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "UNAVAILABLE", body["cache"])

	author := dbtest.User(t, s.database, "writer")
	dbtest.Posts(t, s.database, author, nil, 2)
	rec = s.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeFeed(t, rec).Posts, 2)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))

	rec = s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}
