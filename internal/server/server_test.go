package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/session"
	"yatube/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
	cfg *config.Config
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:                  "test",
		Port:                 "0",
		SecretKey:            "test-secret-key-that-is-long-enough-1234",
		DBDriver:             "sqlite",
		MediaRoot:            t.TempDir(),
		MediaURL:             "/media",
		ImageMaxUploadSizeMB: 1,
		PageCacheTTLSeconds:  20,
		PostsPerPage:         10,
		SessionTTLHours:      1,
		LoginURL:             "/auth/login/",
		FeatureFlags:         "index_page_cache=on,signup=on",
	}
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	for _, m := range mutate {
		m(cfg)
	}

	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testEnv{srv: srv, app: srv.NewApp(), db: db, mr: mr, cfg: cfg}
}

// cookieFor returns a session cookie logged in as user.
func (e *testEnv) cookieFor(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, _, err := e.srv.sessions.Issue(user.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, target string, cookie *http.Cookie) *http.Response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil), cookie)
}

func (e *testEnv) postForm(t *testing.T, target string, values url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req, cookie)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return string(body)
}

func countPosts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Post{}).Count(&n).Error)
	return n
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health/live", "/health/ready", "/health"} {
		resp := env.get(t, path, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	}

	env.mr.Close()
	resp := env.get(t, "/health/ready", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestAboutPages(t *testing.T) {
	env := newTestEnv(t)

	for path, want := range map[string]string{
		"/about/author/": "About the author",
		"/about/tech/":   "Technologies",
	} {
		resp := env.get(t, path, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, readBody(t, resp), want)
	}
}

func TestNotFoundPage(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "leo")

	for _, path := range []string{
		"/ghost/",
		"/leo/999/",
		"/leo/abc/",
		"/group/missing/",
		"/a/b/c/d/",
	} {
		resp := env.get(t, path, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
		body := readBody(t, resp)
		assert.Contains(t, body, "Page not found", path)
		assert.Contains(t, body, path, path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/follow/"},
		{http.MethodPost, "/"},
		{http.MethodDelete, "/new/"},
		{http.MethodPut, "/about/tech/"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := env.do(t, httptest.NewRequest(tt.method, tt.path, nil), nil)
			assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		})
	}
}

func TestLoginRequired(t *testing.T) {
	env := newTestEnv(t)
	leo := testutil.CreateUser(t, env.db, "leo")
	post := testutil.CreatePost(t, env.db, leo, nil, "Protected post")

	paths := []string{
		"/new/",
		"/follow/",
		postPath("leo", post.ID) + "edit/",
		postPath("leo", post.ID) + "comment/",
		"/leo/follow/",
		"/leo/unfollow/",
	}
	for _, path := range paths {
		resp := env.get(t, path, nil)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/auth/login/?next="+path, resp.Header.Get("Location"), path)
	}
}

func TestLoginURL(t *testing.T) {
	s := &Server{config: &config.Config{LoginURL: "/auth/login/"}}

	assert.Equal(t, "/auth/login/?next=/new/", s.loginURL("/new/"))
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", s.loginURL("/follow/?page=2"))
	assert.Equal(t, "/auth/login/?next=/a%20b/", s.loginURL("/a b/"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/new/", safeNext("/new/"))
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/", safeNext("https://evil.test/"))
	assert.Equal(t, "/", safeNext("//evil.test/"))
}
