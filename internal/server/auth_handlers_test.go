package server

import (
	"net/http"
	"net/url"
	"testing"

	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/session"
	"yatube/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/auth/signup/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.postForm(t, "/auth/signup/", url.Values{
		"username":   {"anna"},
		"first_name": {"Anna"},
		"password1":  {"long-password-1"},
		"password2":  {"long-password-1"},
	}, nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	var user models.User
	require.NoError(t, env.db.Where("username = ?", "anna").First(&user).Error)
	assert.Equal(t, "Anna", user.FirstName)

	resp = env.get(t, "/new/", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSignup_Invalid(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "leo")

	tests := []struct {
		name   string
		values url.Values
		want   string
	}{
		{"Taken username", url.Values{"username": {"leo"}, "password1": {"long-password-1"}, "password2": {"long-password-1"}}, "A user with that username already exists."},
		{"Reserved username", url.Values{"username": {"follow"}, "password1": {"long-password-1"}, "password2": {"long-password-1"}}, "This username is not available."},
		{"Passwords differ", url.Values{"username": {"anna"}, "password1": {"long-password-1"}, "password2": {"long-password-2"}}, "The two password fields didn&#39;t match."},
		{"Short password", url.Values{"username": {"anna"}, "password1": {"short"}, "password2": {"short"}}, "at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.postForm(t, "/auth/signup/", tt.values, nil)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), tt.want)
			assert.Nil(t, sessionCookie(resp))
		})
	}
}

func TestSignup_Disabled(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.FeatureFlags = "signup=off" })

	resp := env.get(t, "/auth/signup/", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "leo")

	resp := env.get(t, "/auth/login/?next=/follow/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `value="/follow/"`)

	resp = env.postForm(t, "/auth/login/", url.Values{
		"username": {"leo"},
		"password": {testutil.Password},
		"next":     {"/follow/"},
	}, nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/follow/", resp.Header.Get("Location"))
	require.NotNil(t, sessionCookie(resp))

	resp = env.postForm(t, "/auth/login/", url.Values{
		"username": {"leo"},
		"password": {testutil.Password},
		"next":     {"https://evil.test/"},
	}, nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLogin_BadPassword(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "leo")

	resp := env.postForm(t, "/auth/login/", url.Values{
		"username": {"leo"},
		"password": {"wrong-password"},
	}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Please enter a correct username and password.")
	assert.Nil(t, sessionCookie(resp))
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	leo := testutil.CreateUser(t, env.db, "leo")
	cookie := env.cookieFor(t, leo)

	require.Equal(t, fiber.StatusOK, env.get(t, "/new/", cookie).StatusCode)

	resp := env.get(t, "/auth/logout/", cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "You have been logged out")
	assert.NotContains(t, body, "Log out")

	resp = env.get(t, "/new/", cookie)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next=/new/", resp.Header.Get("Location"))
}
