package server

import (
	"net/url"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countComments(t *testing.T, env *testEnv) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&n).Error)
	return n
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	leo := testutil.CreateUser(t, env.db, "leo")
	anna := testutil.CreateUser(t, env.db, "anna")
	post := testutil.CreatePost(t, env.db, leo, nil, "Worth a comment")
	commentPath := postPath("leo", post.ID) + "comment/"
	cookie := env.cookieFor(t, anna)

	resp := env.get(t, commentPath, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Comment text")

	resp = env.postForm(t, commentPath, url.Values{"text": {"First!"}}, cookie)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, postPath("leo", post.ID), resp.Header.Get("Location"))
	assert.Equal(t, int64(1), countComments(t, env))

	body := readBody(t, env.get(t, postPath("leo", post.ID), nil))
	assert.Contains(t, body, "First!")
}

func TestAddComment_Invalid(t *testing.T) {
	env := newTestEnv(t)
	leo := testutil.CreateUser(t, env.db, "leo")
	post := testutil.CreatePost(t, env.db, leo, nil, "Worth a comment")
	cookie := env.cookieFor(t, leo)

	resp := env.postForm(t, postPath("leo", post.ID)+"comment/", url.Values{"text": {" "}}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "This field is required.")
	assert.Equal(t, int64(0), countComments(t, env))

	resp = env.postForm(t, "/leo/999/comment/", url.Values{"text": {"Hello"}}, cookie)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAddComment_LooksUpPostByID(t *testing.T) {
	env := newTestEnv(t)
	leo := testutil.CreateUser(t, env.db, "leo")
	anna := testutil.CreateUser(t, env.db, "anna")
	post := testutil.CreatePost(t, env.db, leo, nil, "Worth a comment")

	resp := env.postForm(t, postPath("anna", post.ID)+"comment/", url.Values{"text": {"Via another path"}}, env.cookieFor(t, anna))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, postPath("leo", post.ID), resp.Header.Get("Location"))
	assert.Equal(t, int64(1), countComments(t, env))
}
