package views

import (
	"bytes"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RendersFeedWithLayout(t *testing.T) {
	engine := NewEngine(func(name string) string { return "/media/" + name })
	require.NoError(t, engine.Load())

	author := &models.User{ID: 1, Username: "leo"}
	group := &models.Group{ID: 2, Title: "Cats", Slug: "cats"}
	page := &pagination.Page[*models.Post]{
		Items: []*models.Post{
			{ID: 7, Text: "First post", Author: author, AuthorID: 1, Group: group, Image: "posts/a.png", CreatedAt: time.Now()},
		},
		Number:   1,
		NumPages: 2,
		Count:    11,
		PerPage:  10,
	}

	var buf bytes.Buffer
	err := engine.Render(&buf, "posts/index", map[string]interface{}{
		"Title": "Latest posts",
		"Page":  page,
	}, Layout)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Latest posts | Yatube</title>")
	assert.Contains(t, out, "First post")
	assert.Contains(t, out, `href="/leo/7/"`)
	assert.Contains(t, out, `href="/group/cats/"`)
	assert.Contains(t, out, `src="/media/posts/a.png"`)
	assert.Contains(t, out, `href="?page=2"`)
}

func TestEngine_ParsesEveryTemplate(t *testing.T) {
	engine := NewEngine(func(name string) string { return name })
	require.NoError(t, engine.Load())

	for _, name := range []string{
		"misc/404", "misc/500", "about/author", "about/tech",
		"auth/login", "auth/logged_out",
	} {
		var buf bytes.Buffer
		err := engine.Render(&buf, name, map[string]interface{}{"Path": "/missing/"}, Layout)
		assert.NoError(t, err, name)
		assert.NotEmpty(t, buf.String(), name)
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "post", plural(1, "post", "posts"))
	assert.Equal(t, "posts", plural(0, "post", "posts"))
	assert.Equal(t, "posts", plural(5, "post", "posts"))
}
