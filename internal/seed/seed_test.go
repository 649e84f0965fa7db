package seed

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltInGroups(t *testing.T) {
	groups, err := LoadBuiltInGroups()
	require.NoError(t, err)
	require.NotEmpty(t, groups)

	seen := map[string]bool{}
	for _, g := range groups {
		assert.NotEmpty(t, g.Title)
		assert.False(t, seen[g.Slug], "duplicate slug %s", g.Slug)
		seen[g.Slug] = true
	}
	assert.True(t, seen["leo"])
}

func TestGroups_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	first, err := Groups(ctx, db, nil)
	require.NoError(t, err)
	second, err := Groups(ctx, db, nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	assert.Equal(t, int64(len(first)), count)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	opts := Options{NumUsers: 5, NumPosts: 25, MaxDays: 30, FastHash: true, RandomSeed: 7}

	res, err := Seed(ctx, db, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Users)
	assert.Equal(t, 25, res.Posts)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 25)
	for _, p := range posts {
		assert.NotEmpty(t, p.Text)
		assert.WithinDuration(t, time.Now(), p.CreatedAt, time.Duration(opts.MaxDays+1)*24*time.Hour)
	}

	var follows []models.Follow
	require.NoError(t, db.Find(&follows).Error)
	assert.Len(t, follows, res.Follows)
	for _, f := range follows {
		assert.NotEqual(t, f.UserID, f.AuthorID)
	}

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(res.Comments), comments)

	// A clean run replaces users instead of adding to them.
	_, err = Seed(ctx, db, Options{NumUsers: 2, NumPosts: 3, ShouldClean: true, FastHash: true, RandomSeed: 8})
	require.NoError(t, err)
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(2), users)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "oconnor", sanitize("O'Connor"))
	assert.Equal(t, "annamaria", sanitize("Anna-Maria"))
}
