// Package seed fills a database with built-in groups and fake demo content.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// MaxDays spreads post dates over this many past days.
	MaxDays int
	// FastHash hashes the shared password with the minimum bcrypt cost.
	FastHash bool
	// RandomSeed fixes the fake data; 0 picks a random seed.
	RandomSeed int64
	// Redis, if set, has its cached groups refreshed.
	Redis *redis.Client
}

// Result counts what a run created.
type Result struct {
	Groups   int
	Users    int
	Posts    int
	Comments int
	Follows  int
}

// Seed populates the database with groups, users, posts, comments and follows.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	log := middleware.Logger
	log.InfoContext(ctx, "starting database seeding", slog.Int("users", opts.NumUsers), slog.Int("posts", opts.NumPosts))

	if opts.ShouldClean {
		if err := clearData(ctx, db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	res := &Result{}
	groups, err := Groups(ctx, db, opts.Redis)
	if err != nil {
		return nil, err
	}
	res.Groups = len(groups)

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser(ctx, i+1)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	res.Users = len(users)
	if len(users) == 0 {
		log.InfoContext(ctx, "database seeding completed", slog.Int("groups", res.Groups))
		return res, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.fake.Number(0, len(users)-1)]
		var group *models.Group
		// Some posts are left without a group.
		if pick := f.fake.Number(0, len(groups)+len(groups)/2); pick < len(groups) {
			group = groups[pick]
		}
		posts = append(posts, f.BuildPost(author, group))
	}
	if err := f.CreatePostsBatch(ctx, posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	res.Posts = len(posts)

	for _, post := range posts {
		for n := f.fake.Number(0, 3); n > 0; n-- {
			if _, err := f.CreateComment(ctx, post, users[f.fake.Number(0, len(users)-1)]); err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
			res.Comments++
		}
	}

	for _, user := range users {
		for n := f.fake.Number(0, 3); n > 0; n-- {
			created, err := f.Follow(ctx, user, users[f.fake.Number(0, len(users)-1)])
			if err != nil {
				return nil, fmt.Errorf("create follow: %w", err)
			}
			if created {
				res.Follows++
			}
		}
	}

	log.InfoContext(ctx, "database seeding completed",
		slog.Int("groups", res.Groups),
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("follows", res.Follows),
	)
	return res, nil
}

// clearData removes all content, children first. Groups are kept.
func clearData(ctx context.Context, db *gorm.DB) error {
	middleware.Logger.InfoContext(ctx, "clearing existing data")
	tx := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
