package seed

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Factory builds fake users, posts, comments and follows and persists them.
type Factory struct {
	db      *gorm.DB
	opts    Options
	fake    *gofakeit.Faker
	follows repository.FollowRepository
	hash    string
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	return &Factory{
		db:      db,
		opts:    opts,
		fake:    gofakeit.New(opts.RandomSeed),
		follows: repository.NewFollowRepository(db),
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.FastHash {
		cost = bcrypt.MinCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", err
	}
	f.hash = string(h)
	return f.hash, nil
}

// CreateUser persists a fake user. n keeps usernames unique within a run.
func (f *Factory) CreateUser(ctx context.Context, n int, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	first, last := f.fake.FirstName(), f.fake.LastName()
	user := &models.User{
		Username:  fmt.Sprintf("%s_%s%d", sanitize(first), sanitize(last), n),
		Password:  hash,
		FirstName: first,
		LastName:  last,
		Email:     f.fake.Email(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by author, in group when group is not nil,
// dated somewhere in the last MaxDays days.
func (f *Factory) BuildPost(author *models.User, group *models.Group) *models.Post {
	post := &models.Post{
		Text:      f.fake.Paragraph(1, f.fake.Number(1, 4), f.fake.Number(6, 14), "\n"),
		AuthorID:  author.ID,
		CreatedAt: f.pastTime(),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	return post
}

// CreatePostsBatch persists posts in one statement.
func (f *Factory) CreatePostsBatch(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&posts, 100).Error
}

// CreateComment persists a fake comment on post.
func (f *Factory) CreateComment(ctx context.Context, post *models.Post, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Text:      f.fake.Sentence(f.fake.Number(3, 15)),
		CreatedAt: post.CreatedAt.Add(time.Duration(f.fake.Number(1, 720)) * time.Minute),
	}
	if err := f.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Follow subscribes user to author unless that is the same account.
func (f *Factory) Follow(ctx context.Context, user, author *models.User) (bool, error) {
	if user.ID == author.ID {
		return false, nil
	}
	return f.follows.Follow(ctx, user.ID, author.ID)
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.fake.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	return string(out)
}
