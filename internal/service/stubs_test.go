package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"

	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	getByAuthorAndIDFn func(context.Context, uint, uint) (*models.Post, error)
	updateFn           func(context.Context, *models.Post) error
	listFn             func(context.Context, repository.PostFilter, int, int) ([]*models.Post, error)
	countFn            func(context.Context, repository.PostFilter) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByAuthorAndID(ctx context.Context, authorID, postID uint) (*models.Post, error) {
	return s.getByAuthorAndIDFn(ctx, authorID, postID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, filter, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context, filter repository.PostFilter) (int64, error) {
	return s.countFn(ctx, filter)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return nil, gorm.ErrRecordNotFound },
		getByAuthorAndIDFn: func(_ context.Context, _, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countFn: func(_ context.Context, _ repository.PostFilter) (int64, error) { return 0, nil },
	}
}

// userRepoStub serves a fixed set of users.
type userRepoStub struct {
	users    map[string]*models.User
	createFn func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	user.ID = uint(len(s.users) + 1)
	s.users[user.Username] = user
	return nil
}
func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newUserRepoStub(users ...*models.User) *userRepoStub {
	s := &userRepoStub{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

// groupRepoStub serves a fixed set of groups.
type groupRepoStub struct {
	groups []*models.Group
}

func (s *groupRepoStub) GetByID(_ context.Context, id uint) (*models.Group, error) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *groupRepoStub) GetBySlug(_ context.Context, slug string) (*models.Group, error) {
	for _, g := range s.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *groupRepoStub) List(_ context.Context) ([]*models.Group, error) {
	return s.groups, nil
}
func (s *groupRepoStub) Upsert(_ context.Context, g *models.Group) error {
	s.groups = append(s.groups, g)
	return nil
}

// commentRepoStub records created comments.
type commentRepoStub struct {
	created []*models.Comment
}

func (s *commentRepoStub) Create(_ context.Context, c *models.Comment) error {
	c.ID = uint(len(s.created) + 1)
	s.created = append(s.created, c)
	return nil
}
func (s *commentRepoStub) ListByPost(_ context.Context, postID uint) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range s.created {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	list, _ := s.ListByPost(ctx, postID)
	return int64(len(list)), nil
}

type followKey struct{ user, author uint }

// followRepoStub keeps follows in memory.
type followRepoStub struct {
	follows map[followKey]bool
}

func newFollowRepoStub() *followRepoStub {
	return &followRepoStub{follows: make(map[followKey]bool)}
}

func (s *followRepoStub) Follow(_ context.Context, userID, authorID uint) (bool, error) {
	k := followKey{userID, authorID}
	if s.follows[k] {
		return false, nil
	}
	s.follows[k] = true
	return true, nil
}
func (s *followRepoStub) Unfollow(_ context.Context, userID, authorID uint) (bool, error) {
	k := followKey{userID, authorID}
	if !s.follows[k] {
		return false, nil
	}
	delete(s.follows, k)
	return true, nil
}
func (s *followRepoStub) Exists(_ context.Context, userID, authorID uint) (bool, error) {
	return s.follows[followKey{userID, authorID}], nil
}
func (s *followRepoStub) CountFollowers(_ context.Context, authorID uint) (int64, error) {
	var n int64
	for k := range s.follows {
		if k.author == authorID {
			n++
		}
	}
	return n, nil
}
func (s *followRepoStub) CountFollowing(_ context.Context, userID uint) (int64, error) {
	var n int64
	for k := range s.follows {
		if k.user == userID {
			n++
		}
	}
	return n, nil
}
