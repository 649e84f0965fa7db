package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFollowService(t *testing.T) {
	reader := &models.User{ID: 1, Username: "reader"}
	author := &models.User{ID: 2, Username: "author"}
	follows := newFollowRepoStub()
	svc := NewFollowService(follows, newUserRepoStub(reader, author))
	ctx := context.Background()

	t.Run("Follow twice is one subscription", func(t *testing.T) {
		_, err := svc.Follow(ctx, reader.ID, "author")
		require.NoError(t, err)
		_, err = svc.Follow(ctx, reader.ID, "author")
		require.NoError(t, err)
		assert.Len(t, follows.follows, 1)

		ok, err := svc.IsFollowing(ctx, reader.ID, author.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Self follow is a no-op", func(t *testing.T) {
		got, err := svc.Follow(ctx, reader.ID, "reader")
		require.NoError(t, err)
		assert.Equal(t, reader.ID, got.ID)
		assert.False(t, follows.follows[followKey{reader.ID, reader.ID}])
	})

	t.Run("Unknown author", func(t *testing.T) {
		_, err := svc.Follow(ctx, reader.ID, "ghost")
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("Unfollow", func(t *testing.T) {
		_, err := svc.Unfollow(ctx, reader.ID, "author")
		require.NoError(t, err)
		assert.Empty(t, follows.follows)

		_, err = svc.Unfollow(ctx, reader.ID, "author")
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("Self unfollow is a no-op", func(t *testing.T) {
		_, err := svc.Unfollow(ctx, reader.ID, "reader")
		assert.NoError(t, err)
	})

	t.Run("Anonymous never follows", func(t *testing.T) {
		ok, err := svc.IsFollowing(ctx, 0, author.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Follow(ctx context.Context, userID, authorID uint) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Unfollow(ctx context.Context, userID, authorID uint) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestFollowServiceRepositoryCalls(t *testing.T) {
	reader := &models.User{ID: 1, Username: "reader"}
	author := &models.User{ID: 2, Username: "author"}
	ctx := context.Background()

	t.Run("Existing subscription is not an error", func(t *testing.T) {
		repo := new(MockFollowRepository)
		repo.On("Follow", ctx, reader.ID, author.ID).Return(false, nil).Once()

		got, err := NewFollowService(repo, newUserRepoStub(reader, author)).Follow(ctx, reader.ID, "author")
		require.NoError(t, err)
		assert.Equal(t, author.ID, got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Self follow never reaches the repository", func(t *testing.T) {
		repo := new(MockFollowRepository)

		_, err := NewFollowService(repo, newUserRepoStub(reader)).Follow(ctx, reader.ID, "reader")
		require.NoError(t, err)
		repo.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Repository failure propagates", func(t *testing.T) {
		repo := new(MockFollowRepository)
		boom := errors.New("connection reset")
		repo.On("Unfollow", ctx, reader.ID, author.ID).Return(false, boom)

		_, err := NewFollowService(repo, newUserRepoStub(reader, author)).Unfollow(ctx, reader.ID, "author")
		assert.ErrorIs(t, err, boom)
		assert.False(t, models.IsNotFound(err))
	})
}
