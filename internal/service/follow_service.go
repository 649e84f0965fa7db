package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FollowService manages subscriptions between users.
// Following is get-or-create: repeating it or following yourself is a silent success.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow subscribes followerID to username and returns the author.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "User", username)
	}
	if author.ID == followerID {
		return author, nil
	}

	created, err := s.followRepo.Follow(ctx, followerID, author.ID)
	if err != nil {
		return nil, err
	}
	if created {
		observability.FollowChanges.WithLabelValues("follow").Inc()
	}
	return author, nil
}

// Unfollow removes the subscription of followerID to username.
// A subscription that does not exist is NOT_FOUND, except for yourself.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "User", username)
	}
	if author.ID == followerID {
		return author, nil
	}

	removed, err := s.followRepo.Unfollow(ctx, followerID, author.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotFoundError("Follow", username)
	}
	observability.FollowChanges.WithLabelValues("unfollow").Inc()
	return author, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == 0 || followerID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, authorID)
}
