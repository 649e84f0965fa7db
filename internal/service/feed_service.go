package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PostPage is one page of a feed.
type PostPage = pagination.Page[*models.Post]

type GroupFeed struct {
	Group *models.Group
	Page  *PostPage
}

type AuthorFeed struct {
	Author         *models.User
	Page           *PostPage
	Following      bool
	FollowerCount  int64
	FollowingCount int64
}

// FeedService assembles the paginated post listings.
type FeedService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
	followRepo repository.FollowRepository
	perPage    int
}

func NewFeedService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	followRepo repository.FollowRepository,
	perPage int,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		groupRepo:  groupRepo,
		followRepo: followRepo,
		perPage:    perPage,
	}
}

// GlobalFeed lists every post.
func (s *FeedService) GlobalFeed(ctx context.Context, page string) (*PostPage, error) {
	defer observability.TrackFeed("global")()
	ctx, span := observability.StartSpan(ctx, "feed", "global")
	p, err := s.fetch(ctx, repository.PostFilter{}, page)
	observability.EndSpan(span, err)
	return p, err
}

// GroupFeed lists the posts filed under slug.
func (s *FeedService) GroupFeed(ctx context.Context, slug, page string) (*GroupFeed, error) {
	defer observability.TrackFeed("group")()
	ctx, span := observability.StartSpan(ctx, "feed", "group", attribute.String("group.slug", slug))

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		err = notFound(err, "Group", slug)
		observability.EndSpan(span, ignoreNotFound(err))
		return nil, err
	}
	p, err := s.fetch(ctx, repository.PostFilter{GroupID: group.ID}, page)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: p}, nil
}

// AuthorFeed lists the posts of username. viewerID is 0 for anonymous viewers.
func (s *FeedService) AuthorFeed(ctx context.Context, username, page string, viewerID uint) (*AuthorFeed, error) {
	defer observability.TrackFeed("author")()
	ctx, span := observability.StartSpan(ctx, "feed", "author", attribute.String("author.username", username))

	feed, err := s.authorFeed(ctx, username, page, viewerID)
	observability.EndSpan(span, ignoreNotFound(err))
	return feed, err
}

func (s *FeedService) authorFeed(ctx context.Context, username, page string, viewerID uint) (*AuthorFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "User", username)
	}
	p, err := s.fetch(ctx, repository.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}

	feed := &AuthorFeed{Author: author, Page: p}
	if viewerID != 0 && viewerID != author.ID {
		if feed.Following, err = s.followRepo.Exists(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
	}
	if feed.FollowerCount, err = s.followRepo.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if feed.FollowingCount, err = s.followRepo.CountFollowing(ctx, author.ID); err != nil {
		return nil, err
	}
	return feed, nil
}

// FollowFeed lists posts by the authors viewerID follows.
func (s *FeedService) FollowFeed(ctx context.Context, viewerID uint, page string) (*PostPage, error) {
	defer observability.TrackFeed("follow")()
	ctx, span := observability.StartSpan(ctx, "feed", "follow", attribute.Int64("viewer.id", int64(viewerID)))
	p, err := s.fetch(ctx, repository.PostFilter{FollowerID: viewerID}, page)
	observability.EndSpan(span, err)
	return p, err
}

func (s *FeedService) fetch(ctx context.Context, filter repository.PostFilter, page string) (*PostPage, error) {
	return pagination.Fetch(ctx, s.perPage, page,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.Count(ctx, filter)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.List(ctx, filter, limit, offset)
		},
	)
}
