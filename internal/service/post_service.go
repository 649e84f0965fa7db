package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EditPolicy decides how an edit attempt by someone other than the author is answered.
type EditPolicy int

const (
	// RedirectNonAuthor sends a non-author back to the post page and changes nothing.
	RedirectNonAuthor EditPolicy = iota
	// ForbidNonAuthor answers a non-author with 403.
	ForbidNonAuthor
)

func (p EditPolicy) String() string {
	switch p {
	case RedirectNonAuthor:
		return "redirect_non_author"
	case ForbidNonAuthor:
		return "forbid_non_author"
	default:
		return "unknown"
	}
}

// ErrUnknownGroup is returned when a post names a group that does not exist.
var ErrUnknownGroup = models.NewValidationError("Select a valid choice. That choice is not one of the available choices.")

type PostService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	policy      EditPolicy
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    string
}

type UpdatePostInput struct {
	EditorID uint
	Username string
	PostID   uint
	Text     string
	GroupID  *uint
	// Image replaces the stored image when non-empty.
	Image string
}

// PostDetail is everything the post page shows.
type PostDetail struct {
	Post            *models.Post
	Comments        []*models.Comment
	AuthorPostCount int64
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	commentRepo repository.CommentRepository,
	policy EditPolicy,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		policy:      policy,
	}
}

// Policy returns the policy applied to non-author edits.
func (s *PostService) Policy() EditPolicy {
	return s.policy
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
		Image:    in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()
	return post, nil
}

// GetPost returns post id with its author and group.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Post", id)
	}
	return post, nil
}

// GetAuthorPost returns post postID if it was written by username.
func (s *PostService) GetAuthorPost(ctx context.Context, username string, postID uint) (*models.Post, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "User", username)
	}
	post, err := s.postRepo.GetByAuthorAndID(ctx, author.ID, postID)
	if err != nil {
		return nil, notFound(err, "Post", postID)
	}
	return post, nil
}

func (s *PostService) GetPostDetail(ctx context.Context, username string, postID uint) (*PostDetail, error) {
	ctx, span := observability.StartSpan(ctx, "post", "detail", attribute.Int64("post.id", int64(postID)))
	detail, err := s.postDetail(ctx, username, postID)
	observability.EndSpan(span, ignoreNotFound(err))
	return detail, err
}

func (s *PostService) postDetail(ctx context.Context, username string, postID uint) (*PostDetail, error) {
	post, err := s.GetAuthorPost(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: count}, nil
}

// UpdatePost edits text, group and image in place. Editors other than the
// author get models.ErrNotAuthor and the post is left untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetAuthorPost(ctx, in.Username, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthor(in.EditorID) {
		observability.PostsEdited.WithLabelValues("not_author").Inc()
		return post, models.ErrNotAuthor
	}

	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	if in.Image != "" {
		post.Image = in.Image
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsEdited.WithLabelValues("saved").Inc()
	return post, nil
}

// ListGroups returns the choices offered by the post form.
func (s *PostService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *PostService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if models.IsNotFound(notFound(err, "Group", *groupID)) {
			return ErrUnknownGroup
		}
		return err
	}
	return nil
}

func ignoreNotFound(err error) error {
	if models.IsNotFound(err) || errors.Is(err, models.ErrNotAuthor) {
		return nil
	}
	return err
}
