package server

import (
	"errors"
	"log/slog"
	"strconv"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"
	"yatube/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PostView handles GET /:username/:post_id/
func (s *Server) PostView(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	detail, err := s.postService.GetPostDetail(c.UserContext(), c.Params("username"), postID)
	if err != nil {
		return err
	}

	return s.render(c, "posts/post", fiber.Map{
		"Title":         detail.Post.String(),
		"Author":        detail.Post.Author,
		"NumberOfPosts": detail.AuthorPostCount,
		"Post":          detail.Post,
		"Comments":      detail.Comments,
		"Form":          &validation.CommentForm{},
		"Errors":        validation.Errors{},
		"CanEdit":       detail.Post.IsAuthor(currentUserID(c)),
	})
}

// NewPost handles GET and POST /new/
func (s *Server) NewPost(c *fiber.Ctx) error {
	form := &validation.PostForm{}
	if c.Method() != fiber.MethodPost {
		return s.renderPostForm(c, form, validation.Errors{}, nil)
	}

	ctx := c.UserContext()
	image, errs := s.readPostForm(c, form)
	if !errs.Any() {
		post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
			AuthorID: currentUserID(c),
			Text:     form.Text,
			GroupID:  form.GroupID(),
			Image:    image,
		})
		if err == nil {
			middleware.Logger.InfoContext(ctx, "post created", slog.Uint64("post_id", uint64(post.ID)))
			return c.Redirect("/", fiber.StatusFound)
		}
		s.discardImage(c, image)
		if !addPostFormError(errs, err) {
			return err
		}
	}
	return s.renderPostForm(c, form, errs, nil)
}

// PostEdit handles GET and POST /:username/:post_id/edit/
func (s *Server) PostEdit(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	username := c.Params("username")
	userID := currentUserID(c)

	post, err := s.postService.GetAuthorPost(ctx, username, postID)
	if err != nil {
		return err
	}
	if !post.IsAuthor(userID) {
		return s.denyEdit(c, username, post.ID)
	}

	if c.Method() != fiber.MethodPost {
		form := &validation.PostForm{Text: post.Text}
		if post.GroupID != nil {
			form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
		}
		return s.renderPostForm(c, form, validation.Errors{}, post)
	}

	form := &validation.PostForm{}
	image, errs := s.readPostForm(c, form)
	if !errs.Any() {
		_, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
			EditorID: userID,
			Username: username,
			PostID:   post.ID,
			Text:     form.Text,
			GroupID:  form.GroupID(),
			Image:    image,
		})
		if err == nil {
			return c.Redirect(postPath(username, post.ID), fiber.StatusFound)
		}
		s.discardImage(c, image)
		if errors.Is(err, models.ErrNotAuthor) {
			return s.denyEdit(c, username, post.ID)
		}
		if !addPostFormError(errs, err) {
			return err
		}
	}
	return s.renderPostForm(c, form, errs, post)
}

// denyEdit answers an edit attempt by someone other than the author.
func (s *Server) denyEdit(c *fiber.Ctx, username string, postID uint) error {
	if s.postService.Policy() == service.ForbidNonAuthor {
		return fiber.ErrForbidden
	}
	return c.Redirect(postPath(username, postID), fiber.StatusFound)
}

// readPostForm binds and validates the submitted post form and stores the
// uploaded image, if any. The image is only stored once the fields are valid.
func (s *Server) readPostForm(c *fiber.Ctx, form *validation.PostForm) (string, validation.Errors) {
	if err := c.BodyParser(form); err != nil {
		errs := validation.Errors{}
		errs.Add(validation.NonField, "The submitted form could not be read.")
		return "", errs
	}

	errs := validation.Validate(form)
	if errs.Any() {
		return "", errs
	}

	fh, err := c.FormFile("image")
	if err != nil || fh == nil || fh.Filename == "" {
		return "", errs
	}
	name, err := s.media.Save(fh)
	if err != nil {
		errs.Add("image", appErrorMessage(err))
		return "", errs
	}
	return name, errs
}

// discardImage removes an upload that no post ended up referencing.
func (s *Server) discardImage(c *fiber.Ctx, name string) {
	if name == "" {
		return
	}
	if err := s.media.Delete(name); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "orphaned upload not removed",
			slog.String("image", name), slog.String("error", err.Error()))
	}
}

// addPostFormError attaches a service validation error to its form field.
// It reports false for errors that are not about the submitted values.
func addPostFormError(errs validation.Errors, err error) bool {
	switch {
	case errors.Is(err, service.ErrUnknownGroup):
		errs.Add("group", appErrorMessage(err))
	case models.HasCode(err, models.CodeValidation):
		errs.Add("text", appErrorMessage(err))
	default:
		return false
	}
	return true
}

func (s *Server) renderPostForm(c *fiber.Ctx, form *validation.PostForm, errs validation.Errors, post *models.Post) error {
	groups, err := s.postService.ListGroups(c.UserContext())
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Title":  "New post",
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": post != nil,
	}
	if post != nil {
		data["Title"] = "Edit post"
		data["Post"] = post
	}
	return s.render(c, "posts/post_new_or_edit", data)
}
