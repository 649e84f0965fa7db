package server

import (
	"yatube/internal/models"
	"yatube/internal/service"
	"yatube/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles GET and POST /:username/:post_id/comment/
// The post is looked up by id alone; the username segment is not checked.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	post, err := s.postService.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	form := &validation.CommentForm{}
	errs := validation.Errors{}
	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(form); err != nil {
			errs.Add(validation.NonField, "The submitted form could not be read.")
		} else {
			errs = validation.Validate(form)
		}

		if !errs.Any() {
			_, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
				AuthorID: currentUserID(c),
				PostID:   post.ID,
				Text:     form.Text,
			})
			if err == nil {
				return c.Redirect(postPath(post.Author.Username, post.ID), fiber.StatusFound)
			}
			if !models.HasCode(err, models.CodeValidation) {
				return err
			}
			errs.Add("text", appErrorMessage(err))
		}
	}

	return s.render(c, "posts/comments", fiber.Map{
		"Title":  "Add a comment",
		"Post":   post,
		"Form":   form,
		"Errors": errs,
	})
}
