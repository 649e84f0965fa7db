package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/featureflags"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/views"

	"github.com/gofiber/fiber/v2"
)

// render executes a page template inside the base layout.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if user := currentUser(c); user != nil {
		data["CurrentUser"] = user
	}
	if _, ok := data["Path"]; !ok {
		data["Path"] = c.Path()
	}
	data["SignupEnabled"] = s.featureFlags.EnabledSitewide(featureflags.Signup)
	return c.Render(name, data, views.Layout)
}

// errorHandler turns handler errors into error pages.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if models.IsNotFound(err) {
		code = fiber.StatusNotFound
	}

	c.Status(code)
	switch code {
	case fiber.StatusNotFound:
		err = s.render(c, "misc/404", fiber.Map{"Title": "Page not found", "Path": c.Path()})
	case fiber.StatusInternalServerError:
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		err = s.render(c, "misc/500", fiber.Map{"Title": "Server error"})
	default:
		return c.SendString(fe.Message)
	}
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "error page failed", slog.String("error", err.Error()))
		return c.Status(code).SendString(fiber.ErrInternalServerError.Message)
	}
	return nil
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// parsePostID reads the post_id route parameter. Anything but a positive
// integer does not match a post, so it is a 404.
func parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("post_id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

func profilePath(username string) string {
	return "/" + url.PathEscape(username) + "/"
}

func postPath(username string, postID uint) string {
	return fmt.Sprintf("/%s/%d/", url.PathEscape(username), postID)
}

// loginURL is the login page with next pointing back at uri.
func (s *Server) loginURL(uri string) string {
	next := url.QueryEscape(uri)
	next = strings.ReplaceAll(next, "%2F", "/")
	next = strings.ReplaceAll(next, "+", "%20")
	return s.config.LoginURL + "?next=" + next
}

// safeNext returns next when it is a local path, otherwise "/".
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// appErrorMessage returns the user-facing message of err.
func appErrorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
