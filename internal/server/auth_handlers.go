package server

import (
	"errors"
	"log/slog"

	"yatube/internal/featureflags"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"
	"yatube/internal/session"
	"yatube/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// signupEnabled hides the signup page while the signup flag is off.
func (s *Server) signupEnabled() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.featureFlags.EnabledSitewide(featureflags.Signup) {
			return fiber.ErrNotFound
		}
		return c.Next()
	}
}

// Signup handles GET and POST /auth/signup/
func (s *Server) Signup(c *fiber.Ctx) error {
	form := &validation.SignupForm{}
	errs := validation.Errors{}

	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(form); err != nil {
			errs.Add(validation.NonField, "The submitted form could not be read.")
		} else {
			errs = validation.Validate(form)
		}

		if !errs.Any() {
			ctx := c.UserContext()
			user, err := s.accountService.Register(ctx, service.RegisterInput{
				Username:  form.Username,
				Password:  form.Password1,
				FirstName: form.FirstName,
				LastName:  form.LastName,
				Email:     form.Email,
			})
			if err == nil {
				middleware.Logger.InfoContext(ctx, "user registered", slog.String("username", user.Username))
				if err := s.startSession(c, user); err != nil {
					return err
				}
				return c.Redirect("/", fiber.StatusFound)
			}
			if !addSignupError(errs, err) {
				return err
			}
		}
	}

	form.Password1, form.Password2 = "", ""
	return s.render(c, "auth/signup", fiber.Map{
		"Title":  "Sign up",
		"Form":   form,
		"Errors": errs,
	})
}

func addSignupError(errs validation.Errors, err error) bool {
	switch {
	case errors.Is(err, service.ErrPasswordTooShort):
		errs.Add("password1", appErrorMessage(err))
	case models.HasCode(err, models.CodeValidation):
		errs.Add("username", appErrorMessage(err))
	default:
		return false
	}
	return true
}

// Login handles GET and POST /auth/login/
func (s *Server) Login(c *fiber.Ctx) error {
	form := &validation.LoginForm{}
	errs := validation.Errors{}
	next := c.Query("next")

	if c.Method() == fiber.MethodPost {
		if v := c.FormValue("next"); v != "" {
			next = v
		}
		if err := c.BodyParser(form); err != nil {
			errs.Add(validation.NonField, "The submitted form could not be read.")
		} else {
			errs = validation.Validate(form)
		}

		if !errs.Any() {
			user, err := s.accountService.Authenticate(c.UserContext(), form.Username, form.Password)
			if err == nil {
				if err := s.startSession(c, user); err != nil {
					return err
				}
				return c.Redirect(safeNext(next), fiber.StatusFound)
			}
			if !models.HasCode(err, models.CodeUnauthorized) {
				return err
			}
			errs.Add(validation.NonField, appErrorMessage(err))
		}
	}

	form.Password = ""
	return s.render(c, "auth/login", fiber.Map{
		"Title":  "Log in",
		"Form":   form,
		"Errors": errs,
		"Next":   next,
	})
}

// Logout handles GET and POST /auth/logout/
func (s *Server) Logout(c *fiber.Ctx) error {
	if claims, ok := c.Locals("session").(*session.Claims); ok {
		if err := s.sessions.Revoke(c.UserContext(), claims); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session revoke failed", slog.String("error", err.Error()))
		}
	}
	s.clearSessionCookie(c)
	c.Locals("user", nil)
	c.Locals("userID", nil)

	return s.render(c, "auth/logged_out", fiber.Map{"Title": "Logged out"})
}

func (s *Server) startSession(c *fiber.Ctx, user *models.User) error {
	token, claims, err := s.sessions.Issue(user.ID)
	if err != nil {
		return err
	}
	s.setSessionCookie(c, token, claims.ExpiresAt)
	return nil
}
