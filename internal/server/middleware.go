package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yatube/internal/cache"
	"yatube/internal/featureflags"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/session"

	"github.com/gofiber/fiber/v2"
)

const pageCacheHeader = "X-Page-Cache"

// LoadSession resolves the session cookie to a user. Requests without a
// valid session carry on anonymously.
func (s *Server) LoadSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		claims, err := s.sessions.Parse(ctx, token)
		if err != nil {
			if !errors.Is(err, session.ErrRevoked) {
				middleware.Logger.DebugContext(ctx, "discarding session cookie", slog.String("error", err.Error()))
			}
			s.clearSessionCookie(c)
			return c.Next()
		}

		user, err := s.accountService.GetUser(ctx, claims.UserID)
		if err != nil {
			if !models.IsNotFound(err) {
				return err
			}
			s.clearSessionCookie(c)
			return c.Next()
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		c.Locals("session", claims)
		c.SetUserContext(context.WithValue(ctx, middleware.UserIDKey, user.ID))
		return c.Next()
	}
}

// LoginRequired sends anonymous visitors to the login page.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUserID(c) != 0 {
			return c.Next()
		}
		return c.Redirect(s.loginURL(c.OriginalURL()), fiber.StatusFound)
	}
}

// cachePage serves GET responses of view from the page cache.
// Entries vary by viewer and expire after the cache TTL; writes do not evict them.
func (s *Server) cachePage(view string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet || !s.pages.Enabled() ||
			!s.featureFlags.EnabledSitewide(featureflags.IndexPageCache) {
			return c.Next()
		}

		ctx := c.UserContext()
		key := cache.PageKey(view, currentUserID(c), c.OriginalURL())
		if body, ok := s.pages.Get(ctx, key); ok {
			observability.PageCacheLookups.WithLabelValues("hit").Inc()
			c.Set(pageCacheHeader, "hit")
			c.Type("html", "utf-8")
			return c.Send(body)
		}
		observability.PageCacheLookups.WithLabelValues("miss").Inc()

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() == fiber.StatusOK {
			body := append([]byte(nil), c.Response().Body()...)
			s.pages.Set(ctx, key, body)
		}
		c.Set(pageCacheHeader, "miss")
		return nil
	}
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
