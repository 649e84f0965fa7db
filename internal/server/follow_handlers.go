package server

import (
	"github.com/gofiber/fiber/v2"
)

// ProfileFollow handles GET and POST /:username/follow/
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	author, err := s.followService.Follow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return err
	}
	return c.Redirect(profilePath(author.Username), fiber.StatusFound)
}

// ProfileUnfollow handles GET and POST /:username/unfollow/
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		return err
	}
	return c.Redirect(profilePath(author.Username), fiber.StatusFound)
}
