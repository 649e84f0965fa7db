package server

import (
	"github.com/gofiber/fiber/v2"
)

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.feedService.GlobalFeed(c.UserContext(), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "posts/index", fiber.Map{
		"Title": "Latest posts",
		"Page":  page,
	})
}

// GroupPosts handles GET /group/:slug/
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	feed, err := s.feedService.GroupFeed(c.UserContext(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "posts/group", fiber.Map{
		"Title": feed.Group.Title,
		"Group": feed.Group,
		"Page":  feed.Page,
	})
}

// Profile handles GET /:username/
func (s *Server) Profile(c *fiber.Ctx) error {
	viewerID := currentUserID(c)
	feed, err := s.feedService.AuthorFeed(c.UserContext(), c.Params("username"), c.Query("page"), viewerID)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Title":          feed.Author.DisplayName(),
		"Author":         feed.Author,
		"NumberOfPosts":  feed.Page.Count,
		"Page":           feed.Page,
		"FollowerCount":  feed.FollowerCount,
		"FollowingCount": feed.FollowingCount,
	}
	if viewerID != 0 {
		data["Following"] = feed.Following
		data["ShowFollow"] = viewerID != feed.Author.ID
	}
	return s.render(c, "posts/profile", data)
}

// FollowIndex handles GET /follow/
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	page, err := s.feedService.FollowFeed(c.UserContext(), currentUserID(c), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "posts/follow", fiber.Map{
		"Title": "Following",
		"Page":  page,
	})
}
