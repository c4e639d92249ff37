package server

import (
	"github.com/LaurentJouron/LITReview/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
// The merged feed of the viewer and everyone they follow, newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	feed, err := s.feedService.BuildFeed(c.Context(), userID, service.FeedScopeSelfAndFollowed)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"feed": feed})
}

// GetMyPosts handles GET /api/feed/posts
// The viewer's own tickets and reviews, newest first.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	feed, err := s.feedService.BuildFeed(c.Context(), userID, service.FeedScopeSelf)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"feed": feed})
}
