package server

import (
	"github.com/LaurentJouron/LITReview/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSubscriptions handles GET /api/subscriptions
// Returns both sides of the viewer's follow graph.
func (s *Server) GetSubscriptions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	ctx := c.Context()

	following, err := s.followService.Following(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	followers, err := s.followService.Followers(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"following": following,
		"followers": followers,
	})
}

// CreateSubscription handles POST /api/subscriptions
// The target is named by username, matching how users discover each other.
func (s *Server) CreateSubscription(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	follow, err := s.followService.Follow(c.Context(), userID, req.Username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// DeleteSubscription handles DELETE /api/subscriptions/:id
func (s *Server) DeleteSubscription(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	followID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.Context(), userID, followID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
