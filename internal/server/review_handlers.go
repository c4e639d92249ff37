package server

import (
	"github.com/LaurentJouron/LITReview/internal/models"
	"github.com/LaurentJouron/LITReview/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReviewWithTicket handles POST /api/reviews
// Creates a ticket and its review in one step, for reviewing a book
// nobody has asked about yet.
func (s *Server) CreateReviewWithTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Ticket struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"ticket"`
		Review struct {
			Headline string `json:"headline"`
			Body     string `json:"body"`
			Rating   int    `json:"rating"`
		} `json:"review"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.CreateWithTicket(c.Context(), userID, service.CreateReviewWithTicketInput{
		Ticket: service.CreateTicketInput{
			Title:       req.Ticket.Title,
			Description: req.Ticket.Description,
		},
		Review: service.CreateReviewInput{
			Headline: req.Review.Headline,
			Body:     req.Review.Body,
			Rating:   req.Review.Rating,
		},
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetReview handles GET /api/reviews/:id
func (s *Server) GetReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	review, err := s.reviewService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(review)
}

// UpdateReview handles PUT /api/reviews/:id
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Headline string `json:"headline"`
		Body     string `json:"body"`
		Rating   int    `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.Update(c.Context(), userID, id, service.CreateReviewInput{
		Headline: req.Headline,
		Body:     req.Body,
		Rating:   req.Rating,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reviewService.Delete(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
