package server

import (
	"io"
	"strings"

	"github.com/LaurentJouron/LITReview/internal/models"
	"github.com/LaurentJouron/LITReview/internal/service"

	"github.com/gofiber/fiber/v2"
)

// readTicketInput parses a ticket payload from either a multipart form
// (with an optional "image" file) or a JSON body.
func readTicketInput(c *fiber.Ctx) (service.CreateTicketInput, error) {
	var in service.CreateTicketInput

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		in.Title = c.FormValue("title")
		in.Description = c.FormValue("description")

		fileHeader, err := c.FormFile("image")
		if err == nil && fileHeader != nil {
			f, openErr := fileHeader.Open()
			if openErr != nil {
				return in, models.NewValidationError("Unreadable image upload")
			}
			defer f.Close()
			content, readErr := io.ReadAll(f)
			if readErr != nil {
				return in, models.NewValidationError("Unreadable image upload")
			}
			in.Image = content
			in.ImageContentType = fileHeader.Header.Get("Content-Type")
		}
		return in, nil
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return in, models.NewValidationError("Invalid request body")
	}
	in.Title = req.Title
	in.Description = req.Description
	return in, nil
}

// CreateTicket handles POST /api/tickets
func (s *Server) CreateTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	in, err := readTicketInput(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	ticket, err := s.ticketService.Create(c.Context(), userID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// GetTicket handles GET /api/tickets/:id
func (s *Server) GetTicket(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ticket, err := s.ticketService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ticket)
}

// GetTickets handles GET /api/tickets
// Lists tickets by the viewer and everyone they follow. With ?open=true
// only tickets still waiting for a review are returned.
func (s *Server) GetTickets(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	ctx := c.Context()

	if c.QueryBool("open", false) {
		tickets, err := s.feedService.OpenTickets(ctx, userID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"tickets": tickets})
	}

	followed, err := s.followService.FollowedAuthors(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	tickets, err := s.ticketRepo.ListByUserIDs(ctx, append([]uint{userID}, followed...))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tickets": tickets})
}

// UpdateTicket handles PUT /api/tickets/:id
func (s *Server) UpdateTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, err := readTicketInput(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	ticket, err := s.ticketService.Update(c.Context(), userID, id, service.UpdateTicketInput(in))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ticket)
}

// DeleteTicket handles DELETE /api/tickets/:id
func (s *Server) DeleteTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ticketService.Delete(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateReview handles POST /api/tickets/:id/reviews
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	ticketID, err := s.parseID(c, "id")
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

	review, err := s.reviewService.Create(c.Context(), userID, ticketID, service.CreateReviewInput{
		Headline: req.Headline,
		Body:     req.Body,
		Rating:   req.Rating,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
