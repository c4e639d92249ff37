package service

import (
	"context"

	"github.com/LaurentJouron/LITReview/internal/models"
	"github.com/LaurentJouron/LITReview/internal/observability"
	"github.com/LaurentJouron/LITReview/internal/repository"
	"github.com/LaurentJouron/LITReview/internal/validation"
)

// CreateTicketInput carries the fields for a new ticket. Image is the raw
// upload; it may be nil for a ticket without an illustration.
type CreateTicketInput struct {
	Title            string
	Description      string
	Image            []byte
	ImageContentType string
}

// UpdateTicketInput carries the editable fields of a ticket.
type UpdateTicketInput struct {
	Title            string
	Description      string
	Image            []byte
	ImageContentType string
}

// TicketService manages the ticket lifecycle.
type TicketService struct {
	ticketRepo repository.TicketRepository
	images     *ImageService
}

// NewTicketService returns a new TicketService.
func NewTicketService(ticketRepo repository.TicketRepository, images *ImageService) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		images:     images,
	}
}

// Create validates and stores a new ticket. When an image is present it is
// thumbnailed and written to disk before the ticket row is persisted.
func (s *TicketService) Create(ctx context.Context, authorID uint, in CreateTicketInput) (*models.Ticket, error) {
	if err := validation.ValidateTicketFields(in.Title, in.Description); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		Title:       in.Title,
		Description: in.Description,
		UserID:      authorID,
	}

	if len(in.Image) > 0 {
		stored, err := s.images.Store(in.Image, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		ticket.ImagePath = stored.Path
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		if ticket.ImagePath != "" {
			s.images.Remove(ticket.ImagePath)
		}
		return nil, err
	}

	observability.RecordContentCreated(models.ContentKindTicket)
	return s.ticketRepo.GetByID(ctx, ticket.ID)
}

// Get returns a ticket by ID.
func (s *TicketService) Get(ctx context.Context, id uint) (*models.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, id)
}

// Update edits a ticket. Only the author may edit; anyone else gets
// Forbidden.
func (s *TicketService) Update(ctx context.Context, requesterID, ticketID uint, in UpdateTicketInput) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != requesterID {
		return nil, models.NewForbiddenError("You can only edit your own tickets")
	}

	if err := validation.ValidateTicketFields(in.Title, in.Description); err != nil {
		return nil, err
	}

	ticket.Title = in.Title
	ticket.Description = in.Description

	if len(in.Image) > 0 {
		stored, err := s.images.Store(in.Image, in.ImageContentType)
		if err != nil {
			return nil, err
		}
		if ticket.ImagePath != "" {
			s.images.Remove(ticket.ImagePath)
		}
		ticket.ImagePath = stored.Path
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete removes a ticket and every review referencing it. Only the author
// may delete.
func (s *TicketService) Delete(ctx context.Context, requesterID, ticketID uint) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.UserID != requesterID {
		return models.NewForbiddenError("You can only delete your own tickets")
	}

	if err := s.ticketRepo.DeleteWithReviews(ctx, ticketID); err != nil {
		return err
	}
	if ticket.ImagePath != "" {
		s.images.Remove(ticket.ImagePath)
	}
	return nil
}
