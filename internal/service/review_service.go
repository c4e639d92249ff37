package service

import (
	"context"

	"github.com/LaurentJouron/LITReview/internal/models"
	"github.com/LaurentJouron/LITReview/internal/observability"
	"github.com/LaurentJouron/LITReview/internal/repository"
	"github.com/LaurentJouron/LITReview/internal/validation"
)

// CreateReviewInput carries the fields for a new review.
type CreateReviewInput struct {
	Headline string
	Body     string
	Rating   int
}

// CreateReviewWithTicketInput creates a ticket and its review together,
// for reviewing a book nobody asked about yet.
type CreateReviewWithTicketInput struct {
	Ticket CreateTicketInput
	Review CreateReviewInput
}

// ReviewService manages the review lifecycle.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	ticketRepo repository.TicketRepository
	images     *ImageService
}

// NewReviewService returns a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, ticketRepo repository.TicketRepository, images *ImageService) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		ticketRepo: ticketRepo,
		images:     images,
	}
}

// Create stores a review against an existing ticket. The insert and the
// ticket's has_review flip commit in one transaction.
func (s *ReviewService) Create(ctx context.Context, authorID, ticketID uint, in CreateReviewInput) (*models.Review, error) {
	if err := validation.ValidateReviewFields(in.Headline, in.Body, in.Rating); err != nil {
		return nil, err
	}

	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}

	review := &models.Review{
		TicketID: ticketID,
		UserID:   authorID,
		Rating:   in.Rating,
		Headline: in.Headline,
		Body:     in.Body,
	}
	if err := s.reviewRepo.CreateAndFlagTicket(ctx, review); err != nil {
		return nil, err
	}

	observability.RecordContentCreated(models.ContentKindReview)
	return s.reviewRepo.GetByID(ctx, review.ID)
}

// CreateWithTicket stores a fresh ticket and its review in one transaction.
// The new ticket is born with has_review already true.
func (s *ReviewService) CreateWithTicket(ctx context.Context, authorID uint, in CreateReviewWithTicketInput) (*models.Review, error) {
	if err := validation.ValidateTicketFields(in.Ticket.Title, in.Ticket.Description); err != nil {
		return nil, err
	}
	if err := validation.ValidateReviewFields(in.Review.Headline, in.Review.Body, in.Review.Rating); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		Title:       in.Ticket.Title,
		Description: in.Ticket.Description,
		UserID:      authorID,
	}
	if len(in.Ticket.Image) > 0 {
		stored, err := s.images.Store(in.Ticket.Image, in.Ticket.ImageContentType)
		if err != nil {
			return nil, err
		}
		ticket.ImagePath = stored.Path
	}

	review := &models.Review{
		UserID:   authorID,
		Rating:   in.Review.Rating,
		Headline: in.Review.Headline,
		Body:     in.Review.Body,
	}
	if err := s.reviewRepo.CreateWithTicket(ctx, ticket, review); err != nil {
		if ticket.ImagePath != "" {
			s.images.Remove(ticket.ImagePath)
		}
		return nil, err
	}

	observability.RecordContentCreated(models.ContentKindTicket)
	observability.RecordContentCreated(models.ContentKindReview)
	return s.reviewRepo.GetByID(ctx, review.ID)
}

// Get returns a review by ID.
func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

// Update edits a review. Only the author may edit.
func (s *ReviewService) Update(ctx context.Context, requesterID, reviewID uint, in CreateReviewInput) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != requesterID {
		return nil, models.NewForbiddenError("You can only edit your own reviews")
	}

	if err := validation.ValidateReviewFields(in.Headline, in.Body, in.Rating); err != nil {
		return nil, err
	}

	review.Headline = in.Headline
	review.Body = in.Body
	review.Rating = in.Rating

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review. Only the author may delete. The ticket's
// has_review flag stays true.
func (s *ReviewService) Delete(ctx context.Context, requesterID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != requesterID {
		return models.NewForbiddenError("You can only delete your own reviews")
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
