package repository

import (
	"context"
	"errors"

	"github.com/LaurentJouron/LITReview/internal/cache"
	"github.com/LaurentJouron/LITReview/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	CreateAndFlagTicket(ctx context.Context, review *models.Review) error
	CreateWithTicket(ctx context.Context, ticket *models.Ticket, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	GetByTicketID(ctx context.Context, ticketID uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// CreateAndFlagTicket inserts the review and marks its ticket as reviewed
// inside one transaction so the pair never diverges.
func (r *reviewRepository) CreateAndFlagTicket(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Ticket{}).
			Where("id = ?", review.TicketID).
			Update("has_review", true).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTicket(ctx, review.TicketID)
	cache.InvalidateFeeds(ctx, review.UserID)
	return nil
}

// CreateWithTicket inserts a fresh ticket already flagged as reviewed and
// its review in one transaction.
func (r *reviewRepository) CreateWithTicket(ctx context.Context, ticket *models.Ticket, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket.HasReview = true
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		review.TicketID = ticket.ID
		return tx.Create(review).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeeds(ctx, review.UserID)
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Ticket").
		Preload("Ticket.User").
		First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) GetByTicketID(ctx context.Context, ticketID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Preload("User").
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // ticket has no review yet
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTicket(ctx, review.TicketID)
	cache.InvalidateFeeds(ctx, review.UserID)
	return nil
}

// Delete removes the review. The ticket's has_review flag stays true once
// set, so no ticket update happens here.
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	review, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Delete(&models.Review{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateTicket(ctx, review.TicketID)
	cache.InvalidateFeeds(ctx, review.UserID)
	return nil
}

func (r *reviewRepository) ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.Review, error) {
	if len(userIDs) == 0 {
		return []models.Review{}, nil
	}
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Preload("User").
		Preload("Ticket").
		Preload("Ticket.User").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}
