package repository

import (
	"context"
	"errors"

	"github.com/LaurentJouron/LITReview/internal/cache"
	"github.com/LaurentJouron/LITReview/internal/models"

	"gorm.io/gorm"
)

// TicketRepository defines persistence operations for tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id uint) (*models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) error
	DeleteWithReviews(ctx context.Context, id uint) error
	ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.Ticket, error)
	ListOpenByUserIDs(ctx context.Context, userIDs []uint) ([]models.Ticket, error)
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository returns a new TicketRepository implementation.
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeeds(ctx, ticket.UserID)
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Preload("User").First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Ticket", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *models.Ticket) error {
	if err := r.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTicket(ctx, ticket.ID)
	cache.InvalidateFeeds(ctx, ticket.UserID)
	return nil
}

// DeleteWithReviews removes a ticket and its reviews in one transaction.
// Reviews are deleted explicitly so the cascade behaves the same on every
// database backend.
func (r *ticketRepository) DeleteWithReviews(ctx context.Context, id uint) error {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Ticket{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateTicket(ctx, id)
	cache.InvalidateFeeds(ctx, ticket.UserID)
	return nil
}

func (r *ticketRepository) ListByUserIDs(ctx context.Context, userIDs []uint) ([]models.Ticket, error) {
	if len(userIDs) == 0 {
		return []models.Ticket{}, nil
	}
	var tickets []models.Ticket
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Preload("User").
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tickets, nil
}

// ListOpenByUserIDs returns tickets without a review yet.
func (r *ticketRepository) ListOpenByUserIDs(ctx context.Context, userIDs []uint) ([]models.Ticket, error) {
	if len(userIDs) == 0 {
		return []models.Ticket{}, nil
	}
	var tickets []models.Ticket
	if err := r.db.WithContext(ctx).
		Where("user_id IN ? AND has_review = ?", userIDs, false).
		Preload("User").
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tickets, nil
}
