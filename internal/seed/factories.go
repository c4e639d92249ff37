// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/LaurentJouron/LITReview/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune factory behaviour.
type SeedOptions struct {
	// DryRun logs what would be created without writing to the database.
	DryRun bool
	// SkipBcrypt stores a plaintext password for faster dev seeding.
	SkipBcrypt bool
	// MaxDays bounds the created_at spread for generated content.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// spreadCreatedAt returns a timestamp randomly back-dated within the
// configured window so feeds look lived-in.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	// Usernames and emails are stored lowercase, matching the signup path.
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999))),
		Email:    strings.ToLower(gofakeit.Email()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "Password123!"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildTicket constructs a ticket struct without persisting it. Useful for
// batching.
func (f *Factory) BuildTicket(user *models.User, overrides ...func(*models.Ticket)) *models.Ticket {
	ticket := &models.Ticket{
		Title:       fmt.Sprintf("%s by %s", gofakeit.BookTitle(), gofakeit.BookAuthor()),
		Description: gofakeit.Paragraph(1, 2, 8, "\n"),
		UserID:      user.ID,
		CreatedAt:   f.spreadCreatedAt(),
	}
	for _, override := range overrides {
		override(ticket)
	}
	return ticket
}

// CreateTicket constructs and persists a sample `models.Ticket` for the given
// user.
func (f *Factory) CreateTicket(user *models.User, overrides ...func(*models.Ticket)) (*models.Ticket, error) {
	ticket := f.BuildTicket(user, overrides...)

	if f.opts.DryRun {
		f.nextID++
		ticket.ID = f.nextID
		log.Printf("[dry-run] CreateTicket: user=%d title=%q", ticket.UserID, ticket.Title)
		return ticket, nil
	}

	if err := f.db.Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// CreateTicketsBatch persists multiple tickets in a single DB call.
func (f *Factory) CreateTicketsBatch(tickets []*models.Ticket) error {
	if f.opts.DryRun {
		for _, ticket := range tickets {
			f.nextID++
			ticket.ID = f.nextID
		}
		log.Printf("[dry-run] CreateTicketsBatch: %d tickets (no DB write)", len(tickets))
		return nil
	}
	return f.db.Create(&tickets).Error
}

// CreateReview persists a review on the given ticket and flips its has_review
// flag, keeping the seeded data consistent with the write path.
func (f *Factory) CreateReview(user *models.User, ticket *models.Ticket, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		TicketID:  ticket.ID,
		UserID:    user.ID,
		Rating:    f.rng.Intn(models.ReviewRatingMax + 1),
		Headline:  gofakeit.Sentence(4),
		Body:      gofakeit.Paragraph(1, 3, 10, "\n"),
		CreatedAt: ticket.CreatedAt.Add(time.Duration(f.rng.Intn(72)+1) * time.Hour),
	}

	for _, override := range overrides {
		override(review)
	}

	if f.opts.DryRun {
		f.nextID++
		review.ID = f.nextID
		ticket.HasReview = true
		log.Printf("[dry-run] CreateReview: ticket=%d rating=%d", review.TicketID, review.Rating)
		return review, nil
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
			Update("has_review", true).Error
	})
	if err != nil {
		return nil, err
	}
	ticket.HasReview = true
	return review, nil
}

// CreateFollow persists a follow edge from follower to followed.
func (f *Factory) CreateFollow(follower, followed *models.User) error {
	if follower.ID == followed.ID {
		return fmt.Errorf("cannot seed a self-follow edge")
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateFollow: %d -> %d", follower.ID, followed.ID)
		return nil
	}
	follow := &models.Follow{
		FollowerID: follower.ID,
		FollowedID: followed.ID,
	}
	return f.db.Create(follow).Error
}
