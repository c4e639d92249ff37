package seed

import (
	"testing"

	"github.com/LaurentJouron/LITReview/internal/database"
	"github.com/LaurentJouron/LITReview/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedProducesConsistentData(t *testing.T) {
	db := setupSeedDB(t)

	err := Seed(db, Options{
		NumUsers:       5,
		NumTickets:     12,
		ReviewRatio:    100,
		FollowsPerUser: 2,
		SkipBcrypt:     true,
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}

	var userCount, edgeCount, ticketCount, reviewCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Follow{}).Count(&edgeCount)
	db.Model(&models.Ticket{}).Count(&ticketCount)
	db.Model(&models.Review{}).Count(&reviewCount)

	if userCount != 5 {
		t.Fatalf("expected 5 users, got %d", userCount)
	}
	if edgeCount != 10 {
		t.Fatalf("expected 10 follow edges, got %d", edgeCount)
	}
	if ticketCount != 12 || reviewCount != 12 {
		t.Fatalf("expected 12 tickets and 12 reviews, got %d/%d", ticketCount, reviewCount)
	}

	// Every seeded ticket with a review carries the flag.
	var unflagged int64
	db.Model(&models.Ticket{}).
		Where("has_review = ? AND id IN (?)", false,
			db.Model(&models.Review{}).Select("ticket_id")).
		Count(&unflagged)
	if unflagged != 0 {
		t.Fatalf("%d reviewed tickets missing has_review", unflagged)
	}

	// No self-follow edges.
	var selfEdges int64
	db.Model(&models.Follow{}).Where("follower_id = followed_id").Count(&selfEdges)
	if selfEdges != 0 {
		t.Fatalf("seeded %d self-follow edges", selfEdges)
	}
}

func TestFactoryDryRunWritesNothing(t *testing.T) {
	db := setupSeedDB(t)
	factory := NewFactory(db, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := factory.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("dry-run user must get a synthetic ID")
	}
	ticket, err := factory.CreateTicket(user)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := factory.CreateReview(user, ticket); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if !ticket.HasReview {
		t.Fatal("dry-run review must still flip the in-memory flag")
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("dry-run wrote %d users", count)
	}
}
