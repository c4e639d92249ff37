// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"github.com/LaurentJouron/LITReview/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumTickets  int
	// ReviewRatio is the fraction of tickets that receive a review, 0..100.
	ReviewRatio int
	// FollowsPerUser is how many other users each user follows.
	FollowsPerUser int
	ShouldClean    bool
	SkipBcrypt     bool
	DryRun         bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d tickets...", opts.NumUsers, opts.NumTickets)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, SeedOptions{
		DryRun:     opts.DryRun,
		SkipBcrypt: opts.SkipBcrypt,
	})

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	edges, err := createFollowMesh(factory, users, opts.FollowsPerUser)
	if err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}
	log.Printf("✓ %d follow edges created", edges)

	tickets, err := createTickets(factory, users, opts.NumTickets)
	if err != nil {
		return fmt.Errorf("failed to create tickets: %w", err)
	}
	log.Printf("✓ %d tickets created", len(tickets))

	reviews, err := createReviews(factory, users, tickets, opts.ReviewRatio)
	if err != nil {
		return fmt.Errorf("failed to create reviews: %w", err)
	}
	log.Printf("✓ %d reviews created", reviews)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reviews, tickets, follows, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	if count <= 0 {
		count = 10
	}
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// createFollowMesh gives each user a handful of outgoing edges. Edges are
// deterministic per user index so the mesh stays duplicate-free.
func createFollowMesh(factory *Factory, users []*models.User, perUser int) (int, error) {
	if perUser <= 0 {
		perUser = 3
	}
	if perUser >= len(users) {
		perUser = len(users) - 1
	}
	edges := 0
	for i, follower := range users {
		for j := 1; j <= perUser; j++ {
			followed := users[(i+j)%len(users)]
			if followed.ID == follower.ID {
				continue
			}
			if err := factory.CreateFollow(follower, followed); err != nil {
				return edges, err
			}
			edges++
		}
	}
	return edges, nil
}

func createTickets(factory *Factory, users []*models.User, count int) ([]*models.Ticket, error) {
	if count <= 0 {
		count = len(users) * 3
	}
	tickets := make([]*models.Ticket, 0, count)
	for i := 0; i < count; i++ {
		author := users[factory.rng.Intn(len(users))]
		tickets = append(tickets, factory.BuildTicket(author))
	}
	if err := factory.CreateTicketsBatch(tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func createReviews(factory *Factory, users []*models.User, tickets []*models.Ticket, ratio int) (int, error) {
	if ratio <= 0 {
		ratio = 60
	}
	if ratio > 100 {
		ratio = 100
	}
	created := 0
	for _, ticket := range tickets {
		if factory.rng.Intn(100) >= ratio {
			continue
		}
		reviewer := users[factory.rng.Intn(len(users))]
		if _, err := factory.CreateReview(reviewer, ticket); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
