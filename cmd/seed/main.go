// Command main runs the database seeder for LITReview.
package main

import (
	"flag"
	"log"

	"github.com/LaurentJouron/LITReview/internal/config"
	"github.com/LaurentJouron/LITReview/internal/database"
	"github.com/LaurentJouron/LITReview/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numTickets := flag.Int("tickets", 100, "Number of tickets to create")
	reviewRatio := flag.Int("review-ratio", 60, "Percentage of tickets that receive a review (0-100)")
	followsPerUser := flag.Int("follows", 4, "Number of users each user follows")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords for faster dev seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d tickets, %d%% reviewed, clean=%v\n",
		*numUsers, *numTickets, *reviewRatio, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumTickets:     *numTickets,
		ReviewRatio:    *reviewRatio,
		FollowsPerUser: *followsPerUser,
		ShouldClean:    *shouldClean,
		SkipBcrypt:     *skipBcrypt,
		DryRun:         *dryRun,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: Password123!")
}
