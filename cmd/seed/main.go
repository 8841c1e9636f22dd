// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"dreamdeck/internal/config"
	"dreamdeck/internal/database"
	"dreamdeck/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	dreamsPerUser := flag.Int("dreams", 5, "Dreams per user")
	numChallenges := flag.Int("challenges", 3, "Number of active challenges")
	withInsights := flag.Bool("insights", true, "Attach an insight to each user's first dream")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:      *numUsers,
		DreamsPerUser: *dreamsPerUser,
		NumChallenges: *numChallenges,
		WithInsights:  *withInsights,
		ShouldClean:   *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
