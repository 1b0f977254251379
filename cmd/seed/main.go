// Command seed populates the database with demo community content.
package main

import (
	"flag"
	"log"

	"debteraser/internal/config"
	"debteraser/internal/database"
	"debteraser/internal/seed"
)

func main() {
	numMembers := flag.Int("members", 25, "Number of random members beyond the demo accounts")
	numPosts := flag.Int("posts", 50, "Number of random posts beyond the demo posts")
	shouldClean := flag.Bool("clean", true, "Clean seedable tables before seeding")
	flag.Parse()

	log.Printf("Seeding: %d extra members, %d extra posts, clean=%v", *numMembers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumMembers:  *numMembers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete. Demo members share the password documented in internal/seed.")
}
