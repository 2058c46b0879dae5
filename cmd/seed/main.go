// Command main runs the database seeder for Memoria.
package main

import (
	"flag"
	"log"
	"strings"

	"memoria/internal/bootstrap"
	"memoria/internal/config"
	"memoria/internal/models"
	"memoria/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numCommunities := flag.Int("communities", 6, "Number of communities to create")
	numPosts := flag.Int("posts", 80, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d communities, %d posts, clean=%v",
		*numUsers, *numCommunities, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumCommunities: *numCommunities,
		NumPosts:       *numPosts,
		ShouldClean:    *shouldClean,
		SkipBcrypt:     *skipBcrypt,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	// Recreate the official account and built-in communities after a clean.
	if err := bootstrap.EnsureOfficialData(cfg, db); err != nil {
		log.Fatalf("Official data bootstrap failed: %v", err)
	}
	var official models.User
	if err := db.Where("email = ?", strings.ToLower(cfg.OfficialEmail)).First(&official).Error; err != nil {
		log.Fatalf("Failed to load official account: %v", err)
	}
	if err := seed.Communities(db, official.ID); err != nil {
		log.Fatalf("Built-in community seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with demo data.")
	log.Println("All generated users have the password: password123")
}
