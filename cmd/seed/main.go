// Command seed fills the database with groups and demo content.
package main

import (
	"context"
	"flag"
	"log"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Delete users, posts, comments and follows before seeding")
	maxDays := flag.Int("days", 30, "Spread post dates over this many past days")
	randomSeed := flag.Int64("seed", 0, "Fix the fake data generator seed (0 = random)")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)

	res, err := seed.Seed(context.Background(), db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		MaxDays:     *maxDays,
		RandomSeed:  *randomSeed,
		Redis:       cache.GetClient(),
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d groups, %d users, %d posts, %d comments, %d follows",
		res.Groups, res.Users, res.Posts, res.Comments, res.Follows)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
