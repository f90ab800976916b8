// Command main seeds the predefined roadmap catalog and, optionally, demo data.
package main

import (
	"context"
	"flag"
	"log"

	"neuroflow/internal/config"
	"neuroflow/internal/database"
	"neuroflow/internal/repository"
	"neuroflow/internal/seed"
)

func main() {
	predefined := flag.Bool("predefined", true, "Seed the predefined roadmap catalog")
	demo := flag.Bool("demo", false, "Create a demo user with fake tasks, habits and entries")
	tasks := flag.Int("tasks", 40, "Number of demo tasks")
	habits := flag.Int("habits", 4, "Number of demo habits")
	days := flag.Int("days", 60, "Days of demo history")
	password := flag.String("password", "demo-pass-123", "Password for the demo user")
	randSeed := flag.Int64("seed", 0, "Random seed for demo data (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("close database: %v", err)
		}
	}()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()

	if *predefined {
		result, err := seed.PredefinedRoadmaps(ctx, repository.NewRoadmapRepository(db))
		if err != nil {
			log.Fatalf("Predefined roadmap seeding failed: %v", err)
		}
		log.Printf("Predefined roadmaps: %d created, %d already present", len(result.Created), len(result.Skipped))
	}

	if *demo {
		f := seed.NewFactory(db, seed.DemoOptions{
			Tasks:    *tasks,
			Habits:   *habits,
			Days:     *days,
			Password: *password,
			Seed:     *randSeed,
			Location: cfg.Location(),
		})
		result, err := f.Demo(ctx)
		if err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		log.Printf("Demo user %q created with %d tasks and %d habits (password: %s)",
			result.User.Username, result.Tasks, result.Habits, *password)
	}
}
