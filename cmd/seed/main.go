// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"framez/internal/config"
	"framez/internal/database"
	"framez/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 120, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a built-in preset by name (e.g. MegaPopulated)")
	presetFile := flag.String("preset-file", "", "Apply a preset from a YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	switch {
	case *presetFile != "":
		p, err := seed.LoadPresetFile(*presetFile)
		if err != nil {
			log.Fatalf("Preset file failed: %v", err)
		}
		if err := s.ApplyPreset(p); err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
	case *preset != "":
		p, ok := seed.FindPreset(*preset)
		if !ok {
			log.Fatalf("Unknown preset: %s", *preset)
		}
		if err := s.ApplyPreset(p); err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
	default:
		if err := s.Run(*numUsers, *numPosts); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("All done. Seeded users sign in with the password %q.", seed.DefaultPassword)
}
