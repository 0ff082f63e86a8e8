package main

import (
	"flag"
	"log"
	"os"

	"github.com/johnquangdev/coachlink/internal/infrastructure/database"
	"github.com/johnquangdev/coachlink/pkg/config"
)

func main() {
	dir := flag.String("dir", database.MigrationsDir, "migrations directory")
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database using GORM
	db, err := database.NewPostgresDB(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	if *down {
		n, err := database.RollbackLast(db, *dir)
		if err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		log.Printf("✅ Rolled back %d migration(s)", n)
		os.Exit(0)
	}

	log.Printf("🔄 Applying migrations from %s/ directory...", *dir)
	n, err := database.AutoMigrate(db, *dir, nil)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
}
