// Command migrate runs schema operations for the backend. Production
// deploys run this explicitly; non-production connects auto-migrate.
package main

import (
	"flag"
	"fmt"
	"log"

	"debteraser/internal/config"
	"debteraser/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return fmt.Errorf("usage: migrate <up|status>")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	switch flag.Arg(0) {
	case "up":
		if err := db.AutoMigrate(database.Models()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Println("Schema migrated")
		return nil
	case "status":
		migrator := db.Migrator()
		for _, model := range database.Models() {
			state := "missing"
			if migrator.HasTable(model) {
				state = "present"
			}
			log.Printf("%-30T %s", model, state)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", flag.Arg(0))
	}
}
