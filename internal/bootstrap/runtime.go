// Package bootstrap wires the process-level runtime: database, Redis,
// vault files, and optional demo seeding.
package bootstrap

import (
	"fmt"
	"log/slog"

	"debteraser/internal/cache"
	"debteraser/internal/config"
	"debteraser/internal/database"
	"debteraser/internal/models"
	"debteraser/internal/seed"
	"debteraser/internal/vault"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to the database and Redis, ensures the vault
// directory holds its document set, and optionally seeds demo content.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; a nil client degrades caching and rate limiting
	// but the server still runs.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := vault.CreatePlaceholderFiles(cfg.VaultDir); err != nil {
		return nil, nil, fmt.Errorf("prepare vault directory: %w", err)
	}

	if opts.SeedDemoData {
		if err := ensureDemoData(db); err != nil {
			return nil, nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// ensureDemoData seeds only into an empty community so restarts of a
// dev stack do not duplicate the starter content.
func ensureDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("demo data already present, skipping seed", "posts", count)
		return nil
	}
	return seed.Seed(db, seed.Options{NumMembers: 5, NumPosts: 10})
}
