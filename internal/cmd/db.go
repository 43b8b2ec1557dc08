package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PauloHFS/goth-blog/internal/config"
	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/logging"
)

// initDB opens the pools and brings the schema up to date. Every CLI command
// goes through it.
func initDB(ctx context.Context) (*db.DualPool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := db.NewDualPool("sqlite3", db.DSN(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func RunSeed() {
	logging.Init()
	ctx := context.Background()

	pool, err := initDB(ctx)
	if err != nil {
		fatal("failed to prepare database", err)
	}
	defer pool.Close()

	if err := db.Seed(ctx, pool.Write); err != nil {
		logging.Get().Error("failed to seed database", slog.Any("error", err))
		return
	}
	logging.Get().Info("database seeded successfully")
}

func RunMigrate() {
	logging.Init()

	pool, err := initDB(context.Background())
	if err != nil {
		fatal("failed to run migrations", err)
	}
	defer pool.Close()

	logging.Get().Info("migrations executed successfully")
}
