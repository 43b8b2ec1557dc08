package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/slugs"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed/posts.yaml
var seedPosts []byte

type seedFile struct {
	Posts []struct {
		Title         string `yaml:"title"`
		Content       string `yaml:"content"`
		Draft         bool   `yaml:"draft"`
		PublishInDays int    `yaml:"publish_in_days"`
	} `yaml:"posts"`
}

func Seed(ctx context.Context, dbConn *sql.DB) error {
	queries := New(dbConn)

	// 1. Admin (admin@admin.com / admin123), staff and superuser
	admin, err := queries.GetUserByEmail(ctx, "admin@admin.com")
	if errors.Is(err, sql.ErrNoRows) {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin, err = queries.CreateUser(ctx, CreateUserParams{
			Email:        "admin@admin.com",
			PasswordHash: string(hash),
			FirstName:    "Admin",
			IsStaff:      true,
			IsSuperuser:  true,
		})
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		logging.Get().Info("admin user seeded",
			slog.String("admin_email", "admin@admin.com"),
			slog.String("default_password", "admin123"),
		)
	} else if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	// 2. Sample posts, only into an empty table
	count, err := queries.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}
	if count > 0 {
		return nil
	}

	var fixtures seedFile
	if err := yaml.Unmarshal(seedPosts, &fixtures); err != nil {
		return fmt.Errorf("failed to parse seed posts: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, p := range fixtures.Posts {
		slug, err := slugs.Unique(ctx, p.Title, queries.SlugExists)
		if err != nil {
			return fmt.Errorf("failed to build slug for %q: %w", p.Title, err)
		}
		if _, err := queries.CreatePost(ctx, CreatePostParams{
			UserID:      admin.ID,
			Slug:        slug,
			Title:       p.Title,
			Content:     p.Content,
			Draft:       p.Draft,
			PublishDate: today.AddDate(0, 0, p.PublishInDays),
		}); err != nil {
			return fmt.Errorf("failed to seed post %q: %w", p.Title, err)
		}
	}

	logging.Get().Info("posts seeded", slog.Int("count", len(fixtures.Posts)))
	return nil
}
