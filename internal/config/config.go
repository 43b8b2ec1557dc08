package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	SessionSecret     string
	Env               string // "dev" or "prod"
	PostsPerPage      int
	UploadDir         string
	MarkdownCacheSize int
	Tracing           string // "none" or "stdout"
	CORSOrigins       []string
	// ImageSweepInterval is how often orphaned post images are removed;
	// zero disables the sweep.
	ImageSweepInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "./goth-blog.db"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		Env:               getEnv("APP_ENV", "dev"),
		PostsPerPage:      getEnvInt("POSTS_PER_PAGE", 10),
		UploadDir:         getEnv("UPLOAD_DIR", "storage"),
		MarkdownCacheSize: getEnvInt("MARKDOWN_CACHE_SIZE", 256),
		Tracing:           getEnv("OTEL_TRACES", "none"),
		CORSOrigins:       splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	sweep, err := time.ParseDuration(getEnv("IMAGE_SWEEP_INTERVAL", "1h"))
	if err != nil || sweep < 0 {
		return nil, fmt.Errorf("IMAGE_SWEEP_INTERVAL must be a non-negative duration, got %q", os.Getenv("IMAGE_SWEEP_INTERVAL"))
	}
	cfg.ImageSweepInterval = sweep

	if cfg.PostsPerPage < 1 {
		return nil, fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", cfg.PostsPerPage)
	}
	if cfg.MarkdownCacheSize < 1 {
		return nil, fmt.Errorf("MARKDOWN_CACHE_SIZE must be positive, got %d", cfg.MarkdownCacheSize)
	}
	if cfg.Tracing != "none" && cfg.Tracing != "stdout" {
		return nil, fmt.Errorf("OTEL_TRACES must be none or stdout, got %q", cfg.Tracing)
	}

	if cfg.Env == "prod" {
		if cfg.SessionSecret == "" {
			return nil, fmt.Errorf("prod: SESSION_SECRET is required")
		}
	} else if cfg.SessionSecret == "" {
		// dev only: a weak secret so local boots don't fail
		cfg.SessionSecret = "dev-secret-keep-it-simple-but-not-safe"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return i
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
