package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PauloHFS/goth-blog/internal/config"
	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/markdown"
	"github.com/PauloHFS/goth-blog/internal/middleware"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/PauloHFS/goth-blog/internal/services"
	"github.com/PauloHFS/goth-blog/internal/telemetry"
	"github.com/PauloHFS/goth-blog/internal/upload"
	"github.com/PauloHFS/goth-blog/internal/web"
	"github.com/PauloHFS/goth-blog/internal/worker"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// @title goth-blog API
// @version 1.0
// @description Read-only JSON listing of blog posts.
// @BasePath /
func RunServer(assetsFS fs.FS) {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	logging.Init()
	logger := logging.Get()

	shutdownTracing, err := telemetry.Init(cfg.Tracing, Version)
	if err != nil {
		fatal("failed to start tracing", err)
	}

	pool, err := db.NewDualPool("sqlite3", db.DSN(cfg.DatabaseURL))
	if err != nil {
		fatal("failed to open database", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		fatal("failed to run migrations", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		fatal("failed to create storage directory", err)
	}

	renderer, err := markdown.NewRenderer(cfg.MarkdownCacheSize)
	if err != nil {
		fatal("failed to create markdown renderer", err)
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(pool.Write)
	sessionManager.Lifetime = 14 * 24 * time.Hour
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Env == "prod"

	deps := web.HandlerDeps{
		DB:             pool.Write,
		Queries:        pool.Queries(),
		Posts:          services.NewPostService(pool.Queries(), pool.QueriesWrite(), cfg.PostsPerPage),
		SessionManager: sessionManager,
		Config:         cfg,
		Markdown:       renderer,
		Uploads:        upload.NewStore(cfg.UploadDir),
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+routes.Assets, http.StripPrefix(routes.Assets, http.FileServer(http.FS(assetsFS))))
	mux.Handle("GET "+routes.Storage, http.StripPrefix(routes.Storage, http.FileServer(http.Dir(cfg.UploadDir))))
	mux.Handle("GET "+routes.Metrics, promhttp.Handler())
	mux.HandleFunc("GET "+routes.Health, func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Read.PingContext(r.Context()); err != nil {
			logger.Error("health check failed: db unreachable", slog.Any("error", err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if _, err := os.Stat(cfg.UploadDir); err != nil {
			logger.Error("health check failed: storage unavailable", slog.Any("error", err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	web.RegisterRoutes(mux, deps)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	limiter := middleware.NewRateLimiter(10, 20)
	go limiter.Cleanup(bgCtx, time.Minute)

	var janitor *worker.Janitor
	if cfg.ImageSweepInterval > 0 {
		janitor = worker.NewJanitor(pool.Queries(), deps.Uploads, logger)
		janitor.Start(bgCtx, cfg.ImageSweepInterval)
	}

	handler := middleware.Recovery(
		middleware.Logger(
			limiter.Limit(
				middleware.SecurityHeaders(cfg.Env == "prod")(
					middleware.Locale(
						sessionManager.LoadAndSave(
							middleware.CSRF(cfg.Env == "prod",
								middleware.LoadRequester(sessionManager, deps.Queries, mux),
							),
						),
					),
				),
			),
		),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gzhttp.GzipHandler(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server started",
			slog.String("port", cfg.Port),
			slog.String("env", cfg.Env),
			slog.Int("posts_per_page", cfg.PostsPerPage),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("server stopping")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	if janitor != nil {
		janitor.Wait()
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("failed to flush traces", slog.Any("error", err))
	}

	logger.Info("server exited properly")
}

func fatal(msg string, err error) {
	logging.Get().Error(msg, slog.Any("error", err))
	os.Exit(1)
}
