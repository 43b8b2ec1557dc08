// Package worker runs the background maintenance of the blog.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/metrics"
	"github.com/PauloHFS/goth-blog/internal/upload"
)

// ImageLister is the query the janitor needs. *db.Queries satisfies it.
type ImageLister interface {
	ListPostImages(ctx context.Context) ([]string, error)
}

// Janitor deletes uploaded post images that no post references any more,
// such as the previous cover of an edited post or files left behind by a
// crash between upload and insert.
type Janitor struct {
	images  ImageLister
	uploads *upload.Store
	dir     string
	grace   time.Duration
	backoff BackoffConfig
	logger  *slog.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

// maxRetries bounds the quick retries of a sweep that hit a busy database.
const maxRetries = 3

func NewJanitor(images ImageLister, uploads *upload.Store, logger *slog.Logger) *Janitor {
	return &Janitor{
		images:  images,
		uploads: uploads,
		dir:     upload.PostImageConfig.Directory,
		grace:   time.Hour,
		backoff: DefaultBackoffConfig,
		logger:  logger,
		now:     time.Now,
	}
}

// Start sweeps every interval in its own goroutine until ctx is done.
func (j *Janitor) Start(ctx context.Context, interval time.Duration) {
	j.wg.Add(1)
	go j.loop(ctx, interval)
}

// Wait blocks until the loop started by Start has returned. Cancel its
// context first.
func (j *Janitor) Wait() {
	j.wg.Wait()
}

func (j *Janitor) loop(ctx context.Context, interval time.Duration) {
	defer j.wg.Done()

	j.logger.Info("image janitor started", slog.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("image janitor stopping")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *Janitor) run(ctx context.Context) {
	ctx, event := logging.NewEventContext(ctx)
	start := time.Now()

	var removed int
	var err error
	for attempt := 0; ; attempt++ {
		removed, err = j.Sweep(ctx)
		if err == nil || attempt >= maxRetries || !IsRetryableError(err) {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(FullJitter(attempt, j.backoff)):
		}
		event.Add(slog.Int("retries", attempt+1))
	}

	duration := time.Since(start)
	event.Add(
		slog.Int("removed", removed),
		slog.Float64("duration_ms", float64(duration.Nanoseconds())/1e6),
	)
	if err != nil {
		metrics.ImageSweepDuration.WithLabelValues("failed").Observe(duration.Seconds())
		j.logger.ErrorContext(ctx, "image sweep failed", append(event.Attrs(), slog.Any("error", err))...)
		return
	}
	metrics.ImageSweepDuration.WithLabelValues("success").Observe(duration.Seconds())
	j.logger.InfoContext(ctx, "image sweep completed", event.Attrs()...)
}

// Sweep removes every unreferenced file in the post image directory that is
// older than the grace period, and reports how many it removed. Newer files
// may belong to a post that is still being saved.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	referenced, err := j.images.ListPostImages(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list post images: %w", err)
	}
	keep := make(map[string]struct{}, len(referenced))
	for _, url := range referenced {
		keep[url] = struct{}{}
	}

	entries, err := os.ReadDir(filepath.Join(j.uploads.Root, j.dir))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read image directory: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		url := upload.URLPrefix + j.dir + "/" + entry.Name()
		if _, ok := keep[url]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := j.uploads.DeleteURL(url); err != nil {
			j.logger.WarnContext(ctx, "failed to remove orphaned image",
				slog.String("url", url),
				slog.Any("error", err),
			)
			continue
		}
		removed++
	}

	metrics.OrphanImagesRemoved.Add(float64(removed))
	return removed, nil
}
