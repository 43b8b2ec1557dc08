package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PauloHFS/goth-blog/internal/upload"
)

type staticImages []string

func (s staticImages) ListPostImages(context.Context) ([]string, error) {
	return s, nil
}

type failingImages struct{ err error }

func (f failingImages) ListPostImages(context.Context) ([]string, error) {
	return nil, f.err
}

func writeImage(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestJanitor_Sweep(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, upload.PostImageConfig.Directory)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	writeImage(t, dir, "kept.png", 2*time.Hour)
	writeImage(t, dir, "orphan.png", 2*time.Hour)
	writeImage(t, dir, "fresh.png", time.Minute)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	j := NewJanitor(staticImages{"/storage/posts/kept.png"}, upload.NewStore(root), logger)

	removed, err := j.Sweep(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	for name, wantExists := range map[string]bool{"kept.png": true, "orphan.png": false, "fresh.png": true} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != wantExists {
			t.Errorf("%s exists = %v, want %v", name, exists, wantExists)
		}
	}
}

func TestJanitor_StartSweepsUntilCancelled(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, upload.PostImageConfig.Directory)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, dir, "orphan.png", 2*time.Hour)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	j := NewJanitor(staticImages{}, upload.NewStore(root), logger)

	ctx, cancel := context.WithCancel(context.Background())
	j.Start(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(dir, "orphan.png")); os.IsNotExist(err) {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("orphan was not swept")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	done := make(chan struct{})
	go func() {
		j.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}

func TestJanitor_SweepMissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	j := NewJanitor(staticImages{}, upload.NewStore(t.TempDir()), logger)
	if removed, err := j.Sweep(context.Background()); err != nil || removed != 0 {
		t.Errorf("Sweep = %d, %v", removed, err)
	}
}

func TestJanitor_SweepListError(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	j := NewJanitor(failingImages{errors.New("database is locked")}, upload.NewStore(t.TempDir()), logger)
	if _, err := j.Sweep(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("database is locked"), true},
		{errors.New("SQLITE_BUSY: busy"), true},
		{context.DeadlineExceeded, true},
		{context.Canceled, false},
		{errors.New("no such table: posts"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableError(tt.err); got != tt.want {
			t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestBackoff(t *testing.T) {
	cfg := BackoffConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	if got := Exponential(0, cfg); got != 100*time.Millisecond {
		t.Errorf("Exponential(0) = %s", got)
	}
	if got := Exponential(2, cfg); got != 400*time.Millisecond {
		t.Errorf("Exponential(2) = %s", got)
	}
	if got := Exponential(10, cfg); got != time.Second {
		t.Errorf("Exponential(10) = %s", got)
	}
	for i := 0; i < 50; i++ {
		d := FullJitter(2, cfg)
		if d < 200*time.Millisecond || d >= 600*time.Millisecond {
			t.Fatalf("FullJitter(2) = %s out of range", d)
		}
	}
}
