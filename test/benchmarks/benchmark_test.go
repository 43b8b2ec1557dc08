package benchmarks

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/PauloHFS/goth-blog/internal/contextkeys"
	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/markdown"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/PauloHFS/goth-blog/internal/services"
	"github.com/PauloHFS/goth-blog/internal/view/pages"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

const postCount = 500

var (
	today  = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	reader = policies.Requester{UserID: 2, IsAuthenticated: true}
	admin  = policies.Requester{UserID: 1, IsAuthenticated: true, IsStaff: true, IsSuperuser: true}
)

func setupPool(b *testing.B, opts ...func(*db.PoolConfig)) *db.DualPool {
	b.Helper()
	pool, err := db.NewDualPool("sqlite3", db.DSN(filepath.Join(b.TempDir(), "bench.db")), opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { pool.Close() })

	ctx := context.Background()
	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		b.Fatal(err)
	}

	q := pool.QueriesWrite()
	author, err := q.CreateUser(ctx, db.CreateUserParams{
		Email:        "ana@example.com",
		PasswordHash: "hash",
		FirstName:    "Ana",
		IsStaff:      true,
		IsSuperuser:  true,
	})
	if err != nil {
		b.Fatal(err)
	}
	for i := range postCount {
		_, err := q.CreatePost(ctx, db.CreatePostParams{
			UserID:      author.ID,
			Slug:        fmt.Sprintf("post-%d", i),
			Title:       fmt.Sprintf("Post %d about sqlite", i),
			Content:     "Some **markdown** body with a [link](https://example.com).",
			Draft:       i%7 == 0,
			PublishDate: today.AddDate(0, 0, 30-i),
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	return pool
}

func fixture(n int) []db.Post {
	posts := make([]db.Post, n)
	for i := range posts {
		posts[i] = db.Post{
			ID:              int64(i + 1),
			Slug:            fmt.Sprintf("post-%d", i),
			Title:           fmt.Sprintf("Post %d", i),
			Content:         "Body text mentioning Ünïcode and sqlite",
			Draft:           i%5 == 0,
			PublishDate:     today.AddDate(0, 0, 10-i),
			AuthorFirstName: "Ana",
		}
	}
	return posts
}

func BenchmarkListPosts(b *testing.B) {
	posts := fixture(postCount)
	cases := []struct {
		name  string
		r     policies.Requester
		query string
	}{
		{"Reader", reader, ""},
		{"Elevated", admin, ""},
		{"ReaderSearch", reader, "UNICODE"},
	}
	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				services.ListPosts(tc.r, posts, tc.query, "3", db.DefaultPerPage, today)
			}
		})
	}
}

func BenchmarkPostService_List(b *testing.B) {
	pool := setupPool(b)
	svc := services.NewPostService(pool.Queries(), pool.QueriesWrite(), db.DefaultPerPage).
		WithClock(func() time.Time { return today })
	ctx := context.Background()

	var lat Latencies
	b.ReportAllocs()
	for b.Loop() {
		lat.Time(func() {
			if _, err := svc.List(ctx, reader, "sqlite", "2"); err != nil {
				b.Fatal(err)
			}
		})
	}
	lat.Report(b)
}

// Concurrent public listings against a single connection versus the read pool.
func BenchmarkConcurrentReads(b *testing.B) {
	pools := map[string][]func(*db.PoolConfig){
		"Single": {db.WithReadPoolSize(1, 1)},
		"Dual":   nil,
	}
	for name, opts := range pools {
		b.Run(name, func(b *testing.B) {
			q := setupPool(b, opts...).Queries()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := q.ListPublicPosts(context.Background(), today); err != nil {
						b.Error(err)
						return
					}
				}
			})
		})
	}
}

func BenchmarkPostListRendering(b *testing.B) {
	result := services.ListPosts(admin, fixture(postCount), "", "1", db.DefaultPerPage, today)
	data := pages.PostListData{
		Chrome: pages.Chrome{Title: "My list", Requester: admin},
		Result: result,
		Today:  today,
	}
	ctx := context.WithValue(context.Background(), contextkeys.CSRFTokenKey, "token")

	b.ReportAllocs()
	for b.Loop() {
		if err := pages.PostList(data).Render(ctx, io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarkdownRender(b *testing.B) {
	src := "# Title\n\nParagraph with *emphasis* and `code`.\n\n- one\n- two\n\n<script>alert(1)</script>"
	updated := today

	b.Run("Cold", func(b *testing.B) {
		r, err := markdown.NewRenderer(1)
		if err != nil {
			b.Fatal(err)
		}
		var id int64
		for b.Loop() {
			id++
			r.RenderPost(id, updated, src)
		}
	})

	b.Run("Cached", func(b *testing.B) {
		r, err := markdown.NewRenderer(128)
		if err != nil {
			b.Fatal(err)
		}
		for b.Loop() {
			r.RenderPost(1, updated, src)
		}
	})
}

func BenchmarkPasswordHashing(b *testing.B) {
	for b.Loop() {
		if _, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.DefaultCost); err != nil {
			b.Fatal(err)
		}
	}
}
