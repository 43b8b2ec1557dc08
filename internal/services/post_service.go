package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/metrics"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/PauloHFS/goth-blog/internal/slugs"
	"github.com/PauloHFS/goth-blog/internal/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PostStore is the persistence the post operations need. *db.Queries
// satisfies it.
type PostStore interface {
	GetPostBySlug(ctx context.Context, slug string) (db.Post, error)
	ListAllPosts(ctx context.Context) ([]db.Post, error)
	ListPublicPosts(ctx context.Context, today time.Time) ([]db.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CreatePost(ctx context.Context, arg db.CreatePostParams) (db.Post, error)
	UpdatePost(ctx context.Context, arg db.UpdatePostParams) (db.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

var _ PostStore = (*db.Queries)(nil)

type PostService struct {
	reads   PostStore
	writes  PostStore
	perPage int
	now     func() time.Time
	tracer  trace.Tracer
}

// NewPostService reads through reads and mutates through writes; both may be
// the same store.
func NewPostService(reads, writes PostStore, perPage int) *PostService {
	if perPage < 1 {
		perPage = db.DefaultPerPage
	}
	return &PostService{
		reads:   reads,
		writes:  writes,
		perPage: perPage,
		now:     time.Now,
		tracer:  otel.Tracer("github.com/PauloHFS/goth-blog/internal/services"),
	}
}

// WithClock replaces the wall clock, for tests that pin "today".
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

func (s *PostService) Today() time.Time {
	return policies.Today(s.now())
}

func (s *PostService) PerPage() int {
	return s.perPage
}

func (s *PostService) start(ctx context.Context, op string, r policies.Requester, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "posts."+op)
	span.SetAttributes(
		attribute.Bool("requester.authenticated", r.IsAuthenticated),
		attribute.Bool("requester.elevated", r.IsElevated()),
	)
	span.SetAttributes(attrs...)
	return ctx, span
}

func finish(span trace.Span, op string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	default:
		if _, ok := IsValidation(err); ok {
			outcome = "invalid"
		} else {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	span.End()
	metrics.PostOperations.WithLabelValues(op, outcome).Inc()
}

// List loads the requester's base set and applies ListPosts. Anonymous
// requesters get nil without touching the store.
func (s *PostService) List(ctx context.Context, r policies.Requester, query, rawPage string) (result *PageResult, err error) {
	ctx, span := s.start(ctx, "list", r, attribute.String("query", query), attribute.String("page", rawPage))
	defer func() { finish(span, "list", err) }()

	if !r.IsAuthenticated {
		return nil, nil
	}

	today := s.Today()
	var posts []db.Post
	if r.IsElevated() {
		posts, err = s.reads.ListAllPosts(ctx)
	} else {
		posts, err = s.reads.ListPublicPosts(ctx, today)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	result = ListPosts(r, posts, query, rawPage, s.perPage, today)
	span.SetAttributes(
		attribute.Int("result.total", result.TotalItems),
		attribute.Int("result.page", result.CurrentPage),
	)
	metrics.PostsListed.Observe(float64(len(result.Items)))
	return result, nil
}

// Get returns the post behind slug when the requester may see it.
func (s *PostService) Get(ctx context.Context, r policies.Requester, slug string) (post db.Post, err error) {
	ctx, span := s.start(ctx, "get", r, attribute.String("slug", slug))
	defer func() { finish(span, "get", err) }()

	post, err = s.lookup(ctx, s.reads, slug)
	if err != nil {
		return db.Post{}, err
	}
	if !policies.CanViewPost(r, post, s.Today()) {
		return db.Post{}, ErrNotFound
	}
	return post, nil
}

// Create validates form and stores it as a new post authored by r under a
// fresh slug derived from the title.
func (s *PostService) Create(ctx context.Context, r policies.Requester, form validator.PostForm, image string) (post db.Post, err error) {
	ctx, span := s.start(ctx, "create", r)
	defer func() { finish(span, "create", err) }()

	if !policies.CanCreatePost(r) {
		return db.Post{}, ErrNotFound
	}
	form, publishDate, err := validatePost(form)
	if err != nil {
		return db.Post{}, err
	}

	slug, err := slugs.Unique(ctx, form.Title, s.writes.SlugExists)
	if err != nil {
		return db.Post{}, err
	}

	post, err = s.writes.CreatePost(ctx, db.CreatePostParams{
		UserID:      r.UserID,
		Slug:        slug,
		Title:       form.Title,
		Content:     form.Content,
		Image:       image,
		Draft:       form.Draft,
		PublishDate: publishDate,
	})
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	span.SetAttributes(attribute.String("slug", post.Slug))
	return post, nil
}

// Update rewrites the post behind slug. The slug itself never changes. An
// empty image keeps the current one.
func (s *PostService) Update(ctx context.Context, r policies.Requester, slug string, form validator.PostForm, image string) (post db.Post, err error) {
	ctx, span := s.start(ctx, "update", r, attribute.String("slug", slug))
	defer func() { finish(span, "update", err) }()

	if !r.IsElevated() {
		return db.Post{}, ErrNotFound
	}
	current, err := s.lookup(ctx, s.writes, slug)
	if err != nil {
		return db.Post{}, err
	}
	if !policies.CanEditPost(r, current) {
		return db.Post{}, ErrNotFound
	}
	form, publishDate, err := validatePost(form)
	if err != nil {
		return db.Post{}, err
	}
	if image == "" {
		image = current.Image
	}

	post, err = s.writes.UpdatePost(ctx, db.UpdatePostParams{
		ID:          current.ID,
		Title:       form.Title,
		Content:     form.Content,
		Image:       image,
		Draft:       form.Draft,
		PublishDate: publishDate,
	})
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// Delete removes the post behind slug and returns what was removed.
func (s *PostService) Delete(ctx context.Context, r policies.Requester, slug string) (post db.Post, err error) {
	ctx, span := s.start(ctx, "delete", r, attribute.String("slug", slug))
	defer func() { finish(span, "delete", err) }()

	post, err = s.lookup(ctx, s.writes, slug)
	if err != nil {
		return db.Post{}, err
	}
	if !policies.CanDeletePost(r, post) {
		return db.Post{}, ErrNotFound
	}
	if err := s.writes.DeletePost(ctx, post.ID); err != nil {
		return db.Post{}, fmt.Errorf("failed to delete post: %w", err)
	}
	return post, nil
}

func (s *PostService) lookup(ctx context.Context, store PostStore, slug string) (db.Post, error) {
	if !slugs.Valid(slug) {
		return db.Post{}, ErrNotFound
	}
	post, err := store.GetPostBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Post{}, ErrNotFound
	}
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to get post %q: %w", slug, err)
	}
	return post, nil
}

func validatePost(form validator.PostForm) (validator.PostForm, time.Time, error) {
	form = form.Normalize()
	result := validator.ValidatePost(form)
	if !result.Valid {
		fields := make(map[string]string, len(result.Errors))
		for _, e := range result.Errors {
			fields[e.Field] = e.Message
		}
		return form, time.Time{}, &ValidationError{Fields: fields}
	}
	publishDate, err := time.Parse(time.DateOnly, form.PublishDate)
	if err != nil {
		return form, time.Time{}, &ValidationError{Fields: map[string]string{"publish_date": "invalid date"}}
	}
	return form, publishDate, nil
}
