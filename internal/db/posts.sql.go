package db

import (
	"context"
	"fmt"
	"time"
)

const postColumns = `
	p.id, p.user_id, p.slug, p.title, p.content, p.image, p.draft,
	p.publish_date, p.created_at, p.updated_at, u.first_name
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var i Post
	var publishDate string
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Slug,
		&i.Title,
		&i.Content,
		&i.Image,
		&i.Draft,
		&publishDate,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.AuthorFirstName,
	)
	if err != nil {
		return i, err
	}
	i.PublishDate, err = time.Parse(time.DateOnly, publishDate)
	if err != nil {
		return i, fmt.Errorf("invalid publish_date %q for post %d: %w", publishDate, i.ID, err)
	}
	return i, nil
}

func (q *Queries) listPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Post
	for rows.Next() {
		i, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FormatDate renders a publish date the way the posts table stores it.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

const getPostBySlug = `
SELECT` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.slug = ?
`

func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	row := q.db.QueryRowContext(ctx, getPostBySlug, slug)
	return scanPost(row)
}

const getPostByID = `
SELECT` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.id = ?
`

func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	row := q.db.QueryRowContext(ctx, getPostByID, id)
	return scanPost(row)
}

const listAllPosts = `
SELECT` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.user_id
ORDER BY p.publish_date DESC, p.id DESC
`

func (q *Queries) ListAllPosts(ctx context.Context) ([]Post, error) {
	return q.listPosts(ctx, listAllPosts)
}

const listPublicPosts = `
SELECT` + postColumns + `
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.draft = 0 AND p.publish_date <= ?
ORDER BY p.publish_date DESC, p.id DESC
`

// ListPublicPosts returns non-draft posts published on or before today.
func (q *Queries) ListPublicPosts(ctx context.Context, today time.Time) ([]Post, error) {
	return q.listPosts(ctx, listPublicPosts, FormatDate(today))
}

const slugExists = `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ?)`

func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	row := q.db.QueryRowContext(ctx, slugExists, slug)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const countPosts = `SELECT COUNT(*) FROM posts`

func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPosts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createPost = `
INSERT INTO posts (user_id, slug, title, content, image, draft, publish_date)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreatePostParams struct {
	UserID      int64
	Slug        string
	Title       string
	Content     string
	Image       string
	Draft       bool
	PublishDate time.Time
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	res, err := q.db.ExecContext(ctx, createPost,
		arg.UserID,
		arg.Slug,
		arg.Title,
		arg.Content,
		arg.Image,
		arg.Draft,
		FormatDate(arg.PublishDate),
	)
	if err != nil {
		return Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, err
	}
	return q.GetPostByID(ctx, id)
}

const updatePost = `
UPDATE posts
SET title = ?, content = ?, image = ?, draft = ?, publish_date = ?, updated_at = ?
WHERE id = ?
`

type UpdatePostParams struct {
	ID          int64
	Title       string
	Content     string
	Image       string
	Draft       bool
	PublishDate time.Time
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	_, err := q.db.ExecContext(ctx, updatePost,
		arg.Title,
		arg.Content,
		arg.Image,
		arg.Draft,
		FormatDate(arg.PublishDate),
		time.Now().UTC(),
		arg.ID,
	)
	if err != nil {
		return Post{}, err
	}
	return q.GetPostByID(ctx, arg.ID)
}

const deletePost = `DELETE FROM posts WHERE id = ?`

func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const listPostImages = `SELECT image FROM posts WHERE image != ''`

// ListPostImages returns every image URL still referenced by a post.
func (q *Queries) ListPostImages(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listPostImages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, err
		}
		items = append(items, image)
	}
	return items, rows.Err()
}
