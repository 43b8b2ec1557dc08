package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/PauloHFS/goth-blog/internal/view"
	"golang.org/x/text/cases"
)

type PageResult = db.PagedResult[db.Post]

// ListPosts is the listing policy. It never returns drafts or future-dated
// posts to a non-elevated requester, searches title, content and author first
// name case-insensitively, orders by publish date then id (both descending)
// and slices out the requested page. Anonymous requesters get nil: visibility
// follows elevation, but the listing itself requires authentication.
func ListPosts(r policies.Requester, posts []db.Post, query, rawPage string, perPage int, today time.Time) *PageResult {
	if !r.IsAuthenticated {
		return nil
	}
	if perPage < 1 {
		perPage = db.DefaultPerPage
	}

	visible := VisiblePosts(r, posts, today)
	matched := SearchPosts(visible, query)
	SortPosts(matched)

	result := &PageResult{
		TotalItems: len(matched),
		PerPage:    perPage,
	}
	result.CurrentPage = view.ResolvePage(rawPage, result.TotalPages())
	result.Items = db.Slice(matched, db.PagingParams{Page: result.CurrentPage, PerPage: perPage})
	return result
}

// VisiblePosts keeps every post for elevated requesters and only public ones
// for everybody else.
func VisiblePosts(r policies.Requester, posts []db.Post, today time.Time) []db.Post {
	if r.IsElevated() {
		return slices.Clone(posts)
	}
	out := make([]db.Post, 0, len(posts))
	for _, p := range posts {
		if policies.IsPublic(p, today) {
			out = append(out, p)
		}
	}
	return out
}

// SearchPosts returns each post whose title, content or author first name
// contains query under Unicode case folding, at most once per post id. A blank
// query matches everything.
func SearchPosts(posts []db.Post, query string) []db.Post {
	query = strings.TrimSpace(query)
	seen := make(map[int64]struct{}, len(posts))
	out := make([]db.Post, 0, len(posts))

	fold := cases.Fold()
	needle := fold.String(query)
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		if needle != "" && !matches(fold, p, needle) {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func matches(fold cases.Caser, p db.Post, needle string) bool {
	for _, field := range []string{p.Title, p.Content, p.AuthorFirstName} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// SortPosts orders posts newest publish date first, ties broken by id
// descending.
func SortPosts(posts []db.Post) {
	slices.SortStableFunc(posts, func(a, b db.Post) int {
		if c := b.PublishDate.Compare(a.PublishDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
