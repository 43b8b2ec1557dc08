package policies

import (
	"time"

	"github.com/PauloHFS/goth-blog/internal/db"
)

// Today truncates now to its UTC calendar date, the unit publish dates use.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsPublic reports whether post is a non-draft published on or before today.
func IsPublic(post db.Post, today time.Time) bool {
	return !post.Draft && !post.PublishDate.After(today)
}

// CanViewPost gates the detail page: drafts and future-dated posts are for
// elevated requesters only.
func CanViewPost(r Requester, post db.Post, today time.Time) bool {
	return IsPublic(post, today) || r.IsElevated()
}

func CanCreatePost(r Requester) bool {
	return r.IsElevated()
}

func CanEditPost(r Requester, _ db.Post) bool {
	return r.IsElevated()
}

func CanDeletePost(r Requester, _ db.Post) bool {
	return r.IsElevated()
}
