package db

import (
	"time"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

// Post carries its author's first name so listing and search never need a
// second query.
type Post struct {
	ID              int64
	UserID          int64
	Slug            string
	Title           string
	Content         string
	Image           string
	Draft           bool
	PublishDate     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AuthorFirstName string
}
