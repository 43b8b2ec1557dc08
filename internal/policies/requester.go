package policies

import "github.com/PauloHFS/goth-blog/internal/db"

// Requester is the explicit per-request identity every post operation takes.
// The zero value is an anonymous visitor.
type Requester struct {
	UserID          int64
	FirstName       string
	IsAuthenticated bool
	IsStaff         bool
	IsSuperuser     bool
}

func FromUser(u db.User) Requester {
	return Requester{
		UserID:          u.ID,
		FirstName:       u.FirstName,
		IsAuthenticated: true,
		IsStaff:         u.IsStaff,
		IsSuperuser:     u.IsSuperuser,
	}
}

// IsElevated requires both flags. Staff without superuser, or superuser
// without staff, is an ordinary reader.
func (r Requester) IsElevated() bool {
	return r.IsStaff && r.IsSuperuser
}
