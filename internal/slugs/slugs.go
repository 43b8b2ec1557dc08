// Package slugs builds the URL identifiers posts are addressed by.
package slugs

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gosimple/slug"
)

const maxLength = 80

// pattern matches what the /posts/{slug}/ routes accept.
var pattern = regexp.MustCompile(`^[\w-]+$`)

// reserved slugs collide with fixed routes under /posts/.
var reserved = map[string]bool{
	"create": true,
}

func init() {
	slug.MaxLength = maxLength
}

// Make turns a title into a lowercase, dash separated slug. Titles with no
// sluggable characters fall back to "post".
func Make(title string) string {
	s := slug.Make(title)
	if s == "" {
		return "post"
	}
	return s
}

// Valid reports whether s can be used in a post route.
func Valid(s string) bool {
	return s != "" && pattern.MatchString(s)
}

// Reserved reports whether s is the path segment of a fixed post route.
func Reserved(s string) bool {
	return reserved[s]
}

// Unique returns the first of Make(title), Make(title)-2, Make(title)-3, ...
// that is not reserved and for which exists reports false.
func Unique(ctx context.Context, title string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := Make(title)
	candidate := base
	for n := 2; ; n++ {
		if !Reserved(candidate) {
			taken, err := exists(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
			}
			if !taken {
				return candidate, nil
			}
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
