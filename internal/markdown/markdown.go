// Package markdown renders post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown with goldmark, strips anything unsafe with the
// UGC policy and caches the output per post revision.
type Renderer struct {
	md    goldmark.Markdown
	pol   *bluemonday.Policy
	cache *lru.Cache[cacheKey, string]
}

type cacheKey struct {
	id        int64
	updatedAt time.Time
}

func NewRenderer(cacheSize int) (*Renderer, error) {
	cache, err := lru.New[cacheKey, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown cache: %w", err)
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &Renderer{md: md, pol: bluemonday.UGCPolicy(), cache: cache}, nil
}

func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.pol.SanitizeReader(&buf).String(), nil
}

// RenderPost is Render memoized on (id, updatedAt), so an edit naturally
// invalidates the previous entry.
func (r *Renderer) RenderPost(id int64, updatedAt time.Time, src string) (string, error) {
	key := cacheKey{id: id, updatedAt: updatedAt}
	if out, ok := r.cache.Get(key); ok {
		return out, nil
	}
	out, err := r.Render(src)
	if err != nil {
		return "", err
	}
	r.cache.Add(key, out)
	return out, nil
}

// Excerpt strips all markup and cuts the text to at most n runes.
func Excerpt(src string, n int) string {
	text := []rune(stdhtml.UnescapeString(bluemonday.StrictPolicy().Sanitize(src)))
	if len(text) <= n {
		return string(text)
	}
	return string(text[:n]) + "…"
}
