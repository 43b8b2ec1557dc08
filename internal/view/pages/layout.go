// Package pages holds the server-rendered HTML components.
package pages

import (
	"context"
	"io"

	"github.com/PauloHFS/goth-blog/internal/flash"
	"github.com/PauloHFS/goth-blog/internal/i18n"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/PauloHFS/goth-blog/internal/view"
	"github.com/a-h/templ"
)

// Chrome is what every page shares: title, who is looking and the pending
// flash message.
type Chrome struct {
	Title     string
	Requester policies.Requester
	Flash     *flash.Message
}

// html accumulates the first write error so components read top to bottom.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(s string) {
	h.raw(`"` + templ.EscapeString(s) + `"`)
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

func (h *html) csrf(ctx context.Context) {
	h.raw(`<input type="hidden" name="csrf_token" value=`)
	h.attr(view.CSRFToken(ctx))
	h.raw(`>`)
}

func Layout(c Chrome, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		h := &html{w: w}

		h.raw(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(c.Title)
		h.raw(`</title><link rel="stylesheet" href="/assets/css/app.css"></head><body>`)

		h.raw(`<header class="topbar"><a class="brand" href="`)
		h.raw(routes.Posts)
		h.raw(`">goth-blog</a><nav>`)
		if c.Requester.IsAuthenticated {
			h.raw(`<span class="who">`)
			h.text(c.Requester.FirstName)
			h.raw(`</span>`)
			if policies.CanCreatePost(c.Requester) {
				h.raw(`<a href="` + routes.PostCreate + `">`)
				h.text(t.NewPost)
				h.raw(`</a>`)
			}
			h.raw(`<form method="post" action="` + routes.Logout + `" class="inline">`)
			h.csrf(ctx)
			h.raw(`<button type="submit">`)
			h.text(t.Logout)
			h.raw(`</button></form>`)
		} else {
			h.raw(`<a href="` + routes.Login + `">`)
			h.text(t.Login)
			h.raw(`</a>`)
		}
		h.raw(`</nav></header>`)

		if c.Flash != nil {
			h.raw(`<div class="flash flash-`)
			h.text(string(c.Flash.Level))
			h.raw(`" role="status">`)
			h.text(c.Flash.Text)
			h.raw(`</div>`)
		}

		h.raw(`<main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func NotFound(c Chrome) templ.Component {
	return Layout(c, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		h := &html{w: w}
		h.raw(`<section class="not-found"><h1>404</h1><p>`)
		h.text(t.NotFound)
		h.raw(`</p><a href="` + routes.Posts + `">`)
		h.text(t.ListTitle)
		h.raw(`</a></section>`)
		return h.err
	}))
}
