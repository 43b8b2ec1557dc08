package pages

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/i18n"
	"github.com/PauloHFS/goth-blog/internal/markdown"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/PauloHFS/goth-blog/internal/validator"
	"github.com/PauloHFS/goth-blog/internal/view"
	"github.com/a-h/templ"
)

const excerptLength = 240

type PostListData struct {
	Chrome
	// Result is nil when the requester is anonymous.
	Result *db.PagedResult[db.Post]
	Query  string
	Values url.Values
	Today  time.Time
}

type PostDetailData struct {
	Chrome
	Post db.Post
	// Body is the rendered, sanitized markdown.
	Body  string
	Today time.Time
}

type PostFormData struct {
	Chrome
	Action string
	Form   validator.PostForm
	Errors map[string]string
	Image  string
}

func PostList(d PostListData) templ.Component {
	return Layout(d.Chrome, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		h := &html{w: w}

		h.raw(`<section class="posts"><h1>`)
		h.text(d.Title)
		h.raw(`</h1>`)

		if d.Result == nil {
			h.raw(`<p class="empty"><a href="` + routes.Login + `">`)
			h.text(t.LoginToList)
			h.raw(`</a></p></section>`)
			return h.err
		}

		h.raw(`<form method="get" action="` + routes.Posts + `" class="search" role="search">`)
		h.raw(`<input type="search" name="q" value=`)
		h.attr(d.Query)
		h.raw(` placeholder=`)
		h.attr(t.Search)
		h.raw(`><button type="submit">`)
		h.text(t.Search)
		h.raw(`</button></form>`)

		if len(d.Result.Items) == 0 {
			h.raw(`<p class="empty">`)
			h.text(t.NoPosts)
			h.raw(`</p>`)
		}

		h.raw(`<ul class="post-list">`)
		for _, p := range d.Result.Items {
			h.raw(`<li class="post-item">`)
			if p.Image != "" {
				h.raw(`<img class="thumb" alt="" src=`)
				h.attr(p.Image)
				h.raw(`>`)
			}
			h.raw(`<h2><a href=`)
			h.attr(routes.PostDetail(p.Slug))
			h.raw(`>`)
			h.text(p.Title)
			h.raw(`</a></h2>`)
			writeMeta(h, t, p, d.Today)
			h.raw(`<p class="excerpt">`)
			h.text(markdown.Excerpt(p.Content, excerptLength))
			h.raw(`</p></li>`)
		}
		h.raw(`</ul>`)

		writePagination(h, t, view.NewPagination(d.Result.CurrentPage, d.Result.TotalItems, d.Result.PerPage), d.Values)
		h.raw(`</section>`)
		return h.err
	}))
}

func writeMeta(h *html, t i18n.Translation, p db.Post, today time.Time) {
	h.raw(`<p class="meta"><span class="author">`)
	h.text(p.AuthorFirstName)
	h.raw(`</span> <time datetime=`)
	h.attr(view.InputDate(p.PublishDate))
	h.raw(`>`)
	h.text(view.FormatDate(p.PublishDate))
	h.raw(`</time>`)
	switch {
	case p.Draft:
		h.raw(` <span class="badge badge-draft">`)
		h.text(t.Draft)
		h.raw(`</span>`)
	case !policies.IsPublic(p, today):
		h.raw(` <span class="badge badge-scheduled">`)
		h.text(t.Scheduled)
		h.raw(`</span>`)
	}
	h.raw(`</p>`)
}

func writePagination(h *html, t i18n.Translation, p view.Pagination, values url.Values) {
	h.raw(`<nav class="pagination">`)
	if p.HasPrevious() {
		h.raw(`<a rel="prev" href=`)
		h.attr(view.PageURL(routes.Posts, values, p.PreviousPage()))
		h.raw(`>`)
		h.text(t.Previous)
		h.raw(`</a>`)
	}
	h.raw(`<span class="current" data-page="` + strconv.Itoa(p.CurrentPage) + `">`)
	h.text(fmt.Sprintf(t.PageOf, p.CurrentPage, p.TotalPages()))
	h.raw(`</span>`)
	if p.HasNext() {
		h.raw(`<a rel="next" href=`)
		h.attr(view.PageURL(routes.Posts, values, p.NextPage()))
		h.raw(`>`)
		h.text(t.Next)
		h.raw(`</a>`)
	}
	h.raw(`</nav>`)
}

func PostDetail(d PostDetailData) templ.Component {
	return Layout(d.Chrome, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		h := &html{w: w}
		p := d.Post

		h.raw(`<article class="post"><h1>`)
		h.text(p.Title)
		h.raw(`</h1>`)
		writeMeta(h, t, p, d.Today)
		if p.Image != "" {
			h.raw(`<img class="cover" alt="" src=`)
			h.attr(p.Image)
			h.raw(`>`)
		}
		h.raw(`<div class="content">`)
		h.render(ctx, templ.Raw(d.Body))
		h.raw(`</div>`)

		if policies.CanEditPost(d.Requester, p) || policies.CanDeletePost(d.Requester, p) {
			h.raw(`<div class="actions">`)
			if policies.CanEditPost(d.Requester, p) {
				h.raw(`<a class="button" href=`)
				h.attr(routes.PostEdit(p.Slug))
				h.raw(`>`)
				h.text(t.Edit)
				h.raw(`</a>`)
			}
			if policies.CanDeletePost(d.Requester, p) {
				h.raw(`<form method="post" class="inline" action=`)
				h.attr(routes.PostDelete(p.Slug))
				h.raw(`>`)
				h.csrf(ctx)
				h.raw(`<button type="submit" class="danger">`)
				h.text(t.Delete)
				h.raw(`</button></form>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</article>`)
		return h.err
	}))
}

func PostForm(d PostFormData) templ.Component {
	return Layout(d.Chrome, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		h := &html{w: w}

		h.raw(`<section class="post-form"><h1>`)
		h.text(d.Title)
		h.raw(`</h1><form method="post" enctype="multipart/form-data" action=`)
		h.attr(d.Action)
		h.raw(`>`)
		h.csrf(ctx)

		h.raw(`<label>`)
		h.text(t.Title)
		h.raw(`<input type="text" name="title" maxlength="120" value=`)
		h.attr(d.Form.Title)
		h.raw(`></label>`)
		fieldError(h, d.Errors, "title")

		h.raw(`<label>`)
		h.text(t.Content)
		h.raw(`<textarea name="content" rows="16">`)
		h.text(d.Form.Content)
		h.raw(`</textarea></label>`)
		fieldError(h, d.Errors, "content")

		h.raw(`<label>`)
		h.text(t.PublishDate)
		h.raw(`<input type="date" name="publish_date" value=`)
		h.attr(d.Form.PublishDate)
		h.raw(`></label>`)
		fieldError(h, d.Errors, "publish_date")

		h.raw(`<label class="check"><input type="checkbox" name="draft" value="true"`)
		if d.Form.Draft {
			h.raw(` checked`)
		}
		h.raw(`> `)
		h.text(t.Draft)
		h.raw(`</label>`)

		h.raw(`<label>`)
		h.text(t.Image)
		if d.Image != "" {
			h.raw(`<img class="thumb" alt="" src=`)
			h.attr(d.Image)
			h.raw(`>`)
		}
		h.raw(`<input type="file" name="image" accept="image/*"></label>`)
		fieldError(h, d.Errors, "image")

		h.raw(`<button type="submit">`)
		h.text(t.Save)
		h.raw(`</button></form></section>`)
		return h.err
	}))
}

func fieldError(h *html, errs map[string]string, field string) {
	if msg, ok := errs[field]; ok {
		h.raw(`<p class="field-error" data-field="` + field + `">`)
		h.text(msg)
		h.raw(`</p>`)
	}
}
