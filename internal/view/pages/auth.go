package pages

import (
	"context"
	"io"

	"github.com/PauloHFS/goth-blog/internal/i18n"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/a-h/templ"
)

// Login renders the sign-in form. next is carried through as a hidden field.
func Login(c Chrome, email, next, errMsg string) templ.Component {
	return Layout(c, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t := i18n.Get(ctx)
		h := &html{w: w}

		h.raw(`<section class="auth"><h1>`)
		h.text(t.Login)
		h.raw(`</h1>`)
		if errMsg != "" {
			h.raw(`<p class="error">`)
			h.text(errMsg)
			h.raw(`</p>`)
		}
		h.raw(`<form method="post" action="` + routes.Login + `">`)
		h.csrf(ctx)
		h.raw(`<input type="hidden" name="next" value=`)
		h.attr(next)
		h.raw(`><label>`)
		h.text(t.Email)
		h.raw(`<input type="email" name="email" required value=`)
		h.attr(email)
		h.raw(`></label><label>`)
		h.text(t.Password)
		h.raw(`<input type="password" name="password" required></label><button type="submit">`)
		h.text(t.Login)
		h.raw(`</button></form></section>`)
		return h.err
	}))
}
