package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/flash"
	"github.com/PauloHFS/goth-blog/internal/i18n"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/middleware"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/PauloHFS/goth-blog/internal/services"
	"github.com/PauloHFS/goth-blog/internal/upload"
	"github.com/PauloHFS/goth-blog/internal/validator"
	"github.com/PauloHFS/goth-blog/internal/view"
	"github.com/PauloHFS/goth-blog/internal/view/pages"
)

// SearchParam is the list page's search query parameter.
const SearchParam = "q"

// maxFormMemory bounds the multipart parser; the upload limit itself is
// enforced by upload.Store.
const maxFormMemory = 1 << 20

func handleListPosts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	requester := middleware.GetRequester(r.Context())
	query := r.URL.Query().Get(SearchParam)
	rawPage := r.URL.Query().Get(view.PageParam)

	logging.AddToEvent(r.Context(),
		slog.String("operation", "list_posts"),
		slog.String("search", query),
	)

	result, err := deps.Posts.List(r.Context(), requester, query, rawPage)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	t := i18n.Get(r.Context())
	title := t.ListTitle
	if requester.IsAuthenticated {
		title = t.MyListTitle
	}
	if result != nil {
		logging.AddToEvent(r.Context(),
			slog.Int("result_total", result.TotalItems),
			slog.Int("result_page", result.CurrentPage),
		)
	}

	values := r.URL.Query()
	values.Del(view.PageParam)

	render(w, r, http.StatusOK, pages.PostList(pages.PostListData{
		Chrome: chrome(deps, r, title),
		Result: result,
		Query:  query,
		Values: values,
		Today:  deps.Posts.Today(),
	}))
	return nil
}

func handleShowPost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	slug := r.PathValue("slug")
	logging.AddToEvent(r.Context(),
		slog.String("operation", "show_post"),
		slog.String("post_slug", slug),
	)

	post, err := deps.Posts.Get(r.Context(), middleware.GetRequester(r.Context()), slug)
	if errors.Is(err, services.ErrNotFound) {
		notFound(deps, w, r)
		return nil
	}
	if err != nil {
		return err
	}

	body, err := deps.Markdown.RenderPost(post.ID, post.UpdatedAt, post.Content)
	if err != nil {
		return fmt.Errorf("failed to render post %d: %w", post.ID, err)
	}

	render(w, r, http.StatusOK, pages.PostDetail(pages.PostDetailData{
		Chrome: chrome(deps, r, post.Title),
		Post:   post,
		Body:   body,
		Today:  deps.Posts.Today(),
	}))
	return nil
}

func handleNewPost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "new_post"))

	if !policies.CanCreatePost(middleware.GetRequester(r.Context())) {
		notFound(deps, w, r)
		return nil
	}

	render(w, r, http.StatusOK, pages.PostForm(pages.PostFormData{
		Chrome: chrome(deps, r, i18n.Get(r.Context()).NewPost),
		Action: routes.PostCreate,
		Form:   validator.PostForm{PublishDate: view.InputDate(deps.Posts.Today())},
	}))
	return nil
}

func handleCreatePost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	requester := middleware.GetRequester(r.Context())
	logging.AddToEvent(r.Context(), slog.String("operation", "create_post"))

	if !policies.CanCreatePost(requester) {
		notFound(deps, w, r)
		return nil
	}

	form, err := parsePostForm(r)
	if err != nil {
		return err
	}

	formData := pages.PostFormData{Action: routes.PostCreate, Form: form}
	image, rejected, err := saveImage(deps, r)
	if err != nil {
		return err
	}
	if rejected != "" {
		return rerenderForm(deps, w, r, i18n.Get(r.Context()).NewPost, formData, map[string]string{"image": rejected})
	}

	post, err := deps.Posts.Create(r.Context(), requester, form, image)
	if err != nil {
		discardImage(deps, r, image)
		return postFailure(deps, w, r, i18n.Get(r.Context()).NewPost, formData, err)
	}

	logging.AddToEvent(r.Context(),
		slog.String("outcome", "success"),
		slog.String("post_slug", post.Slug),
		slog.Bool("with_image", image != ""),
	)
	flash.Add(r.Context(), deps.SessionManager, flash.Success, i18n.Get(r.Context()).PostCreated)
	http.Redirect(w, r, routes.PostDetail(post.Slug), http.StatusSeeOther)
	return nil
}

func handleEditPost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	requester := middleware.GetRequester(r.Context())
	slug := r.PathValue("slug")
	logging.AddToEvent(r.Context(),
		slog.String("operation", "edit_post"),
		slog.String("post_slug", slug),
	)

	post, err := deps.Posts.Get(r.Context(), requester, slug)
	if errors.Is(err, services.ErrNotFound) || (err == nil && !policies.CanEditPost(requester, post)) {
		notFound(deps, w, r)
		return nil
	}
	if err != nil {
		return err
	}

	render(w, r, http.StatusOK, pages.PostForm(pages.PostFormData{
		Chrome: chrome(deps, r, i18n.Get(r.Context()).Edit+": "+post.Title),
		Action: routes.PostEdit(post.Slug),
		Form:   formFromPost(post),
		Image:  post.Image,
	}))
	return nil
}

func handleUpdatePost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	requester := middleware.GetRequester(r.Context())
	slug := r.PathValue("slug")
	logging.AddToEvent(r.Context(),
		slog.String("operation", "update_post"),
		slog.String("post_slug", slug),
	)

	current, err := deps.Posts.Get(r.Context(), requester, slug)
	if errors.Is(err, services.ErrNotFound) || (err == nil && !policies.CanEditPost(requester, current)) {
		notFound(deps, w, r)
		return nil
	}
	if err != nil {
		return err
	}

	form, err := parsePostForm(r)
	if err != nil {
		return err
	}

	title := i18n.Get(r.Context()).Edit + ": " + current.Title
	formData := pages.PostFormData{Action: routes.PostEdit(current.Slug), Form: form, Image: current.Image}
	image, rejected, err := saveImage(deps, r)
	if err != nil {
		return err
	}
	if rejected != "" {
		return rerenderForm(deps, w, r, title, formData, map[string]string{"image": rejected})
	}

	post, err := deps.Posts.Update(r.Context(), requester, slug, form, image)
	if err != nil {
		discardImage(deps, r, image)
		return postFailure(deps, w, r, title, formData, err)
	}
	if image != "" && current.Image != "" && current.Image != post.Image {
		discardImage(deps, r, current.Image)
	}

	logging.AddToEvent(r.Context(), slog.String("outcome", "success"))
	flash.Add(r.Context(), deps.SessionManager, flash.Success, i18n.Get(r.Context()).PostUpdated)
	http.Redirect(w, r, routes.PostDetail(post.Slug), http.StatusSeeOther)
	return nil
}

func handleDeletePost(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	slug := r.PathValue("slug")
	logging.AddToEvent(r.Context(),
		slog.String("operation", "delete_post"),
		slog.String("post_slug", slug),
	)

	post, err := deps.Posts.Delete(r.Context(), middleware.GetRequester(r.Context()), slug)
	if errors.Is(err, services.ErrNotFound) {
		notFound(deps, w, r)
		return nil
	}
	if err != nil {
		return err
	}
	discardImage(deps, r, post.Image)

	logging.AddToEvent(r.Context(), slog.String("outcome", "success"))
	flash.Add(r.Context(), deps.SessionManager, flash.Success, i18n.Get(r.Context()).PostDeleted)
	http.Redirect(w, r, routes.Posts, http.StatusSeeOther)
	return nil
}

func parsePostForm(r *http.Request) (validator.PostForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return validator.PostForm{}, fmt.Errorf("failed to parse post form: %w", err)
	}
	draft := r.PostFormValue("draft")
	return validator.PostForm{
		Title:       r.PostFormValue("title"),
		Content:     r.PostFormValue("content"),
		PublishDate: r.PostFormValue("publish_date"),
		Draft:       draft == "true" || draft == "on" || draft == "1",
	}, nil
}

func formFromPost(p db.Post) validator.PostForm {
	return validator.PostForm{
		Title:       p.Title,
		Content:     p.Content,
		PublishDate: p.PublishDate.Format(time.DateOnly),
		Draft:       p.Draft,
	}
}

// saveImage stores the optional image field. A rejected upload (bad type,
// too large) comes back as a message for the form rather than an error.
func saveImage(deps HandlerDeps, r *http.Request) (url, rejected string, err error) {
	res, err := deps.Uploads.SaveFile(r, "image", upload.PostImageConfig)
	switch {
	case err == nil:
		logging.AddToEvent(r.Context(),
			slog.String("image_url", res.URL),
			slog.Int64("image_size", res.Size),
		)
		return res.URL, "", nil
	case upload.IsNoFile(err):
		return "", "", nil
	case upload.IsUploadError(err):
		logging.AddToEvent(r.Context(), slog.String("error_reason", "image_rejected"))
		return "", err.Error(), nil
	default:
		return "", "", fmt.Errorf("failed to store image: %w", err)
	}
}

func discardImage(deps HandlerDeps, r *http.Request, url string) {
	if url == "" {
		return
	}
	if err := deps.Uploads.DeleteURL(url); err != nil {
		logging.Get().Warn("failed to delete post image",
			slog.String("url", url),
			slog.Any("error", err),
		)
	}
}

func rerenderForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request, title string, data pages.PostFormData, errs map[string]string) error {
	logging.AddToEvent(r.Context(), slog.String("outcome", "invalid"))
	data.Chrome = chrome(deps, r, title)
	data.Errors = errs
	render(w, r, http.StatusUnprocessableEntity, pages.PostForm(data))
	return nil
}

// postFailure maps a service error onto the response: hidden or missing posts
// become 404, invalid input re-renders the form.
func postFailure(deps HandlerDeps, w http.ResponseWriter, r *http.Request, title string, data pages.PostFormData, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		notFound(deps, w, r)
		return nil
	}
	if ve, ok := services.IsValidation(err); ok {
		return rerenderForm(deps, w, r, title, data, ve.Fields)
	}
	return err
}
