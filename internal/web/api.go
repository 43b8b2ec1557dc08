package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/markdown"
	"github.com/PauloHFS/goth-blog/internal/middleware"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/PauloHFS/goth-blog/internal/view"
)

type apiPost struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Author      string `json:"author"`
	Image       string `json:"image,omitempty"`
	Draft       bool   `json:"draft"`
	PublishDate string `json:"publish_date"`
	URL         string `json:"url"`
}

type apiPostList struct {
	Items       []apiPost `json:"items"`
	TotalItems  int       `json:"total_items"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	PerPage     int       `json:"per_page"`
}

// handleAPIPosts is the JSON rendition of the list page. It follows the same
// policy, so anonymous callers get 401.
//
// @Summary List posts
// @Tags posts
// @Produce json
// @Param q query string false "Case-insensitive search over title, content and author first name"
// @Param page query string false "1-based page"
// @Success 200 {object} apiPostList
// @Failure 401 {object} map[string]string
// @Router /api/posts [get]
func handleAPIPosts(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	requester := middleware.GetRequester(r.Context())
	logging.AddToEvent(r.Context(), slog.String("operation", "api_list_posts"))

	result, err := deps.Posts.List(r.Context(), requester, r.URL.Query().Get(SearchParam), r.URL.Query().Get(view.PageParam))
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if result == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
	}

	out := apiPostList{
		Items:       make([]apiPost, 0, len(result.Items)),
		TotalItems:  result.TotalItems,
		TotalPages:  result.TotalPages(),
		CurrentPage: result.CurrentPage,
		PerPage:     result.PerPage,
	}
	for _, p := range result.Items {
		out.Items = append(out.Items, toAPIPost(p))
	}
	return json.NewEncoder(w).Encode(out)
}

func toAPIPost(p db.Post) apiPost {
	return apiPost{
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     markdown.Excerpt(p.Content, 240),
		Author:      p.AuthorFirstName,
		Image:       p.Image,
		Draft:       p.Draft,
		PublishDate: p.PublishDate.Format(time.DateOnly),
		URL:         routes.PostDetail(p.Slug),
	}
}
