package web

import (
	"database/sql"
	"log/slog"
	"net/http"

	_ "github.com/PauloHFS/goth-blog/docs"
	"github.com/PauloHFS/goth-blog/internal/config"
	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/flash"
	"github.com/PauloHFS/goth-blog/internal/i18n"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/markdown"
	"github.com/PauloHFS/goth-blog/internal/middleware"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/PauloHFS/goth-blog/internal/services"
	"github.com/PauloHFS/goth-blog/internal/upload"
	"github.com/PauloHFS/goth-blog/internal/view/pages"
	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"
	httpSwagger "github.com/swaggo/http-swagger"
)

type HandlerDeps struct {
	DB             *sql.DB
	Queries        *db.Queries
	Posts          *services.PostService
	SessionManager *scs.SessionManager
	Config         *config.Config
	Markdown       *markdown.Renderer
	Uploads        *upload.Store
}

// AppHandler is a handler that can fail; Handle turns the error into a 500.
type AppHandler func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error

func Handle(deps HandlerDeps, h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(deps, w, r); err != nil {
			logging.Get().Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			logging.AddToEvent(r.Context(), slog.String("outcome", "error"))

			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

func RegisterRoutes(mux *http.ServeMux, deps HandlerDeps) {
	mux.HandleFunc("GET "+routes.Login, Handle(deps, handleLoginPage))
	mux.HandleFunc("POST "+routes.Login, Handle(deps, handleLogin))
	mux.HandleFunc("POST "+routes.Logout, Handle(deps, handleLogout))

	mux.HandleFunc("GET "+routes.Posts+"{$}", Handle(deps, handleListPosts))
	mux.HandleFunc("GET "+routes.PostCreate+"{$}", Handle(deps, handleNewPost))
	mux.HandleFunc("POST "+routes.PostCreate+"{$}", Handle(deps, handleCreatePost))
	mux.HandleFunc("GET /posts/{slug}/{$}", Handle(deps, handleShowPost))
	mux.HandleFunc("GET /posts/{slug}/edit/{$}", Handle(deps, handleEditPost))
	mux.HandleFunc("POST /posts/{slug}/edit/{$}", Handle(deps, handleUpdatePost))
	mux.HandleFunc("POST /posts/{slug}/delete/{$}", Handle(deps, handleDeletePost))

	mux.Handle("GET "+routes.APIPosts,
		middleware.CORS(middleware.APICORSConfig(deps.Config.CORSOrigins))(Handle(deps, handleAPIPosts)))
	mux.Handle("OPTIONS "+routes.APIPosts,
		middleware.CORS(middleware.APICORSConfig(deps.Config.CORSOrigins))(http.NotFoundHandler()))

	mux.Handle("GET "+routes.Swagger, httpSwagger.WrapHandler)

	mux.HandleFunc("GET "+routes.Home+"{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, routes.Posts, http.StatusFound)
	})
	mux.HandleFunc("/", Handle(deps, func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
		notFound(deps, w, r)
		return nil
	}))
}

// chrome builds the shared page data and consumes the pending flash message.
func chrome(deps HandlerDeps, r *http.Request, title string) pages.Chrome {
	c := pages.Chrome{
		Title:     title,
		Requester: middleware.GetRequester(r.Context()),
	}
	if msg, ok := flash.Pop(r.Context(), deps.SessionManager); ok {
		c.Flash = &msg
	}
	return c
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func notFound(deps HandlerDeps, w http.ResponseWriter, r *http.Request) {
	logging.AddToEvent(r.Context(), slog.String("outcome", "not_found"))
	render(w, r, http.StatusNotFound, pages.NotFound(chrome(deps, r, i18n.Get(r.Context()).NotFound)))
}
