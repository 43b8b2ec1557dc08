package routes

import (
	"net/url"
	"strings"
)

const (
	Home       = "/"
	Login      = "/login"
	Logout     = "/logout"
	Posts      = "/posts/"
	PostCreate = "/posts/create/"
	APIPosts   = "/api/posts"
	Assets     = "/assets/"
	Storage    = "/storage/"
	Health     = "/health"
	Metrics    = "/metrics"
	Swagger    = "/swagger/"
)

func PostDetail(slug string) string {
	return Posts + url.PathEscape(slug) + "/"
}

func PostEdit(slug string) string {
	return PostDetail(slug) + "edit/"
}

func PostDelete(slug string) string {
	return PostDetail(slug) + "delete/"
}

// MetricPath collapses a request path onto its route pattern so metric
// labels stay bounded.
func MetricPath(path string) string {
	switch path {
	case Home, Login, Logout, Posts, PostCreate, APIPosts, Health, Metrics:
		return path
	}

	switch {
	case strings.HasPrefix(path, Assets):
		return Assets + "*"
	case strings.HasPrefix(path, Storage):
		return Storage + "*"
	case strings.HasPrefix(path, Swagger):
		return Swagger + "*"
	case strings.HasPrefix(path, Posts):
		rest := strings.Trim(strings.TrimPrefix(path, Posts), "/")
		parts := strings.Split(rest, "/")
		switch {
		case len(parts) == 1:
			return Posts + "{slug}/"
		case len(parts) == 2 && (parts[1] == "edit" || parts[1] == "delete"):
			return Posts + "{slug}/" + parts[1] + "/"
		}
	}
	return "other"
}
