package routes

import "testing"

func TestPostPaths(t *testing.T) {
	if got := PostDetail("hello-world"); got != "/posts/hello-world/" {
		t.Errorf("PostDetail = %q", got)
	}
	if got := PostEdit("hello-world"); got != "/posts/hello-world/edit/" {
		t.Errorf("PostEdit = %q", got)
	}
	if got := PostDelete("hello-world"); got != "/posts/hello-world/delete/" {
		t.Errorf("PostDelete = %q", got)
	}
}

func TestMetricPath(t *testing.T) {
	tests := map[string]string{
		"/posts/":                "/posts/",
		"/posts/create/":         "/posts/create/",
		"/posts/some-post/":      "/posts/{slug}/",
		"/posts/some-post/edit/": "/posts/{slug}/edit/",
		"/posts/x/delete/":       "/posts/{slug}/delete/",
		"/posts/a/b/c/":          "other",
		"/assets/css/app.css":    "/assets/*",
		"/storage/posts/1_a.png": "/storage/*",
		"/wp-login.php":          "other",
		"/health":                "/health",
		"/swagger/index.html":    "/swagger/*",
	}
	for in, want := range tests {
		if got := MetricPath(in); got != want {
			t.Errorf("MetricPath(%q) = %q, want %q", in, got, want)
		}
	}
}
