package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/policies"
)

var (
	today  = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	admin  = policies.Requester{UserID: 1, IsAuthenticated: true, IsStaff: true, IsSuperuser: true}
	staff  = policies.Requester{UserID: 2, IsAuthenticated: true, IsStaff: true}
	super  = policies.Requester{UserID: 3, IsAuthenticated: true, IsSuperuser: true}
	reader = policies.Requester{UserID: 4, IsAuthenticated: true}
	nobody = policies.Requester{}
)

func post(id int64, title string, draft bool, daysFromToday int) db.Post {
	return db.Post{
		ID:              id,
		Slug:            fmt.Sprintf("post-%d", id),
		Title:           title,
		Content:         "body of " + title,
		Draft:           draft,
		PublishDate:     today.AddDate(0, 0, daysFromToday),
		AuthorFirstName: "Ana",
	}
}

// fixture has 3 public posts, 1 draft and 1 scheduled post.
func fixture() []db.Post {
	return []db.Post{
		post(1, "Go generics", false, -20),
		post(2, "Draft about Rust", true, -5),
		post(3, "Scheduled launch", false, 3),
		post(4, "Testing in Go", false, -5),
		post(5, "Today news", false, 0),
	}
}

func ids(posts []db.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestListPosts_NonElevatedNeverSeesHiddenPosts(t *testing.T) {
	for _, r := range []policies.Requester{staff, super, reader} {
		for page := 1; page <= 3; page++ {
			res := ListPosts(r, fixture(), "", fmt.Sprint(page), 2, today)
			for _, p := range res.Items {
				if p.Draft || p.PublishDate.After(today) {
					t.Errorf("requester %d page %d got hidden post %d", r.UserID, page, p.ID)
				}
			}
			if res.TotalItems != 3 {
				t.Errorf("requester %d: TotalItems = %d, want 3", r.UserID, res.TotalItems)
			}
		}
	}
}

func TestListPosts_ElevatedSeesEverythingAcrossPages(t *testing.T) {
	var got []int64
	first := ListPosts(admin, fixture(), "", "1", 2, today)
	for page := 1; page <= first.TotalPages(); page++ {
		got = append(got, ids(ListPosts(admin, fixture(), "", fmt.Sprint(page), 2, today).Items)...)
	}
	want := []int64{3, 5, 4, 2, 1}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestListPosts_Ordering(t *testing.T) {
	res := ListPosts(reader, fixture(), "", "", 10, today)
	// 4 and 2 share a date; 2 is a draft so only 4 shows, after today's post.
	want := []int64{5, 4, 1}
	if fmt.Sprint(ids(res.Items)) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", ids(res.Items), want)
	}
}

func TestListPosts_Search(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"Title any case", "TESTING", []int64{4}},
		{"Content substring", "body of go gen", []int64{1}},
		{"Author first name", "ana", []int64{5, 4, 1}},
		{"Surrounding whitespace", "  generics ", []int64{1}},
		{"No match", "haskell", []int64{}},
		{"Hidden posts not searchable", "rust", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ListPosts(reader, fixture(), tt.query, "", 10, today)
			if fmt.Sprint(ids(res.Items)) != fmt.Sprint(tt.want) {
				t.Errorf("ids = %v, want %v", ids(res.Items), tt.want)
			}
		})
	}
}

func TestSearchPosts_Dedup(t *testing.T) {
	p := post(7, "Go go go", false, 0)
	p.Content = "go"
	got := SearchPosts([]db.Post{p, p}, "GO")
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestListPosts_PageFallback(t *testing.T) {
	tests := []struct {
		raw      string
		wantPage int
	}{
		{"", 1},
		{"abc", 1},
		{"1", 1},
		{"0", 1},
		{"-4", 1},
		{"2", 2},
		{"3", 3},
		{"9999", 3},
		{"99999999999999999999", 3},
		{"-99999999999999999999", 1},
	}
	for _, tt := range tests {
		t.Run("page="+tt.raw, func(t *testing.T) {
			res := ListPosts(admin, fixture(), "", tt.raw, 2, today)
			if res.CurrentPage != tt.wantPage {
				t.Errorf("CurrentPage = %d, want %d", res.CurrentPage, tt.wantPage)
			}
			if len(res.Items) == 0 {
				t.Error("fallback page is empty")
			}
		})
	}

	abc := ListPosts(admin, fixture(), "", "abc", 2, today)
	one := ListPosts(admin, fixture(), "", "1", 2, today)
	if fmt.Sprint(ids(abc.Items)) != fmt.Sprint(ids(one.Items)) {
		t.Error(`page "abc" differs from page "1"`)
	}
}

func TestListPosts_EmptyResultIsPageOne(t *testing.T) {
	res := ListPosts(reader, nil, "", "5", 10, today)
	if res == nil || res.CurrentPage != 1 || res.TotalPages() != 1 || len(res.Items) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestListPosts_AnonymousGetsNothing(t *testing.T) {
	if res := ListPosts(nobody, fixture(), "", "1", 10, today); res != nil {
		t.Errorf("anonymous got %+v", res)
	}
}

func TestListPosts_DefaultPageSize(t *testing.T) {
	var posts []db.Post
	for i := int64(1); i <= 25; i++ {
		posts = append(posts, post(i, "p", false, -1))
	}
	res := ListPosts(reader, posts, "", "", 0, today)
	if len(res.Items) != db.DefaultPerPage || res.TotalPages() != 3 {
		t.Errorf("items = %d, pages = %d", len(res.Items), res.TotalPages())
	}
}

func TestVisiblePosts_DoesNotAliasInput(t *testing.T) {
	in := fixture()
	out := VisiblePosts(admin, in, today)
	SortPosts(out)
	if in[0].ID != 1 {
		t.Error("sorting the visible set reordered the caller's slice")
	}
}
