package view

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// PageParam is the query parameter list pages read the requested page from.
const PageParam = "page"

// ResolvePage turns a raw ?page= value into a page number within
// [1, totalPages]. Missing or malformed values (non-numeric, zero, negative)
// mean page 1; values past the end, even beyond the int range, mean the last
// page.
func ResolvePage(raw string, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	raw = strings.TrimSpace(raw)
	page, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return totalPages
	}
	if err != nil || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

type Pagination struct {
	CurrentPage int
	TotalItems  int
	PerPage     int
}

func NewPagination(page, total, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return Pagination{
		CurrentPage: page,
		TotalItems:  total,
		PerPage:     perPage,
	}
}

// TotalPages is at least 1: an empty listing still renders page 1.
func (p Pagination) TotalPages() int {
	if p.TotalItems <= 0 {
		return 1
	}
	return (p.TotalItems + p.PerPage - 1) / p.PerPage
}

func (p Pagination) HasPrevious() bool {
	return p.CurrentPage > 1
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages()
}

func (p Pagination) PreviousPage() int {
	if p.HasPrevious() {
		return p.CurrentPage - 1
	}
	return 1
}

func (p Pagination) NextPage() int {
	if p.HasNext() {
		return p.CurrentPage + 1
	}
	return p.TotalPages()
}

// PageURL links to page on path, keeping the other query parameters (the
// search term in particular).
func PageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set(PageParam, strconv.Itoa(page))
	return path + "?" + q.Encode()
}
