package db

const DefaultPerPage = 10

// PagingParams are the resolved inputs of a page slice.
type PagingParams struct {
	Page    int
	PerPage int
}

func (p PagingParams) Offset() int {
	if p.Page < 1 {
		p.Page = 1
	}
	return (p.Page - 1) * p.Limit()
}

func (p PagingParams) Limit() int {
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	return p.PerPage
}

// Slice returns the window of items covered by p, clamped to the bounds of items.
func Slice[T any](items []T, p PagingParams) []T {
	start := min(p.Offset(), len(items))
	end := min(start+p.Limit(), len(items))
	return items[start:end]
}

// PagedResult carries one page of items and the metadata needed to navigate.
type PagedResult[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"total_items"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// TotalPages never reports fewer than one page, so an empty result still has
// a valid page 1.
func (p PagedResult[T]) TotalPages() int {
	if p.PerPage == 0 || p.TotalItems == 0 {
		return 1
	}
	return (p.TotalItems + p.PerPage - 1) / p.PerPage
}

func (p PagedResult[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages()
}

func (p PagedResult[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}
