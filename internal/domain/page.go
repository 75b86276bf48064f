package domain

const (
	// DefaultPageLimit is the page size used when the client sends none.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size a client can ask for.
	MaxPageLimit = 100
)

// PaginationParams selects one page of the trip log for GET /trips.
// Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds PaginationParams from the optional page and
// limit query values. Missing or non-positive values fall back to page 1 and
// DefaultPageLimit; limits above MaxPageLimit are clamped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the index of the page's first trip in the full log.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) bounds of the page within a log of n trips.
// A page past the end yields an empty window at n.
func (p PaginationParams) Window(n int) (start, end int) {
	start = min(p.Offset(), n)
	end = min(start+p.Limit, n)
	return start, end
}
