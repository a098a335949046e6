package store

// DefaultPageSize is the server-controlled page size for listings.
// Clients cannot override it.
const DefaultPageSize = 10

// PageRequest describes which slice of a listing to return and how to order it.
type PageRequest struct {
	// Index is the zero-based page index. Implementations clamp negative
	// values to zero.
	Index int

	// Size is the number of items per page. Implementations fall back to
	// DefaultPageSize when zero or negative.
	Size int

	// SortField names the column to order by. Implementations are
	// responsible for rejecting or ignoring unknown fields.
	SortField string

	// SortAscending orders ascending when true, descending otherwise.
	SortAscending bool
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Index      int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewPage assembles a Page from items and the request that produced them.
func NewPage[T any](items []T, req PageRequest, totalCount int64) *Page[T] {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := int(totalCount) / size
	if int(totalCount)%size != 0 {
		totalPages++
	}

	return &Page[T]{
		Items:      items,
		Index:      req.Index,
		Size:       size,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
