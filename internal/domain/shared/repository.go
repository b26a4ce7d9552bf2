package shared

// DefaultPageSize is the number of rows shown per listing page
const DefaultPageSize = 20

// MaxPageSize bounds client supplied page sizes
const MaxPageSize = 100

// Filter represents listing query options.
// Filters holds exact-match column filters keyed by a listing specific name.
// OrderBy names a listing specific sort key; unknown keys are ignored.
type Filter struct {
	Page     int
	PageSize int
	Search   string
	OrderBy  string
	OrderDir string
	Filters  map[string]string
}

// DefaultFilter returns a filter for the first page
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		Filters:  make(map[string]string),
	}
}

// Normalized returns a copy with page and page size forced into their valid ranges
func (f Filter) Normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset returns the row offset of the filter's page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ClampPage resolves a requested page against the row total the way a
// forgiving paginator does: pages below one become the first page and pages
// past the end become the last page. An empty result still has one page.
func ClampPage(requested int, total int64, pageSize int) int {
	pages := TotalPages(total, pageSize)
	if pages < 1 {
		pages = 1
	}
	switch {
	case requested < 1:
		return 1
	case requested > pages:
		return pages
	}
	return requested
}

// TotalPages returns the number of pages needed for total rows
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}
