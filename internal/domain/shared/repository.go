package shared

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter narrows a listing query. Equals holds column/value pairs;
// repositories ignore columns they do not whitelist.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Equals   map[string]any
}

// Normalized clamps paging to 1 <= page and 1 <= page size <= MaxPageSize
func (f Filter) Normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize <= 0:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset is the number of rows skipped before the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Page is one page of a listing together with the unpaged total
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a page for a normalized filter
func NewPage[T any](items []T, total int64, f Filter) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if f.PageSize > 0 {
		pages = int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: pages,
	}
}

// MapPage converts the items of a page, keeping its paging fields
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}
