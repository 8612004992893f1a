package model

// Page is one page of a paginated list response
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Normalize guarantees a non-nil Content slice so callers can range over an
// out-of-range page without special cases.
func (p *Page[T]) Normalize() {
	if p.Content == nil {
		p.Content = []T{}
	}
	if p.TotalPages < 0 {
		p.TotalPages = 0
	}
}

// HasPrevious reports whether a page before Number exists
func (p Page[T]) HasPrevious() bool {
	return p.Number > 0
}

// HasNext reports whether a page after Number exists
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages-1
}
