package listing

import (
	"fmt"

	"github.com/samber/lo"

	"logistics-console/internal/apperr"
)

// PageSizes are the selectable page sizes.
var PageSizes = []int{5, 10, 20, 50, 100}

// DefaultPageSize is used until the user picks another size.
const DefaultPageSize = 10

// ValidatePageSize rejects sizes outside PageSizes.
func ValidatePageSize(n int) error {
	if !lo.Contains(PageSizes, n) {
		return fmt.Errorf("%w: page size %d (allowed %v)", apperr.ErrInvalid, n, PageSizes)
	}
	return nil
}

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Paginate slices items into the requested page. The page number is clamped
// to [1, TotalPages]; an empty collection yields page 1 of 0.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := min(start+size, total)
	var out []T
	if start < end {
		out = items[start:end:end]
	}
	return Page[T]{Items: out, Number: page, Size: size, TotalItems: total, TotalPages: pages}
}
