package entities

import "math"

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// PagedResult is one page of an in-memory result set
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Paginate slices all into the requested page. Non-positive page numbers
// and sizes fall back to the defaults; a page past the end is empty.
func Paginate[T any](all []T, pageNumber, pageSize int) PagedResult[T] {
	if pageNumber < 1 {
		pageNumber = DefaultPageNumber
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(all)
	items := make([]T, 0)
	// Compare page indexes, not offsets, so huge inputs cannot overflow
	if total > 0 && pageNumber-1 <= (total-1)/pageSize {
		start := (pageNumber - 1) * pageSize
		end := total
		if pageSize < total-start {
			end = start + pageSize
		}
		items = append(items, all[start:end]...)
	}

	return PagedResult[T]{
		Items:      items,
		TotalCount: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}
