// Package pagination implements 1-based offset pagination: a count query
// and a page query evaluated independently, wrapped in a Page envelope with
// derived navigation fields.
package pagination

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultSize is used when the caller passes a size below 1.
	DefaultSize = 10
	// MaxSize caps the number of items a single page can request.
	MaxSize = 100
	// MaxPage keeps Offset within int for every allowed size.
	MaxPage = math.MaxInt/MaxSize + 1
)

// Page is one page of results plus the total count of the unfiltered source.
type Page[T any] struct {
	Items       []T  `json:"items"`
	PageNumber  int  `json:"page_number"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// New builds a Page and derives TotalPages, HasPrevious and HasNext.
func New[T any](items []T, pageNumber, pageSize, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := TotalPages(totalCount, pageSize)
	return Page[T]{
		Items:       items,
		PageNumber:  pageNumber,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasPrevious: pageNumber > 1,
		HasNext:     pageNumber < totalPages,
	}
}

// TotalPages is ceil(total/size). An empty source has zero pages.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset returns the number of rows to skip for a 1-based page.
func Offset(page, size int) int {
	return (page - 1) * size
}

// Normalize clamps page into [1, MaxPage] and size into [1, MaxSize],
// using DefaultSize for non-positive sizes.
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return page, size
}

// CountFunc returns the total number of rows in the source.
type CountFunc func(ctx context.Context) (int, error)

// FetchFunc returns up to limit rows starting at offset.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Query runs count and fetch for the requested page. Page number and size
// are normalized first.
func Query[T any](ctx context.Context, page, size int, count CountFunc, fetch FetchFunc[T]) (Page[T], error) {
	page, size = Normalize(page, size)

	total, err := count(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("pagination count: %w", err)
	}

	items, err := fetch(ctx, Offset(page, size), size)
	if err != nil {
		return Page[T]{}, fmt.Errorf("pagination fetch: %w", err)
	}

	return New(items, page, size, total), nil
}

// ParseQuery reads pageNumber and pageSize from the query string. Missing
// values fall back to page 1 and defaultSize; non-numeric values are an
// error; numeric values are normalized.
func ParseQuery(r *http.Request, defaultSize int) (int, int, error) {
	page, size := 1, defaultSize

	q := r.URL.Query()
	if v := q.Get("pageNumber"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("pageNumber must be an integer")
		}
		page = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("pageSize must be an integer")
		}
		size = n
	}

	page, size = Normalize(page, size)
	return page, size, nil
}
