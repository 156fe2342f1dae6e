package helpers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yigit/qnaboard/internal/pkg/apperrors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
	MaxPage         = math.MaxInt32
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
// Out of range values are clamped so the offset is never negative. An offset that does not fit
// a Postgres bigint saturates at math.MaxInt64, which is past the end of any table.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	skipped := uint64(page - 1)
	if skipped > math.MaxInt64/uint64(size) {
		return math.MaxInt64, uint64(size)
	}
	return skipped * uint64(size), uint64(size)
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	// (page-1)*size would overflow, and every such page is past the end
	if page-1 > (math.MaxInt-size)/size {
		return totalItems, totalItems
	}

	start = (page - 1) * size
	end = start + size

	if start >= totalItems {
		return totalItems, totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return start, end
}

// Paginate returns one page of an already filtered and sorted candidate list together with
// the size of the whole list. A page past the end is empty, not an error.
func Paginate[T any](items []T, page, perPage int) ([]T, int) {
	total := len(items)
	start, end := CalculateSliceIndices(page, perPage, total)
	return items[start:end], total
}

// TotalPages returns how many pages of the given size are needed for total items.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ParsePageParam parses a 1-based page number from a query value.
// An empty value yields def; anything that is not an integer in [1, MaxPage] is rejected.
func ParsePageParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: page must be a number, got %q", apperrors.ErrInvalidPagination, raw)
	}
	if page < 1 {
		return 0, fmt.Errorf("%w: page must be at least 1", apperrors.ErrInvalidPagination)
	}
	if page > MaxPage {
		return 0, fmt.Errorf("%w: page must be at most %d", apperrors.ErrInvalidPagination, MaxPage)
	}
	return page, nil
}

// ParsePerPageParam parses a page size. Values above max are clamped to max.
func ParsePerPageParam(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: perPage must be a number, got %q", apperrors.ErrInvalidPagination, raw)
	}
	if size < 1 {
		return 0, fmt.Errorf("%w: perPage must be at least 1", apperrors.ErrInvalidPagination)
	}
	if max > 0 && size > max {
		size = max
	}
	return size, nil
}
