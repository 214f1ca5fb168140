package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	OrderPageSize   = 15
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ClampPage keeps page within 1 and the last page whose offset fits in an int32.
func ClampPage(page, size int) int {
	if size < 1 {
		size = 1
	}
	if maxPage := math.MaxInt32/size + 1; page > maxPage {
		return maxPage
	}
	if page < 1 {
		return 1
	}
	return page
}

// Calculate turns a 1-based page and a page size into offset and limit.
// Sizes outside 1..MaxPageSize fall back to DefaultPageSize.
func Calculate(page, size int) (offset int, limit int) {
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	page = ClampPage(page, size)
	return (page - 1) * size, size
}

// Meta is the pagination block returned next to list data.
func Meta(page, limit int, total int64) map[string]any {
	page = ClampPage(page, limit)
	offset := (page - 1) * limit
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}
