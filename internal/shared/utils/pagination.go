package utils

import "strings"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination is the normalized page/limit pair of list endpoints.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination applies defaults: page 1, limit 20.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SortDirection maps "asc"/"desc" (any case) to SQL, defaulting to def.
func SortDirection(order, def string) string {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc":
		return "ASC"
	case "desc":
		return "DESC"
	default:
		return def
	}
}
