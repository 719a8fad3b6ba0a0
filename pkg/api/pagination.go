// Package api holds request and response shapes shared by the HTTP handlers.
package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest represents pagination request parameters
type PageRequest struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"pageSize"`
}

// PageResponse represents a paginated response
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int64 `json:"page"`
	PageSize   int64 `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPageResponse creates a new paginated response
func NewPageResponse[T any](data []T, page, pageSize, totalItems int64) PageResponse[T] {
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if data == nil {
		data = []T{}
	}

	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Paginate slices an in-memory result set. A page past the end is empty.
func Paginate[T any](items []T, req PageRequest) PageResponse[T] {
	total := int64(len(items))
	start := req.GetOffset()
	if start > total {
		start = total
	}
	end := start + req.GetLimit()
	if end > total {
		end = total
	}
	return NewPageResponse(items[start:end], req.Page, req.PageSize, total)
}

// ParsePagination reads page and pageSize, clamping them to sane bounds
func ParsePagination(c *gin.Context) PageRequest {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", strconv.Itoa(DefaultPageSize)), 10, 64)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return PageRequest{Page: page, PageSize: pageSize}
}

// GetOffset calculates the offset of the first row on the page
func (p PageRequest) GetOffset() int64 {
	return (p.Page - 1) * p.PageSize
}

// GetLimit returns the page size
func (p PageRequest) GetLimit() int64 {
	return p.PageSize
}

// FilterRequest represents common filter parameters
type FilterRequest struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// ParseFilter reads search, dateFrom and dateTo. Dates are YYYY-MM-DD; dateTo
// is inclusive. Unparseable dates are ignored.
func ParseFilter(c *gin.Context) FilterRequest {
	filter := FilterRequest{Search: strings.TrimSpace(c.Query("search"))}
	if from, err := time.Parse(time.DateOnly, c.Query("dateFrom")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse(time.DateOnly, c.Query("dateTo")); err == nil {
		end := to.AddDate(0, 0, 1)
		filter.DateTo = &end
	}
	return filter
}

// MatchesSearch reports whether any field contains the search term, ignoring case
func (f FilterRequest) MatchesSearch(fields ...string) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// MatchesDate reports whether t falls inside the requested range
func (f FilterRequest) MatchesDate(t time.Time) bool {
	if f.DateFrom != nil && t.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !t.Before(*f.DateTo) {
		return false
	}
	return true
}

// Filter keeps the items for which keep returns true
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
