package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when no limit is supplied
	DefaultPageSize = 50
	// MaxPageSize is the largest accepted limit
	MaxPageSize = 100

	// CursorParam is the query parameter carrying the pagination cursor
	CursorParam = "lastEvaluatedKey"
	// LimitParam is the query parameter carrying the page size
	LimitParam = "limit"
)

// PageParams represents pagination parameters of a list request
type PageParams struct {
	Limit  int32
	Cursor string
}

// ExtractPageParams extracts pagination parameters from request
func ExtractPageParams(r *http.Request) (PageParams, error) {
	params := PageParams{Limit: DefaultPageSize}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get(LimitParam)); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxPageSize {
			return params, fmt.Errorf("%s must be an integer between 1 and %d", LimitParam, MaxPageSize)
		}
		params.Limit = int32(limit)
	}

	params.Cursor = query.Get(CursorParam)
	return params, nil
}

// PaginationInfo describes how to fetch the next page
type PaginationInfo struct {
	LastEvaluatedKey string `json:"lastEvaluatedKey"`
	HasMoreItems     bool   `json:"hasMoreItems"`
}

// PaginatedResult represents a page of items
type PaginatedResult struct {
	Items      interface{}     `json:"items"`
	Count      int             `json:"count"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// NewPaginatedResult creates a page; nextCursor is empty on the last page
func NewPaginatedResult(items interface{}, count int, nextCursor string) *PaginatedResult {
	result := &PaginatedResult{
		Items: items,
		Count: count,
	}
	if nextCursor != "" {
		result.Pagination = &PaginationInfo{
			LastEvaluatedKey: nextCursor,
			HasMoreItems:     true,
		}
	}
	return result
}
