// Package domain provides shared list and pagination types.
package domain

import (
	"kardex/internal/core/apperror"
)

// ListResult contains paginated results.
// TotalCount is the number of rows matching the filter regardless of the
// page requested, so callers can compute page counts.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ValidatePage rejects negative paging input.
func ValidatePage(offset, limit int) error {
	if offset < 0 {
		return apperror.NewValidation("offset must not be negative").WithDetail("offset", offset)
	}
	if limit < 0 {
		return apperror.NewValidation("limit must not be negative").WithDetail("limit", limit)
	}
	return nil
}
