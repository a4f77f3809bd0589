package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationDefaults(t *testing.T) {
	var p PaginationRequest
	p.Defaults()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 15, p.PageSize)

	set := PaginationRequest{Page: 3, PageSize: 50}
	set.Defaults()
	assert.Equal(t, 3, set.Page)
	assert.Equal(t, 50, set.PageSize)
}

func TestPaginationOffset(t *testing.T) {
	p := PaginationRequest{Page: 1, PageSize: 15}
	assert.Equal(t, 0, p.Offset())

	p.Page = 4
	assert.Equal(t, 45, p.Offset())
}

func TestNewPaginationResponse(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		pageSize   int
		wantPages  int
	}{
		{name: "exact fit", totalItems: 30, pageSize: 15, wantPages: 2},
		{name: "partial last page", totalItems: 31, pageSize: 15, wantPages: 3},
		{name: "empty", totalItems: 0, pageSize: 15, wantPages: 0},
		{name: "single item", totalItems: 1, pageSize: 15, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPaginationResponse(1, tt.pageSize, tt.totalItems)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.totalItems, got.TotalItems)
		})
	}
}
