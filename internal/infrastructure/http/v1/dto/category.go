package dto

import (
	"kardex/internal/domain/catalogs/category"
)

// CategoryRequest for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse is the category wire shape.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FromCategory converts a domain category.
func FromCategory(c *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:   c.ID.String(),
		Name: c.Name,
	}
}

// FromCategories converts a slice of domain categories.
func FromCategories(items []*category.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCategory(c))
	}
	return out
}
