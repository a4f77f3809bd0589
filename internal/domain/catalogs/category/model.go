// Package category provides the product category catalog.
package category

import (
	"strings"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
)

// Category groups products. Name is unique across the catalog.
type Category struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Validate checks invariants before persistence.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("category name is required")
	}
	return nil
}
