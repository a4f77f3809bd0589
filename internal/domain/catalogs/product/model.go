// Package product provides the product catalog. A product carries its
// materialized stock balance; only the movement ledger mutates it.
package product

import (
	"strings"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

// Product is a sellable item tracked by the stock ledger.
type Product struct {
	ID           id.ID       `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	CategoryID   id.ID       `db:"category_id" json:"category_id"`
	Unit         string      `db:"unit" json:"unit"`
	CostPrice    types.Money `db:"cost_price" json:"cost_price"`
	SalePrice    types.Money `db:"sale_price" json:"sale_price"`
	MinStock     int64       `db:"min_stock" json:"min_stock"`
	CurrentStock int64       `db:"current_stock" json:"current_stock"`
}

// WithCategory is a product row joined with its category name for listings.
type WithCategory struct {
	Product
	CategoryName string `db:"category_name" json:"category_name"`
}

// Filter narrows product listings.
type Filter struct {
	Query      string // case-insensitive substring of name
	CategoryID *id.ID
}

// Validate checks invariants before persistence. CurrentStock is not
// validated here: creation may set an opening balance, and afterwards
// only the ledger writes it.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("product name is required")
	}
	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("product category is required")
	}
	if strings.TrimSpace(p.Unit) == "" {
		return apperror.NewValidation("product unit is required")
	}
	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative")
	}
	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative")
	}
	if p.CurrentStock < 0 {
		return apperror.NewValidation("opening stock cannot be negative")
	}
	return nil
}
