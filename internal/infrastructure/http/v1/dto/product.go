package dto

import (
	"kardex/internal/domain/catalogs/product"
)

// ProductRequest for creating or updating a product. Prices travel as
// strings to preserve decimal precision. InitialStock is honored only
// on create; updates never touch the balance.
type ProductRequest struct {
	Name         string `json:"name" binding:"required"`
	CategoryID   string `json:"categoryId" binding:"required,uuid"`
	Unit         string `json:"unit" binding:"required"`
	CostPrice    string `json:"costPrice" binding:"required"`
	SalePrice    string `json:"salePrice" binding:"required"`
	MinStock     int64  `json:"minStock" binding:"omitempty,min=0"`
	InitialStock int64  `json:"initialStock" binding:"omitempty,min=0"`
}

// ProductFilterRequest narrows product listings.
type ProductFilterRequest struct {
	PaginationRequest
	Query      string `form:"q"`
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
}

// ProductResponse is the product wire shape.
type ProductResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName,omitempty"`
	Unit         string `json:"unit"`
	CostPrice    string `json:"costPrice"`
	SalePrice    string `json:"salePrice"`
	MinStock     int64  `json:"minStock"`
	CurrentStock int64  `json:"currentStock"`
	LowStock     bool   `json:"lowStock"`
}

// FromProduct converts a domain product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		CategoryID:   p.CategoryID.String(),
		Unit:         p.Unit,
		CostPrice:    p.CostPrice.String(),
		SalePrice:    p.SalePrice.String(),
		MinStock:     p.MinStock,
		CurrentStock: p.CurrentStock,
		LowStock:     p.CurrentStock <= p.MinStock,
	}
}

// FromProductWithCategory converts a joined product row.
func FromProductWithCategory(p *product.WithCategory) ProductResponse {
	resp := FromProduct(&p.Product)
	resp.CategoryName = p.CategoryName
	return resp
}

// FromProductsWithCategory converts a slice of joined product rows.
func FromProductsWithCategory(items []*product.WithCategory) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProductWithCategory(p))
	}
	return out
}
