// Package reports provides sales and inventory reporting.
package reports

import (
	"time"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

// SaleLine is one SALE outbound movement joined with the product's
// current prices. Reports price historical sales at today's prices;
// a documented simplification of this system.
type SaleLine struct {
	ProductID   id.ID       `db:"product_id"`
	ProductName string      `db:"product_name"`
	Qty         int64       `db:"qty"`
	SalePrice   types.Money `db:"sale_price"`
	CostPrice   types.Money `db:"cost_price"`
}

// Summary aggregates sale lines into the headline figures.
type Summary struct {
	Revenue       types.Money `json:"revenue"`
	Cost          types.Money `json:"cost"`
	Profit        types.Money `json:"profit"`
	MarginPercent types.Money `json:"margin_percent"`
	UnitsSold     int64       `json:"units_sold"`
	Transactions  int64       `json:"transactions"`
}

// ProductSales is one row of the top-products ranking.
type ProductSales struct {
	ProductID   id.ID       `json:"product_id"`
	ProductName string      `json:"product_name"`
	UnitsSold   int64       `json:"units_sold"`
	Revenue     types.Money `json:"revenue"`
	Profit      types.Money `json:"profit"`
}

// SalesReport is the bounded-window report with an all-time comparison.
type SalesReport struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Period      Summary        `json:"period"`
	AllTime     Summary        `json:"all_time"`
	TopProducts []ProductSales `json:"top_products"`
}

// Dashboard is the landing-page snapshot.
type Dashboard struct {
	TotalProducts  int64       `json:"total_products"`
	LowStockCount  int64       `json:"low_stock_count"`
	InventoryValue types.Money `json:"inventory_value"`
	OutMovements   int64       `json:"out_movements"`
}
