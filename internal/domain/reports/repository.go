package reports

import (
	"context"
	"time"

	"kardex/internal/core/types"
)

// Repository reads report source data.
type Repository interface {
	// SaleLines returns OUT/SALE movements joined with current product
	// prices. Nil bounds mean all time.
	SaleLines(ctx context.Context, from, to *time.Time) ([]SaleLine, error)

	// Dashboard counters.
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	InventoryValue(ctx context.Context) (types.Money, error)
	CountOutMovements(ctx context.Context) (int64, error)
}
