package ledger

import (
	"context"

	"kardex/internal/core/id"
	"kardex/internal/domain"
)

// Repository persists and queries the movement history.
// Insert translates foreign-key failures into NotFound errors for the
// product or actor, so existence is checked inside the transaction
// rather than beforehand.
type Repository interface {
	Insert(ctx context.Context, m *Movement) error
	List(ctx context.Context, f Filter) ([]Record, error)
	ListPaged(ctx context.Context, f Filter, offset, limit int) (domain.ListResult[Record], error)
}

// ProductGateway is the ledger's narrow view of product storage.
// GetStockForUpdate must lock the product row for the remainder of the
// transaction; SetStock is the only sanctioned write of current_stock.
type ProductGateway interface {
	GetStockForUpdate(ctx context.Context, productID id.ID) (int64, error)
	SetStock(ctx context.Context, productID id.ID, balance int64) error
}
