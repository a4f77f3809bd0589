package product

import (
	"context"

	"kardex/internal/core/id"
	"kardex/internal/domain"
)

// Repository persists products. Create/Update translate FK violations
// on category_id into NotFound("category").
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetWithCategory(ctx context.Context, productID id.ID) (*WithCategory, error)
	List(ctx context.Context, f Filter) ([]*WithCategory, error)
	ListPaged(ctx context.Context, f Filter, offset, limit int) (domain.ListResult[*WithCategory], error)
	ListLowStock(ctx context.Context) ([]*WithCategory, error)
	Delete(ctx context.Context, productID id.ID) error
}

// MovementPurger removes a product's ledger rows. The ledger itself is
// append-only; this is the one sanctioned bulk removal, used by the
// cascading product delete.
type MovementPurger interface {
	DeleteByProduct(ctx context.Context, productID id.ID) (int64, error)
}
