package category

import (
	"context"

	"kardex/internal/core/id"
	"kardex/internal/domain"
)

// Repository persists categories.
// Create and Update translate unique-name violations into Duplicate
// errors; Delete removes the row unconditionally (the service guards it).
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	ListPaged(ctx context.Context, offset, limit int) (domain.ListResult[*Category], error)
	Delete(ctx context.Context, categoryID id.ID) error
	CountProducts(ctx context.Context, categoryID id.ID) (int64, error)
}
