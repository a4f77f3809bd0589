package auth

import (
	"context"

	"kardex/internal/core/id"
	"kardex/internal/domain"
)

// Repository persists user accounts. Create translates unique-username
// violations into Duplicate errors.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListPaged(ctx context.Context, offset, limit int) (domain.ListResult[*User], error)
	Delete(ctx context.Context, userID id.ID) error
}
