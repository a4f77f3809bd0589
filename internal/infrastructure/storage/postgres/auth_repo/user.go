// Package auth_repo provides PostgreSQL storage for user accounts.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain"
	"kardex/internal/domain/auth"
	"kardex/internal/infrastructure/storage/postgres"
)

var userCols = []string{"id", "username", "password_hash", "created_at"}

// Compile-time check.
var _ auth.Repository = (*UserRepo)(nil)

// UserRepo persists user accounts.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a user. A duplicate username becomes a Duplicate error.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	sql, args, err := builder().
		Insert("app_user").
		Columns(userCols...).
		Values(u.ID, u.Username, u.PasswordHash, u.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("user", "username", u.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": userID}, userID.String())
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username}, username)
}

func (r *UserRepo) getOne(ctx context.Context, pred squirrel.Eq, key string) (*auth.User, error) {
	sql, args, err := builder().
		Select(userCols...).
		From("app_user").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListPaged retrieves one page of users, newest first, plus the total count.
func (r *UserRepo) ListPaged(ctx context.Context, offset, limit int) (domain.ListResult[*auth.User], error) {
	result := domain.ListResult[*auth.User]{
		Limit:  limit,
		Offset: offset,
	}

	querier := r.txManager.GetQuerier(ctx)

	countSQL, countArgs, err := builder().
		Select("COUNT(*)").
		From("app_user").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count users: %w", err)
	}

	q := builder().
		Select(userCols...).
		From("app_user").
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	result.Items = make([]*auth.User, 0)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list users: %w", err)
	}
	return result, nil
}

// Delete removes a user row. Ledger rows keep their user reference, so
// an account with movements cannot be removed.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	sql, args, err := builder().
		Delete("app_user").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err, "") {
			return apperror.NewReferentialIntegrity("user", userID.String(), 1)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}
	return nil
}
