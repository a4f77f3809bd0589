// Package ledger_repo provides PostgreSQL storage for the movement ledger.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain"
	"kardex/internal/domain/ledger"
	"kardex/internal/infrastructure/storage/postgres"
)

var recordCols = []string{
	"m.id", "m.type", "m.reason", "m.qty", "m.direction",
	"m.product_id", "m.user_id", "m.created_at",
	"p.name AS product_name", "p.unit AS product_unit",
	"u.username",
}

// Compile-time checks.
var _ ledger.Repository = (*MovementRepo)(nil)

// MovementRepo persists ledger rows. The table is append-only; the only
// removal path is DeleteByProduct, used by the cascading product delete.
type MovementRepo struct {
	txManager *postgres.TxManager
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert appends one movement. Foreign key failures surface as NotFound
// for the missing side, so existence is validated by the same statement
// that writes, with no check-then-act window.
func (r *MovementRepo) Insert(ctx context.Context, m *ledger.Movement) error {
	sql, args, err := builder().
		Insert("stock_movement").
		Columns("id", "type", "reason", "qty", "direction", "product_id", "user_id", "created_at").
		Values(m.ID, m.Type, m.Reason, m.Qty, m.Direction, m.ProductID, m.ActorID, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err, "stock_movement_product_id_fkey") {
			return apperror.NewNotFound("product", m.ProductID.String())
		}
		if postgres.IsForeignKeyViolation(err, "stock_movement_user_id_fkey") {
			return apperror.NewNotFound("user", m.ActorID.String())
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func recordSelect() squirrel.SelectBuilder {
	return builder().
		Select(recordCols...).
		From("stock_movement m").
		Join("product p ON p.id = m.product_id").
		Join("app_user u ON u.id = m.user_id")
}

// ApplyFilter adds the filter predicates to a movement query.
func ApplyFilter(q squirrel.SelectBuilder, f ledger.Filter) squirrel.SelectBuilder {
	if f.Type != nil {
		q = q.Where(squirrel.Eq{"m.type": *f.Type})
	}
	if f.ProductID != nil {
		q = q.Where(squirrel.Eq{"m.product_id": *f.ProductID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"m.created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"m.created_at": *f.To})
	}
	return q
}

// List retrieves all matching movements, newest first. UUIDv7 ids break
// equal-timestamp ties in insertion order.
func (r *MovementRepo) List(ctx context.Context, f ledger.Filter) ([]ledger.Record, error) {
	sql, args, err := ApplyFilter(recordSelect(), f).
		OrderBy("m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]ledger.Record, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return items, nil
}

// ListPaged retrieves one page of matching movements plus the total count.
func (r *MovementRepo) ListPaged(ctx context.Context, f ledger.Filter, offset, limit int) (domain.ListResult[ledger.Record], error) {
	result := domain.ListResult[ledger.Record]{
		Limit:  limit,
		Offset: offset,
	}

	querier := r.txManager.GetQuerier(ctx)

	countQ := ApplyFilter(builder().Select("COUNT(*)").From("stock_movement m"), f)
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count movements: %w", err)
	}

	q := ApplyFilter(recordSelect(), f).
		OrderBy("m.created_at DESC", "m.id DESC")
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

	result.Items = make([]ledger.Record, 0)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list movements: %w", err)
	}
	return result, nil
}

// DeleteByProduct removes every movement of one product and returns the
// count. Called only from the cascading product delete transaction.
func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID id.ID) (int64, error) {
	sql, args, err := builder().
		Delete("stock_movement").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete movements: %w", err)
	}
	return result.RowsAffected(), nil
}
