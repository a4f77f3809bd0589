// Package report_repo provides PostgreSQL report data sources.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/types"
	"kardex/internal/domain/ledger"
	"kardex/internal/domain/reports"
	"kardex/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo reads report source data.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// SaleLines returns OUT/SALE movements joined with current product
// prices. Aggregation happens in the domain layer so the window and
// all-time views share one code path.
func (r *ReportRepo) SaleLines(ctx context.Context, from, to *time.Time) ([]reports.SaleLine, error) {
	q := builder().
		Select(
			"m.product_id",
			"p.name AS product_name",
			"m.qty",
			"p.sale_price",
			"p.cost_price",
		).
		From("stock_movement m").
		Join("product p ON p.id = m.product_id").
		Where(squirrel.Eq{"m.type": ledger.TypeOut}).
		Where(squirrel.Eq{"m.reason": ledger.ReasonSale}).
		OrderBy("m.created_at ASC")
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"m.created_at": *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"m.created_at": *to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]reports.SaleLine, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("query sale lines: %w", err)
	}
	return lines, nil
}

// CountProducts counts catalog products.
func (r *ReportRepo) CountProducts(ctx context.Context) (int64, error) {
	return r.scanCount(ctx, builder().Select("COUNT(*)").From("product"))
}

// CountLowStock counts products at or below their minimum level.
func (r *ReportRepo) CountLowStock(ctx context.Context) (int64, error) {
	return r.scanCount(ctx, builder().
		Select("COUNT(*)").
		From("product").
		Where(squirrel.Expr("current_stock <= min_stock")))
}

// CountOutMovements counts outbound ledger rows.
func (r *ReportRepo) CountOutMovements(ctx context.Context) (int64, error) {
	return r.scanCount(ctx, builder().
		Select("COUNT(*)").
		From("stock_movement").
		Where(squirrel.Eq{"type": ledger.TypeOut}))
}

// InventoryValue sums current_stock * cost_price over the catalog.
func (r *ReportRepo) InventoryValue(ctx context.Context) (types.Money, error) {
	sql, args, err := builder().
		Select("COALESCE(SUM(current_stock * cost_price), 0)").
		From("product").
		ToSql()
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("build query: %w", err)
	}

	var value types.Money
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&value); err != nil {
		return types.ZeroMoney(), fmt.Errorf("inventory value: %w", err)
	}
	return value, nil
}

func (r *ReportRepo) scanCount(ctx context.Context, q squirrel.SelectBuilder) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}
