package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain/ledger"
	"kardex/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ ledger.ProductGateway = (*StockGateway)(nil)

// StockGateway is the ledger's narrow view of the product table: read
// the balance under a row lock, write it back. Must be used inside a
// transaction; outside one the lock would be released immediately.
type StockGateway struct {
	txManager *postgres.TxManager
}

// NewStockGateway creates a new stock gateway.
func NewStockGateway(txManager *postgres.TxManager) *StockGateway {
	return &StockGateway{txManager: txManager}
}

// GetStockForUpdate reads the product balance and locks its row for the
// remainder of the transaction, serializing concurrent writers.
func (g *StockGateway) GetStockForUpdate(ctx context.Context, productID id.ID) (int64, error) {
	sql, args, err := builder().
		Select("current_stock").
		From("product").
		Where(squirrel.Eq{"id": productID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var balance int64
	if err := g.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("product", productID.String())
		}
		return 0, fmt.Errorf("get stock for update: %w", err)
	}
	return balance, nil
}

// SetStock writes the product balance under the lock taken by
// GetStockForUpdate.
func (g *StockGateway) SetStock(ctx context.Context, productID id.ID, balance int64) error {
	sql, args, err := builder().
		Update("product").
		Set("current_stock", balance).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := g.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}
