package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain"
	"kardex/internal/domain/catalogs/product"
	"kardex/internal/infrastructure/storage/postgres"
)

var productCols = []string{
	"id", "name", "category_id", "unit",
	"cost_price", "sale_price", "min_stock", "current_stock",
}

// Compile-time checks.
var (
	_ product.Repository = (*ProductRepo)(nil)
)

// ProductRepo persists products.
type ProductRepo struct {
	txManager *postgres.TxManager
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{txManager: txManager}
}

// Create inserts a product. An unknown category surfaces as NotFound.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	sql, args, err := builder().
		Insert("product").
		Columns(productCols...).
		Values(p.ID, p.Name, p.CategoryID, p.Unit, p.CostPrice, p.SalePrice, p.MinStock, p.CurrentStock).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err, "") {
			return apperror.NewNotFound("category", p.CategoryID.String())
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update modifies a product's catalog fields. current_stock is written
// too, but the service always carries over the stored value; the ledger
// remains its only real writer.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	sql, args, err := builder().
		Update("product").
		Set("name", p.Name).
		Set("category_id", p.CategoryID).
		Set("unit", p.Unit).
		Set("cost_price", p.CostPrice).
		Set("sale_price", p.SalePrice).
		Set("min_stock", p.MinStock).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err, "") {
			return apperror.NewNotFound("category", p.CategoryID.String())
		}
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

// GetByID retrieves a product.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := builder().
		Select(productCols...).
		From("product").
		Where(squirrel.Eq{"id": productID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func joinedSelect() squirrel.SelectBuilder {
	return builder().
		Select(
			"p.id", "p.name", "p.category_id", "p.unit",
			"p.cost_price", "p.sale_price", "p.min_stock", "p.current_stock",
			"c.name AS category_name",
		).
		From("product p").
		Join("category c ON c.id = p.category_id")
}

// GetWithCategory retrieves a product joined with its category name.
func (r *ProductRepo) GetWithCategory(ctx context.Context, productID id.ID) (*product.WithCategory, error) {
	sql, args, err := joinedSelect().
		Where(squirrel.Eq{"p.id": productID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.WithCategory
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func applyFilter(q squirrel.SelectBuilder, f product.Filter) squirrel.SelectBuilder {
	if f.Query != "" {
		q = q.Where(squirrel.ILike{"p.name": "%" + f.Query + "%"})
	}
	if f.CategoryID != nil {
		q = q.Where(squirrel.Eq{"p.category_id": *f.CategoryID})
	}
	return q
}

// List retrieves all matching products ordered by name.
func (r *ProductRepo) List(ctx context.Context, f product.Filter) ([]*product.WithCategory, error) {
	sql, args, err := applyFilter(joinedSelect(), f).
		OrderBy("p.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*product.WithCategory, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// ListPaged retrieves one page of matching products plus the total count.
func (r *ProductRepo) ListPaged(ctx context.Context, f product.Filter, offset, limit int) (domain.ListResult[*product.WithCategory], error) {
	result := domain.ListResult[*product.WithCategory]{
		Limit:  limit,
		Offset: offset,
	}

	querier := r.txManager.GetQuerier(ctx)

	countQ := builder().
		Select("COUNT(*)").
		From("product p")
	countQ = applyFilter(countQ, f)
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count products: %w", err)
	}

	q := applyFilter(joinedSelect(), f).OrderBy("p.name ASC")
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

	result.Items = make([]*product.WithCategory, 0)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

// ListLowStock retrieves products at or below their minimum level.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*product.WithCategory, error) {
	sql, args, err := joinedSelect().
		Where(squirrel.Expr("p.current_stock <= p.min_stock")).
		OrderBy("p.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*product.WithCategory, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return items, nil
}

// Delete removes a product row. Movements must already be purged in the
// same transaction.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	sql, args, err := builder().
		Delete("product").
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}
