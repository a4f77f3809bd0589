// Package catalog_repo provides PostgreSQL implementations for the
// catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain"
	"kardex/internal/domain/catalogs/category"
	"kardex/internal/infrastructure/storage/postgres"
)

var categoryCols = []string{"id", "name"}

// Compile-time check.
var _ category.Repository = (*CategoryRepo)(nil)

// CategoryRepo persists categories.
type CategoryRepo struct {
	txManager *postgres.TxManager
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a category. A duplicate name becomes a Duplicate error.
func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	sql, args, err := builder().
		Insert("category").
		Columns("id", "name").
		Values(c.ID, c.Name).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Update renames a category.
func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	sql, args, err := builder().
		Update("category").
		Set("name", c.Name).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("category", "name", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("category", c.ID.String())
	}
	return nil
}

// GetByID retrieves a category.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	sql, args, err := builder().
		Select(categoryCols...).
		From("category").
		Where(squirrel.Eq{"id": categoryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c category.Category
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", categoryID.String())
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List retrieves all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]*category.Category, error) {
	sql, args, err := builder().
		Select(categoryCols...).
		From("category").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*category.Category, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// ListPaged retrieves one page of categories plus the total count.
func (r *CategoryRepo) ListPaged(ctx context.Context, offset, limit int) (domain.ListResult[*category.Category], error) {
	result := domain.ListResult[*category.Category]{
		Limit:  limit,
		Offset: offset,
	}

	querier := r.txManager.GetQuerier(ctx)

	countSQL, countArgs, err := builder().
		Select("COUNT(*)").
		From("category").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count categories: %w", err)
	}

	q := builder().
		Select(categoryCols...).
		From("category").
		OrderBy("name ASC")
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

	result.Items = make([]*category.Category, 0)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list categories: %w", err)
	}
	return result, nil
}

// Delete removes a category row.
func (r *CategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	sql, args, err := builder().
		Delete("category").
		Where(squirrel.Eq{"id": categoryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		// Race between the dependents check and the delete; surface it
		// the same way as the guarded path.
		if postgres.IsForeignKeyViolation(err, "") {
			return apperror.NewReferentialIntegrity("category", categoryID.String(), 1)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("category", categoryID.String())
	}
	return nil
}

// CountProducts counts products referencing the category.
func (r *CategoryRepo) CountProducts(ctx context.Context, categoryID id.ID) (int64, error) {
	sql, args, err := builder().
		Select("COUNT(*)").
		From("product").
		Where(squirrel.Eq{"category_id": categoryID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}
