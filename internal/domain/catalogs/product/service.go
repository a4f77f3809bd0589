package product

import (
	"context"

	"kardex/internal/core/id"
	"kardex/internal/core/tx"
	"kardex/internal/domain"
	"kardex/internal/domain/audit"
	"kardex/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo      Repository
	movements MovementPurger
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new product service.
func NewService(repo Repository, movements MovementPurger, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		movements: movements,
		txManager: txManager,
		audit:     recorder,
	}
}

// Create inserts a new product, optionally with an opening balance.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if id.IsNil(p.ID) {
		p.ID = id.New()
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, "product", p.ID, audit.ActionCreate, snapshot(p))
	})
}

// Update modifies catalog fields. The stored stock balance is preserved:
// only the movement ledger writes current_stock.
func (s *Service) Update(ctx context.Context, p *Product) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		p.CurrentStock = prev.CurrentStock
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, "product", p.ID, audit.ActionUpdate, audit.Diff(snapshot(prev), snapshot(p)))
	})
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// GetWithCategory retrieves a product joined with its category name.
func (s *Service) GetWithCategory(ctx context.Context, productID id.ID) (*WithCategory, error) {
	return s.repo.GetWithCategory(ctx, productID)
}

// List returns all products matching the filter, ordered by name.
func (s *Service) List(ctx context.Context, f Filter) ([]*WithCategory, error) {
	return s.repo.List(ctx, f)
}

// ListPaged returns one page of matching products plus the total count.
func (s *Service) ListPaged(ctx context.Context, f Filter, offset, limit int) (domain.ListResult[*WithCategory], error) {
	if err := domain.ValidatePage(offset, limit); err != nil {
		return domain.ListResult[*WithCategory]{}, err
	}
	return s.repo.ListPaged(ctx, f, offset, limit)
}

// ListLowStock returns products at or below their minimum stock level.
func (s *Service) ListLowStock(ctx context.Context) ([]*WithCategory, error) {
	return s.repo.ListLowStock(ctx)
}

// Delete removes a product and all of its movements in one transaction.
// Either both disappear or neither does.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, productID); err != nil {
			return err
		}
		purged, err := s.movements.DeleteByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, productID); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, "product", productID, audit.ActionDelete, nil); err != nil {
			return err
		}
		logger.Info(ctx, "product deleted", "product_id", productID, "movements_purged", purged)
		return nil
	})
}

func snapshot(p *Product) map[string]any {
	return map[string]any{
		"name":        p.Name,
		"category_id": p.CategoryID.String(),
		"unit":        p.Unit,
		"cost_price":  p.CostPrice.String(),
		"sale_price":  p.SalePrice.String(),
		"min_stock":   p.MinStock,
	}
}
