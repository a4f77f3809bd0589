package category

import (
	"context"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/tx"
	"kardex/internal/domain"
	"kardex/internal/domain/audit"
	"kardex/pkg/logger"
)

// Service provides business operations for the category catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		audit:     recorder,
	}
}

// Create inserts a new category.
func (s *Service) Create(ctx context.Context, c *Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if id.IsNil(c.ID) {
		c.ID = id.New()
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}
		return s.audit.Record(ctx, "category", c.ID, audit.ActionCreate, map[string]any{"name": c.Name})
	})
}

// Update renames a category.
func (s *Service) Update(ctx context.Context, c *Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.repo.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}
		changes := audit.Diff(
			map[string]any{"name": prev.Name},
			map[string]any{"name": c.Name},
		)
		return s.audit.Record(ctx, "category", c.ID, audit.ActionUpdate, changes)
	})
}

// GetByID retrieves a category.
func (s *Service) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

// ListPaged returns one page of categories plus the total count.
func (s *Service) ListPaged(ctx context.Context, offset, limit int) (domain.ListResult[*Category], error) {
	if err := domain.ValidatePage(offset, limit); err != nil {
		return domain.ListResult[*Category]{}, err
	}
	return s.repo.ListPaged(ctx, offset, limit)
}

// Delete removes a category unless products still reference it.
// The dependents check and the delete run in one transaction so a
// concurrent product insert cannot slip between them.
func (s *Service) Delete(ctx context.Context, categoryID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		dependents, err := s.repo.CountProducts(ctx, categoryID)
		if err != nil {
			return err
		}
		if dependents > 0 {
			return apperror.NewReferentialIntegrity("category", categoryID.String(), dependents)
		}
		if err := s.repo.Delete(ctx, categoryID); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, "category", categoryID, audit.ActionDelete, nil); err != nil {
			return err
		}
		logger.Info(ctx, "category deleted", "category_id", categoryID)
		return nil
	})
}
