package ledger

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/tx"
	"kardex/internal/domain"
	"kardex/pkg/logger"
)

var tracer = otel.Tracer("kardex/ledger")

// RetryConfig bounds the transparent retry of serialization faults.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// Backoff is the base delay; attempt n waits Backoff << n.
	Backoff time.Duration
}

// DefaultRetryConfig returns the production defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		Backoff:    25 * time.Millisecond,
	}
}

// Service is the movement ledger engine: the only sanctioned path for
// changing a product's current stock.
type Service struct {
	movements Repository
	products  ProductGateway
	txManager tx.Manager
	retry     RetryConfig
}

// NewService creates a new ledger service.
func NewService(movements Repository, products ProductGateway, txManager tx.Manager, retry RetryConfig) *Service {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	if retry.Backoff <= 0 {
		retry.Backoff = DefaultRetryConfig().Backoff
	}
	return &Service{
		movements: movements,
		products:  products,
		txManager: txManager,
		retry:     retry,
	}
}

// ApplyInput describes one movement request.
type ApplyInput struct {
	Type      Type
	Reason    Reason
	Qty       int64
	Direction *Direction
	ProductID id.ID
	ActorID   id.ID
}

// Apply atomically mutates the product balance and appends the movement
// row. Either both writes commit or neither does. Serialization faults
// are retried a bounded number of times before surfacing as a
// concurrency conflict.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (*Movement, error) {
	if in.Qty <= 0 {
		return nil, apperror.NewInvalidMovement("quantity must be a positive integer").
			WithDetail("qty", in.Qty)
	}
	if !in.Reason.Valid() {
		return nil, apperror.NewInvalidMovement("unknown movement reason").
			WithDetail("reason", string(in.Reason))
	}
	if in.Type != TypeAdjust {
		// Direction carries no meaning outside adjustments.
		in.Direction = nil
	}

	delta, err := Delta(in.Type, in.Qty, in.Direction)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ledger.apply",
		trace.WithAttributes(
			attribute.String("movement.type", string(in.Type)),
			attribute.String("product.id", in.ProductID.String()),
			attribute.Int64("movement.delta", delta),
		))
	defer span.End()

	var applied *Movement
	for attempt := 0; ; attempt++ {
		applied, err = s.applyOnce(ctx, in, delta)
		if err == nil {
			return applied, nil
		}
		if !apperror.IsRetryableTx(err) {
			return nil, err
		}
		if attempt >= s.retry.MaxRetries {
			logger.Warn(ctx, "movement retries exhausted",
				"product_id", in.ProductID,
				"attempts", attempt+1,
			)
			return nil, apperror.NewConcurrencyConflict(in.ProductID.String()).WithCause(err)
		}
		if err := s.sleep(ctx, s.retry.Backoff<<attempt); err != nil {
			return nil, apperror.NewConcurrencyConflict(in.ProductID.String()).WithCause(err)
		}
	}
}

// applyOnce runs one read-modify-write attempt in a single transaction.
func (s *Service) applyOnce(ctx context.Context, in ApplyInput, delta int64) (*Movement, error) {
	var applied *Movement

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.products.GetStockForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		projected := current + delta
		if projected < 0 {
			return apperror.NewInsufficientStock(in.ProductID.String(), delta, current)
		}

		if err := s.products.SetStock(ctx, in.ProductID, projected); err != nil {
			return err
		}

		m := &Movement{
			ID:        id.New(),
			Type:      in.Type,
			Reason:    in.Reason,
			Qty:       in.Qty,
			Direction: in.Direction,
			ProductID: in.ProductID,
			ActorID:   in.ActorID,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.movements.Insert(ctx, m); err != nil {
			return err
		}

		applied = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "movement applied",
		"movement_id", applied.ID,
		"product_id", in.ProductID,
		"type", in.Type,
		"qty", in.Qty,
		"delta", delta,
	)
	return applied, nil
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// List returns the full filtered history, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, error) {
	return s.movements.List(ctx, f)
}

// ListPaged returns one page of the filtered history plus the total count.
func (s *Service) ListPaged(ctx context.Context, f Filter, offset, limit int) (domain.ListResult[Record], error) {
	if err := domain.ValidatePage(offset, limit); err != nil {
		return domain.ListResult[Record]{}, err
	}
	return s.movements.ListPaged(ctx, f, offset, limit)
}

// History returns the full movement history of one product (kardex view).
func (s *Service) History(ctx context.Context, productID id.ID) ([]Record, error) {
	return s.movements.List(ctx, Filter{ProductID: &productID})
}
