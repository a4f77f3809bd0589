package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain"
)

// fakeStore emulates the product balance and the ledger behind a mutex,
// so each transaction body runs serialized like it would under the
// database row lock.
type fakeStore struct {
	mu       sync.Mutex
	balances map[id.ID]int64
	rows     []*Movement

	// failures counts down transient faults injected into SetStock.
	failures int
}

func newFakeStore() *fakeStore {
	return &fakeStore{balances: make(map[id.ID]int64)}
}

// RunInTransaction serializes bodies and rolls back the fake state on error.
func (s *fakeStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[id.ID]int64, len(s.balances))
	for k, v := range s.balances {
		snapshot[k] = v
	}
	rowCount := len(s.rows)

	if err := fn(ctx); err != nil {
		s.balances = snapshot
		s.rows = s.rows[:rowCount]
		return err
	}
	return nil
}

func (s *fakeStore) GetStockForUpdate(ctx context.Context, productID id.ID) (int64, error) {
	balance, ok := s.balances[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	return balance, nil
}

func (s *fakeStore) SetStock(ctx context.Context, productID id.ID, balance int64) error {
	if s.failures > 0 {
		s.failures--
		return apperror.NewSerializationFailure(context.DeadlineExceeded)
	}
	s.balances[productID] = balance
	return nil
}

func (s *fakeStore) Insert(ctx context.Context, m *Movement) error {
	s.rows = append(s.rows, m)
	return nil
}

func (s *fakeStore) List(ctx context.Context, f Filter) ([]Record, error) {
	out := make([]Record, 0)
	for _, m := range s.rows {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		out = append(out, Record{Movement: *m})
	}
	return out, nil
}

func (s *fakeStore) ListPaged(ctx context.Context, f Filter, offset, limit int) (domain.ListResult[Record], error) {
	items, _ := s.List(ctx, f)
	total := int64(len(items))

	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return domain.ListResult[Record]{
		Items:      items,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, store, store, RetryConfig{MaxRetries: 2, Backoff: time.Millisecond})
}

func TestApply_MutatesBalanceAndAppendsRow(t *testing.T) {
	store := newFakeStore()
	productID := id.New()
	actorID := id.New()
	store.balances[productID] = 10

	svc := newTestService(store)
	m, err := svc.Apply(context.Background(), ApplyInput{
		Type:      TypeOut,
		Reason:    ReasonSale,
		Qty:       4,
		ProductID: productID,
		ActorID:   actorID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), store.balances[productID])
	require.Len(t, store.rows, 1)
	assert.Equal(t, m.ID, store.rows[0].ID)
	assert.Equal(t, actorID, store.rows[0].ActorID)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestApply_DirectionIgnoredOutsideAdjust(t *testing.T) {
	store := newFakeStore()
	productID := id.New()
	store.balances[productID] = 0

	d := DirectionOut
	svc := newTestService(store)
	m, err := svc.Apply(context.Background(), ApplyInput{
		Type:      TypeIn,
		Reason:    ReasonPurchase,
		Qty:       5,
		Direction: &d,
		ProductID: productID,
		ActorID:   id.New(),
	})
	require.NoError(t, err)

	assert.Nil(t, m.Direction)
	assert.Equal(t, int64(5), store.balances[productID])
}

func TestApply_RejectsNonPositiveQty(t *testing.T) {
	svc := newTestService(newFakeStore())

	for _, qty := range []int64{0, -3} {
		_, err := svc.Apply(context.Background(), ApplyInput{
			Type:      TypeIn,
			Reason:    ReasonPurchase,
			Qty:       qty,
			ProductID: id.New(),
			ActorID:   id.New(),
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidMovement), "qty=%d: %v", qty, err)
	}
}

func TestApply_RejectsUnknownReason(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.Apply(context.Background(), ApplyInput{
		Type:      TypeIn,
		Reason:    "GIFT",
		Qty:       1,
		ProductID: id.New(),
		ActorID:   id.New(),
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidMovement))
}

func TestApply_UnknownProduct(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Apply(context.Background(), ApplyInput{
		Type:      TypeIn,
		Reason:    ReasonPurchase,
		Qty:       1,
		ProductID: id.New(),
		ActorID:   id.New(),
	})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, store.rows)
}

func TestApply_InsufficientStockLeavesNoTrace(t *testing.T) {
	store := newFakeStore()
	productID := id.New()
	store.balances[productID] = 3

	svc := newTestService(store)
	_, err := svc.Apply(context.Background(), ApplyInput{
		Type:      TypeOut,
		Reason:    ReasonSale,
		Qty:       5,
		ProductID: productID,
		ActorID:   id.New(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(-5), appErr.Details["delta"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	// Nothing written.
	assert.Equal(t, int64(3), store.balances[productID])
	assert.Empty(t, store.rows)
}

func TestApply_RetriesTransientFaults(t *testing.T) {
	store := newFakeStore()
	productID := id.New()
	store.balances[productID] = 10
	store.failures = 2 // fewer than MaxRetries+1 attempts

	svc := newTestService(store)
	_, err := svc.Apply(context.Background(), ApplyInput{
		Type:      TypeOut,
		Reason:    ReasonSale,
		Qty:       1,
		ProductID: productID,
		ActorID:   id.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), store.balances[productID])
	assert.Len(t, store.rows, 1)
}

func TestApply_ExhaustedRetriesBecomeConcurrencyConflict(t *testing.T) {
	store := newFakeStore()
	productID := id.New()
	store.balances[productID] = 10
	store.failures = 100

	svc := newTestService(store)
	_, err := svc.Apply(context.Background(), ApplyInput{
		Type:      TypeOut,
		Reason:    ReasonSale,
		Qty:       1,
		ProductID: productID,
		ActorID:   id.New(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConcurrencyConflict))
	assert.Equal(t, int64(10), store.balances[productID])
	assert.Empty(t, store.rows)
}

// With N units on hand and N+1 concurrent single-unit sales, exactly
// one request must fail and the balance must land on zero.
func TestApply_ConcurrentSalesNeverOversell(t *testing.T) {
	const stock = 8

	store := newFakeStore()
	productID := id.New()
	store.balances[productID] = stock

	svc := newTestService(store)

	var wg sync.WaitGroup
	errs := make(chan error, stock+1)
	for i := 0; i < stock+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(context.Background(), ApplyInput{
				Type:      TypeOut,
				Reason:    ReasonSale,
				Qty:       1,
				ProductID: productID,
				ActorID:   id.New(),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, int64(0), store.balances[productID])
	assert.Len(t, store.rows, stock)
}

func TestHistory_FiltersToOneProduct(t *testing.T) {
	store := newFakeStore()
	first := id.New()
	second := id.New()
	store.balances[first] = 0
	store.balances[second] = 0

	svc := newTestService(store)
	ctx := context.Background()
	actor := id.New()

	_, err := svc.Apply(ctx, ApplyInput{Type: TypeIn, Reason: ReasonPurchase, Qty: 2, ProductID: first, ActorID: actor})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, ApplyInput{Type: TypeIn, Reason: ReasonPurchase, Qty: 3, ProductID: second, ActorID: actor})
	require.NoError(t, err)

	records, err := svc.History(ctx, first)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first, records[0].ProductID)
}

// Paging 15 rows with limit 7 must yield pages of 7, 7 and 1, each
// carrying the full match count.
func TestListPaged_WalksAllRows(t *testing.T) {
	const rows = 15

	store := newFakeStore()
	productID := id.New()
	store.balances[productID] = 0

	svc := newTestService(store)
	ctx := context.Background()
	for i := 0; i < rows; i++ {
		_, err := svc.Apply(ctx, ApplyInput{
			Type:      TypeIn,
			Reason:    ReasonPurchase,
			Qty:       1,
			ProductID: productID,
			ActorID:   id.New(),
		})
		require.NoError(t, err)
	}

	var seen int
	for _, wantLen := range []int{7, 7, 1} {
		page, err := svc.ListPaged(ctx, Filter{}, seen, 7)
		require.NoError(t, err)
		assert.Len(t, page.Items, wantLen)
		assert.Equal(t, int64(rows), page.TotalCount)
		seen += len(page.Items)
	}
	assert.Equal(t, rows, seen)
}

func TestListPaged_RejectsNegativePage(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.ListPaged(context.Background(), Filter{}, -1, 10)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}
