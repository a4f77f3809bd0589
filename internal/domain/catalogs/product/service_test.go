package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain"
	"kardex/internal/domain/audit"
)

type fakeRepo struct {
	products map[id.ID]*Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[id.ID]*Product)}
}

func (r *fakeRepo) Create(ctx context.Context, p *Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, p *Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetWithCategory(ctx context.Context, productID id.ID) (*WithCategory, error) {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &WithCategory{Product: *p}, nil
}

func (r *fakeRepo) List(ctx context.Context, f Filter) ([]*WithCategory, error) {
	out := make([]*WithCategory, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, &WithCategory{Product: *p})
	}
	return out, nil
}

func (r *fakeRepo) ListPaged(ctx context.Context, f Filter, offset, limit int) (domain.ListResult[*WithCategory], error) {
	items, _ := r.List(ctx, f)
	return domain.ListResult[*WithCategory]{Items: items, TotalCount: int64(len(items)), Limit: limit, Offset: offset}, nil
}

func (r *fakeRepo) ListLowStock(ctx context.Context) ([]*WithCategory, error) {
	out := make([]*WithCategory, 0)
	for _, p := range r.products {
		if p.CurrentStock <= p.MinStock {
			out = append(out, &WithCategory{Product: *p})
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, productID id.ID) error {
	if _, ok := r.products[productID]; !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	delete(r.products, productID)
	return nil
}

type fakePurger struct {
	deleted map[id.ID]int64
}

func (p *fakePurger) DeleteByProduct(ctx context.Context, productID id.ID) (int64, error) {
	n := p.deleted[productID]
	delete(p.deleted, productID)
	return n, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopRecorder struct {
	records int
}

func (r *noopRecorder) Record(ctx context.Context, entityType string, entityID id.ID, action audit.Action, changes map[string]any) error {
	r.records++
	return nil
}

func validProduct() *Product {
	return &Product{
		Name:       "Espresso beans 1kg",
		CategoryID: id.New(),
		Unit:       "pcs",
		CostPrice:  types.MustMoney("8.50"),
		SalePrice:  types.MustMoney("14.90"),
		MinStock:   5,
	}
}

func TestCreate_RejectsNegativePrices(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePurger{}, passthroughTx{}, &noopRecorder{})

	p := validProduct()
	p.SalePrice = types.MustMoney("-1")

	err := svc.Create(context.Background(), p)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_AllowsOpeningStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakePurger{}, passthroughTx{}, &noopRecorder{})

	p := validProduct()
	p.CurrentStock = 25
	require.NoError(t, svc.Create(context.Background(), p))

	stored, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), stored.CurrentStock)
}

func TestUpdate_PreservesStoredStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakePurger{}, passthroughTx{}, &noopRecorder{})

	p := validProduct()
	p.CurrentStock = 40
	require.NoError(t, svc.Create(context.Background(), p))

	// A stale client sends current_stock=0 along with a rename; the
	// stored balance must survive since only movements change it.
	edited := *p
	edited.Name = "Espresso beans 1kg (dark roast)"
	edited.CurrentStock = 0
	require.NoError(t, svc.Update(context.Background(), &edited))

	stored, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso beans 1kg (dark roast)", stored.Name)
	assert.Equal(t, int64(40), stored.CurrentStock)
}

func TestDelete_PurgesMovementsWithProduct(t *testing.T) {
	repo := newFakeRepo()
	purger := &fakePurger{deleted: make(map[id.ID]int64)}
	svc := NewService(repo, purger, passthroughTx{}, &noopRecorder{})

	p := validProduct()
	require.NoError(t, svc.Create(context.Background(), p))
	purger.deleted[p.ID] = 12

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	_, err := svc.GetByID(context.Background(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, purger.deleted)
}

func TestDelete_UnknownProduct(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakePurger{}, passthroughTx{}, &noopRecorder{})

	err := svc.Delete(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestListLowStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakePurger{}, passthroughTx{}, &noopRecorder{})

	low := validProduct()
	low.CurrentStock = 2
	require.NoError(t, svc.Create(context.Background(), low))

	fine := validProduct()
	fine.CurrentStock = 100
	require.NoError(t, svc.Create(context.Background(), fine))

	items, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}
