package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain"
	"kardex/internal/domain/audit"
)

type fakeRepo struct {
	categories map[id.ID]*Category
	products   map[id.ID]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: make(map[id.ID]*Category),
		products:   make(map[id.ID]int64),
	}
}

func (r *fakeRepo) Create(ctx context.Context, c *Category) error {
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return apperror.NewDuplicate("category", "name", c.Name)
		}
	}
	r.categories[c.ID] = &Category{ID: c.ID, Name: c.Name}
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, c *Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return apperror.NewNotFound("category", c.ID.String())
	}
	r.categories[c.ID] = &Category{ID: c.ID, Name: c.Name}
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	c, ok := r.categories[categoryID]
	if !ok {
		return nil, apperror.NewNotFound("category", categoryID.String())
	}
	return c, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*Category, error) {
	out := make([]*Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) ListPaged(ctx context.Context, offset, limit int) (domain.ListResult[*Category], error) {
	items, _ := r.List(ctx)
	return domain.ListResult[*Category]{Items: items, TotalCount: int64(len(items)), Limit: limit, Offset: offset}, nil
}

func (r *fakeRepo) Delete(ctx context.Context, categoryID id.ID) error {
	if _, ok := r.categories[categoryID]; !ok {
		return apperror.NewNotFound("category", categoryID.String())
	}
	delete(r.categories, categoryID)
	return nil
}

func (r *fakeRepo) CountProducts(ctx context.Context, categoryID id.ID) (int64, error) {
	return r.products[categoryID], nil
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

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx{}, &noopRecorder{})

	err := svc.Create(context.Background(), &Category{Name: "   "})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_AssignsIDAndAudits(t *testing.T) {
	repo := newFakeRepo()
	recorder := &noopRecorder{}
	svc := NewService(repo, passthroughTx{}, recorder)

	c := &Category{Name: "Beverages"}
	require.NoError(t, svc.Create(context.Background(), c))

	assert.False(t, id.IsNil(c.ID))
	assert.Equal(t, 1, recorder.records)
}

func TestDelete_BlockedWhileProductsReference(t *testing.T) {
	repo := newFakeRepo()
	recorder := &noopRecorder{}
	svc := NewService(repo, passthroughTx{}, recorder)

	c := &Category{Name: "Dairy"}
	require.NoError(t, svc.Create(context.Background(), c))
	repo.products[c.ID] = 4

	err := svc.Delete(context.Background(), c.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeReferentialIntegrity))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(4), appErr.Details["dependents"])

	// Still there.
	_, err = svc.GetByID(context.Background(), c.ID)
	assert.NoError(t, err)
}

func TestDelete_RemovesUnreferencedCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx{}, &noopRecorder{})

	c := &Category{Name: "Snacks"}
	require.NoError(t, svc.Create(context.Background(), c))
	require.NoError(t, svc.Delete(context.Background(), c.ID))

	_, err := svc.GetByID(context.Background(), c.ID)
	assert.True(t, apperror.IsNotFound(err))
}
