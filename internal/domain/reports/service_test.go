package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
)

func line(productID id.ID, name string, qty int64, sale, cost string) SaleLine {
	return SaleLine{
		ProductID:   productID,
		ProductName: name,
		Qty:         qty,
		SalePrice:   types.MustMoney(sale),
		CostPrice:   types.MustMoney(cost),
	}
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestSummarize(t *testing.T) {
	p := id.New()
	lines := []SaleLine{
		line(p, "cola", 2, "10", "6"),
		line(p, "cola", 3, "10", "6"),
		line(p, "cola", 5, "10", "6"),
	}

	sum := Summarize(lines)

	assert.Equal(t, "100", sum.Revenue.String())
	assert.Equal(t, "60", sum.Cost.String())
	assert.Equal(t, "40", sum.Profit.String())
	assert.Equal(t, "40", sum.MarginPercent.String())
	assert.Equal(t, int64(10), sum.UnitsSold)
	assert.Equal(t, int64(3), sum.Transactions)
}

func TestSummarize_EmptyHasZeroMargin(t *testing.T) {
	sum := Summarize(nil)

	assert.True(t, sum.Revenue.IsZero())
	assert.True(t, sum.MarginPercent.IsZero())
	assert.Equal(t, int64(0), sum.UnitsSold)
	assert.Equal(t, int64(0), sum.Transactions)
}

func TestSummarize_FreebiesHaveZeroMargin(t *testing.T) {
	// Revenue zero but cost positive: margin must stay zero, not divide.
	sum := Summarize([]SaleLine{line(id.New(), "sample", 2, "0", "3")})

	assert.True(t, sum.Revenue.IsZero())
	assert.Equal(t, "-6", sum.Profit.String())
	assert.True(t, sum.MarginPercent.IsZero())
}

func TestTopByRevenue(t *testing.T) {
	a, b, c := id.New(), id.New(), id.New()
	lines := []SaleLine{
		line(a, "a", 1, "5", "1"),
		line(b, "b", 10, "5", "1"),
		line(c, "c", 2, "5", "1"),
		line(a, "a", 4, "5", "1"), // a totals 25, b 50, c 10
	}

	top := TopByRevenue(lines, 2)

	require.Len(t, top, 2)
	assert.Equal(t, b, top[0].ProductID)
	assert.Equal(t, int64(10), top[0].UnitsSold)
	assert.Equal(t, "50", top[0].Revenue.String())
	assert.Equal(t, a, top[1].ProductID)
	assert.Equal(t, "25", top[1].Revenue.String())
}

type fakeReportRepo struct {
	lines     []SaleLine
	lastFrom  *time.Time
	lastTo    *time.Time
	callCount int
}

func (r *fakeReportRepo) SaleLines(ctx context.Context, from, to *time.Time) ([]SaleLine, error) {
	r.callCount++
	if from != nil || to != nil {
		r.lastFrom, r.lastTo = from, to
	}
	return r.lines, nil
}

func (r *fakeReportRepo) CountProducts(ctx context.Context) (int64, error) { return 12, nil }

func (r *fakeReportRepo) CountLowStock(ctx context.Context) (int64, error) { return 3, nil }

func (r *fakeReportRepo) CountOutMovements(ctx context.Context) (int64, error) { return 40, nil }

func (r *fakeReportRepo) InventoryValue(ctx context.Context) (types.Money, error) {
	return types.MustMoney("123.45"), nil
}

func TestSales_WidensWindowToWholeDays(t *testing.T) {
	repo := &fakeReportRepo{lines: []SaleLine{line(id.New(), "x", 1, "2", "1")}}
	svc := NewService(repo, passthroughTx{})

	from := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	to := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)

	report, err := svc.Sales(context.Background(), from, to, 0)
	require.NoError(t, err)

	require.NotNil(t, repo.lastFrom)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *repo.lastFrom)
	assert.Equal(t, time.Date(2025, 6, 3, 23, 59, 59, 999_000_000, time.UTC), *repo.lastTo)

	// Window plus all-time.
	assert.Equal(t, 2, repo.callCount)
	assert.Equal(t, report.Period, report.AllTime)
	assert.LessOrEqual(t, len(report.TopProducts), DefaultTopProducts)
}

func TestSales_UnboundedWindow(t *testing.T) {
	a, b := id.New(), id.New()
	repo := &fakeReportRepo{lines: []SaleLine{
		line(a, "a", 2, "5", "1"),
		line(b, "b", 8, "5", "1"),
	}}
	svc := NewService(repo, passthroughTx{})

	report, err := svc.Sales(context.Background(), time.Time{}, time.Time{}, 0)
	require.NoError(t, err)

	// One unbounded query serves both views.
	assert.Equal(t, 1, repo.callCount)
	assert.Nil(t, repo.lastFrom)
	assert.Nil(t, repo.lastTo)
	assert.True(t, report.From.IsZero())
	assert.True(t, report.To.IsZero())

	assert.Equal(t, report.AllTime, report.Period)
	assert.Equal(t, "50", report.Period.Revenue.String())
	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, b, report.TopProducts[0].ProductID)
}

func TestSales_RejectsOneSidedRange(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, passthroughTx{})
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Sales(context.Background(), day, time.Time{}, 0)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.Sales(context.Background(), time.Time{}, day, 0)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestSales_RejectsInvertedRange(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, passthroughTx{})
	from := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Sales(context.Background(), from, to, 0)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestDashboard(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, passthroughTx{})

	snapshot, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), snapshot.TotalProducts)
	assert.Equal(t, int64(3), snapshot.LowStockCount)
	assert.Equal(t, "123.45", snapshot.InventoryValue.String())
	assert.Equal(t, int64(40), snapshot.OutMovements)
}
