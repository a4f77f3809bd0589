package reports

import (
	"context"
	"sort"
	"time"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/tx"
	"kardex/internal/core/types"
	"kardex/internal/domain/ledger"
)

// DefaultTopProducts is the ranking size when the caller does not ask
// for a specific one.
const DefaultTopProducts = 6

var hundred = types.MustMoney("100")

// Service computes sales reports and dashboard figures. All reads run
// in one read-only transaction per report, so the figures are drawn
// from a single view of the ledger.
type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
}

// NewService creates a new reports service.
func NewService(repo Repository, txManager tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Sales builds the sales report: the window summary, the all-time
// summary for comparison, and the top products by revenue. A zero
// from/to pair means the unbounded all-time window; a bounded window is
// widened to whole days, from 00:00:00 to 23:59:59.999.
func (s *Service) Sales(ctx context.Context, from, to time.Time, topN int) (*SalesReport, error) {
	if from.IsZero() != to.IsZero() {
		return nil, apperror.NewValidation("from and to dates must be provided together")
	}
	if !from.IsZero() && from.After(to) {
		return nil, apperror.NewValidation("from date must not be after to date")
	}
	if topN <= 0 {
		topN = DefaultTopProducts
	}

	var report *SalesReport
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		allLines, err := s.repo.SaleLines(ctx, nil, nil)
		if err != nil {
			return err
		}
		allTime := Summarize(allLines)

		if from.IsZero() {
			// Unbounded window: the period is the whole ledger.
			report = &SalesReport{
				Period:      allTime,
				AllTime:     allTime,
				TopProducts: TopByRevenue(allLines, topN),
			}
			return nil
		}

		start := ledger.StartOfDay(from)
		end := ledger.EndOfDay(to)
		periodLines, err := s.repo.SaleLines(ctx, &start, &end)
		if err != nil {
			return err
		}
		report = &SalesReport{
			From:        start,
			To:          end,
			Period:      Summarize(periodLines),
			AllTime:     allTime,
			TopProducts: TopByRevenue(periodLines, topN),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Dashboard builds the landing-page snapshot.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var snapshot *Dashboard
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		total, err := s.repo.CountProducts(ctx)
		if err != nil {
			return err
		}
		low, err := s.repo.CountLowStock(ctx)
		if err != nil {
			return err
		}
		value, err := s.repo.InventoryValue(ctx)
		if err != nil {
			return err
		}
		out, err := s.repo.CountOutMovements(ctx)
		if err != nil {
			return err
		}
		snapshot = &Dashboard{
			TotalProducts:  total,
			LowStockCount:  low,
			InventoryValue: value,
			OutMovements:   out,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Summarize folds sale lines into the headline figures. Margin is zero
// when revenue is zero, never a division error.
func Summarize(lines []SaleLine) Summary {
	sum := Summary{
		Revenue:       types.ZeroMoney(),
		Cost:          types.ZeroMoney(),
		Profit:        types.ZeroMoney(),
		MarginPercent: types.ZeroMoney(),
	}
	for _, l := range lines {
		qty := types.MoneyFromInt(l.Qty)
		sum.Revenue = sum.Revenue.Add(l.SalePrice.Mul(qty))
		sum.Cost = sum.Cost.Add(l.CostPrice.Mul(qty))
		sum.UnitsSold += l.Qty
		sum.Transactions++
	}
	sum.Profit = sum.Revenue.Sub(sum.Cost)
	if !sum.Revenue.IsZero() {
		sum.MarginPercent = sum.Profit.Div(sum.Revenue).Mul(hundred)
	}
	return sum
}

// TopByRevenue groups sale lines per product and returns the n highest
// earners, best first.
func TopByRevenue(lines []SaleLine, n int) []ProductSales {
	byProduct := make(map[id.ID]*ProductSales)
	order := make([]id.ID, 0)
	for _, l := range lines {
		qty := types.MoneyFromInt(l.Qty)
		revenue := l.SalePrice.Mul(qty)
		profit := revenue.Sub(l.CostPrice.Mul(qty))

		entry, ok := byProduct[l.ProductID]
		if !ok {
			entry = &ProductSales{
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
				Revenue:     types.ZeroMoney(),
				Profit:      types.ZeroMoney(),
			}
			byProduct[l.ProductID] = entry
			order = append(order, l.ProductID)
		}
		entry.UnitsSold += l.Qty
		entry.Revenue = entry.Revenue.Add(revenue)
		entry.Profit = entry.Profit.Add(profit)
	}

	ranked := make([]ProductSales, 0, len(order))
	for _, pid := range order {
		ranked = append(ranked, *byProduct[pid])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
