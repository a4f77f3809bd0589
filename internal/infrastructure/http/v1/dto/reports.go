package dto

import (
	"time"

	"kardex/internal/domain/reports"
)

// SalesReportRequest bounds the sales report window. Omitting both
// dates requests the unbounded all-time report.
type SalesReportRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Top  int    `form:"top" binding:"omitempty,min=1,max=50"`
}

// SummaryResponse is one aggregated view of sales.
type SummaryResponse struct {
	Revenue       string `json:"revenue"`
	Cost          string `json:"cost"`
	Profit        string `json:"profit"`
	MarginPercent string `json:"marginPercent"`
	UnitsSold     int64  `json:"unitsSold"`
	Transactions  int64  `json:"transactions"`
}

// ProductSalesResponse is one row of the top-products ranking.
type ProductSalesResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitsSold   int64  `json:"unitsSold"`
	Revenue     string `json:"revenue"`
	Profit      string `json:"profit"`
}

// SalesReportResponse is the full sales report wire shape. From/To are
// absent for the unbounded all-time report.
type SalesReportResponse struct {
	From        *time.Time             `json:"from,omitempty"`
	To          *time.Time             `json:"to,omitempty"`
	Period      SummaryResponse        `json:"period"`
	AllTime     SummaryResponse        `json:"allTime"`
	TopProducts []ProductSalesResponse `json:"topProducts"`
}

// DashboardResponse is the landing-page snapshot wire shape.
type DashboardResponse struct {
	TotalProducts  int64  `json:"totalProducts"`
	LowStockCount  int64  `json:"lowStockCount"`
	InventoryValue string `json:"inventoryValue"`
	OutMovements   int64  `json:"outMovements"`
}

func fromSummary(s reports.Summary) SummaryResponse {
	return SummaryResponse{
		Revenue:       s.Revenue.String(),
		Cost:          s.Cost.String(),
		Profit:        s.Profit.String(),
		MarginPercent: s.MarginPercent.Round(2).String(),
		UnitsSold:     s.UnitsSold,
		Transactions:  s.Transactions,
	}
}

// FromSalesReport converts a domain sales report.
func FromSalesReport(r *reports.SalesReport) SalesReportResponse {
	top := make([]ProductSalesResponse, 0, len(r.TopProducts))
	for _, p := range r.TopProducts {
		top = append(top, ProductSalesResponse{
			ProductID:   p.ProductID.String(),
			ProductName: p.ProductName,
			UnitsSold:   p.UnitsSold,
			Revenue:     p.Revenue.String(),
			Profit:      p.Profit.String(),
		})
	}
	resp := SalesReportResponse{
		Period:      fromSummary(r.Period),
		AllTime:     fromSummary(r.AllTime),
		TopProducts: top,
	}
	if !r.From.IsZero() {
		from, to := r.From, r.To
		resp.From, resp.To = &from, &to
	}
	return resp
}

// FromDashboard converts a domain dashboard snapshot.
func FromDashboard(d *reports.Dashboard) DashboardResponse {
	return DashboardResponse{
		TotalProducts:  d.TotalProducts,
		LowStockCount:  d.LowStockCount,
		InventoryValue: d.InventoryValue.String(),
		OutMovements:   d.OutMovements,
	}
}
