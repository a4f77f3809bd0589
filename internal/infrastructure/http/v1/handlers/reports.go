package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"kardex/internal/core/apperror"
	"kardex/internal/domain/reports"
	"kardex/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves sales and dashboard reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the report endpoints.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales", h.Sales)
	rg.GET("/dashboard", h.Dashboard)
}

// Sales returns the sales report for the requested window. With no
// dates the report covers all time.
func (h *ReportsHandler) Sales(c *gin.Context) {
	var req dto.SalesReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	var from, to time.Time
	var err error
	if req.From != "" {
		if from, err = time.ParseInLocation("2006-01-02", req.From, time.Local); err != nil {
			h.Error(c, apperror.NewValidation("invalid from date"))
			return
		}
	}
	if req.To != "" {
		if to, err = time.ParseInLocation("2006-01-02", req.To, time.Local); err != nil {
			h.Error(c, apperror.NewValidation("invalid to date"))
			return
		}
	}

	report, err := h.service.Sales(c.Request.Context(), from, to, req.Top)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalesReport(report))
}

// Dashboard returns the landing-page snapshot.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	snapshot, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDashboard(snapshot))
}
