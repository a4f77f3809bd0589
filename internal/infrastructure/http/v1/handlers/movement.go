package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/domain/ledger"
	"kardex/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves the stock movement ledger.
type MovementHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(base *BaseHandler, service *ledger.Service) *MovementHandler {
	return &MovementHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the movement endpoints.
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Apply)
	rg.GET("", h.List)
}

// Apply records a stock movement and mutates the product balance.
func (h *MovementHandler) Apply(c *gin.Context) {
	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	in := ledger.ApplyInput{
		Type:      ledger.Type(req.Type),
		Reason:    ledger.Reason(req.Reason),
		Qty:       req.Qty,
		ProductID: productID,
		ActorID:   actorID,
	}
	if req.Direction != "" {
		d := ledger.Direction(req.Direction)
		in.Direction = &d
	}

	m, err := h.service.Apply(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m.ID)
}

// List returns one page of the filtered movement history, newest first.
func (h *MovementHandler) List(c *gin.Context) {
	var req dto.MovementFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Defaults()

	f, ok := h.buildFilter(c, req)
	if !ok {
		return
	}

	result, err := h.service.ListPaged(c.Request.Context(), f, req.Offset(), req.PageSize)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(req.PaginationRequest, result.TotalCount, dto.FromRecords(result.Items)))
}

func (h *MovementHandler) buildFilter(c *gin.Context, req dto.MovementFilterRequest) (ledger.Filter, bool) {
	var f ledger.Filter

	if req.Type != "" {
		t := ledger.Type(req.Type)
		if !t.Valid() {
			h.Error(c, apperror.NewValidation("unknown movement type").WithDetail("type", req.Type))
			return f, false
		}
		f.Type = &t
	}
	if req.ProductID != "" {
		productID, err := id.Parse(req.ProductID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid product id"))
			return f, false
		}
		f.ProductID = &productID
	}
	if req.From != "" {
		from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date"))
			return f, false
		}
		start := ledger.StartOfDay(from)
		f.From = &start
	}
	if req.To != "" {
		to, err := time.ParseInLocation("2006-01-02", req.To, time.Local)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date"))
			return f, false
		}
		end := ledger.EndOfDay(to)
		f.To = &end
	}
	return f, true
}
