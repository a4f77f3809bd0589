package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/domain/catalogs/product"
	"kardex/internal/domain/ledger"
	"kardex/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog and the per-product
// movement history.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
	history *ledger.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, history *ledger.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service, history: history}
}

// RegisterRoutes wires the product endpoints.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/kardex", h.Kardex)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *ProductHandler) fromRequest(c *gin.Context, req dto.ProductRequest) (*product.Product, bool) {
	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid category id"))
		return nil, false
	}
	costPrice, err := types.NewMoneyFromString(req.CostPrice)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid cost price").WithDetail("value", req.CostPrice))
		return nil, false
	}
	salePrice, err := types.NewMoneyFromString(req.SalePrice)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid sale price").WithDetail("value", req.SalePrice))
		return nil, false
	}
	return &product.Product{
		Name:       req.Name,
		CategoryID: categoryID,
		Unit:       req.Unit,
		CostPrice:  costPrice,
		SalePrice:  salePrice,
		MinStock:   req.MinStock,
	}, true
}

// Create inserts a new product, optionally with an opening balance.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, ok := h.fromRequest(c, req)
	if !ok {
		return
	}
	p.CurrentStock = req.InitialStock

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID)
}

// List returns one page of products matching the name/category filter.
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ProductFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Defaults()

	f := product.Filter{Query: req.Query}
	if req.CategoryID != "" {
		categoryID, err := id.Parse(req.CategoryID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid category id"))
			return
		}
		f.CategoryID = &categoryID
	}

	result, err := h.service.ListPaged(c.Request.Context(), f, req.Offset(), req.PageSize)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(req.PaginationRequest, result.TotalCount, dto.FromProductsWithCategory(result.Items)))
}

// LowStock returns products at or below their minimum level.
func (h *ProductHandler) LowStock(c *gin.Context) {
	items, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProductsWithCategory(items))
}

// Get returns one product with its category name.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	p, err := h.service.GetWithCategory(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProductWithCategory(p))
}

// Kardex returns the full movement history of one product, newest first.
func (h *ProductHandler) Kardex(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.service.GetByID(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	records, err := h.history.History(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromRecords(records))
}

// Update modifies a product's catalog fields.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p, ok := h.fromRequest(c, req)
	if !ok {
		return
	}
	p.ID = productID

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// Delete removes a product and its movements.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
