package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/domain/catalogs/category"
	"kardex/internal/infrastructure/http/v1/dto"
)

// CategoryHandler serves the category catalog.
type CategoryHandler struct {
	*BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return &CategoryHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the category endpoints.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create inserts a new category.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := &category.Category{Name: req.Name}
	if err := h.service.Create(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cat.ID)
}

// List returns categories; paged when page parameters are present,
// the full catalog otherwise.
func (h *CategoryHandler) List(c *gin.Context) {
	if c.Query("page") == "" && c.Query("pageSize") == "" {
		items, err := h.service.List(c.Request.Context())
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.FromCategories(items))
		return
	}

	var page dto.PaginationRequest
	if !h.BindQuery(c, &page) {
		return
	}
	page.Defaults()

	result, err := h.service.ListPaged(c.Request.Context(), page.Offset(), page.PageSize)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(page, result.TotalCount, dto.FromCategories(result.Items)))
}

// Get returns one category.
func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	cat, err := h.service.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCategory(cat))
}

// Update renames a category.
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := &category.Category{ID: categoryID, Name: req.Name}
	if err := h.service.Update(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCategory(cat))
}

// Delete removes a category unless products still reference it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), categoryID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
