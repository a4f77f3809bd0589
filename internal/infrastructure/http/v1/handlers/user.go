package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/domain/auth"
	"kardex/internal/infrastructure/http/v1/dto"
)

// UserHandler serves user administration.
type UserHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, service *auth.Service) *UserHandler {
	return &UserHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires the user endpoints.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}

// List returns one page of users, newest first.
func (h *UserHandler) List(c *gin.Context) {
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
	h.OK(c, dto.NewListResponse(page, result.TotalCount, dto.FromUsers(result.Items)))
}

// Get returns one user.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}

// Delete removes a user account.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actorID, userID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
