package handlers

import (
	"github.com/gin-gonic/gin"

	"kardex/internal/core/apperror"
	"kardex/internal/domain/audit"
	"kardex/internal/infrastructure/http/v1/dto"
)

const defaultAuditLimit = 50

// auditedEntities are the entity types the structural-edit trail covers.
// The stock ledger is its own history and is not listed here.
var auditedEntities = map[string]bool{
	"product":  true,
	"category": true,
	"user":     true,
}

// AuditHandler serves the structural-edit audit trail.
type AuditHandler struct {
	*BaseHandler
	history audit.Historian
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, history audit.Historian) *AuditHandler {
	return &AuditHandler{BaseHandler: base, history: history}
}

// RegisterRoutes wires the audit endpoints.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:entityType/:id", h.EntityHistory)
}

// EntityHistory returns an entity's recorded edits, newest first.
func (h *AuditHandler) EntityHistory(c *gin.Context) {
	entityType := c.Param("entityType")
	if !auditedEntities[entityType] {
		h.Error(c, apperror.NewValidation("unknown entity type").WithDetail("entityType", entityType))
		return
	}
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	limit := h.ParseIntQuery(c, "limit", defaultAuditLimit)
	if limit <= 0 || limit > 200 {
		limit = defaultAuditLimit
	}

	entries, err := h.history.EntityHistory(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAuditEntries(entries))
}
