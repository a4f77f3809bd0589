package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardex/internal/core/id"
	"kardex/internal/domain/audit"
	"kardex/internal/infrastructure/http/v1/dto"
	"kardex/internal/infrastructure/http/v1/middleware"
)

type fakeHistorian struct {
	entries   []audit.Entry
	lastType  string
	lastID    id.ID
	lastLimit int
}

func (f *fakeHistorian) EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	f.lastType = entityType
	f.lastID = entityID
	f.lastLimit = limit
	return f.entries, nil
}

func auditTestRouter(history audit.Historian) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	NewAuditHandler(NewBaseHandler(), history).RegisterRoutes(router.Group("/audit"))
	return router
}

func TestEntityHistory(t *testing.T) {
	productID := id.New()
	fake := &fakeHistorian{entries: []audit.Entry{{
		ID:         id.New(),
		EntityType: "product",
		EntityID:   productID,
		Action:     audit.ActionUpdate,
		UserID:     id.New().String(),
		Changes:    json.RawMessage(`{"name":{"old":"Beans","new":"Beans (dark)"}}`),
		CreatedAt:  time.Now().UTC(),
	}}}
	router := auditTestRouter(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/audit/product/"+productID.String()+"?limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "product", fake.lastType)
	assert.Equal(t, productID, fake.lastID)
	assert.Equal(t, 5, fake.lastLimit)

	var got []dto.AuditEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, productID.String(), got[0].EntityID)
	assert.Equal(t, "update", got[0].Action)
	assert.JSONEq(t, `{"name":{"old":"Beans","new":"Beans (dark)"}}`, string(got[0].Changes))
}

func TestEntityHistory_DefaultLimit(t *testing.T) {
	fake := &fakeHistorian{}
	router := auditTestRouter(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/audit/category/"+id.New().String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultAuditLimit, fake.lastLimit)
}

func TestEntityHistory_UnknownEntityType(t *testing.T) {
	router := auditTestRouter(&fakeHistorian{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/audit/movement/"+id.New().String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntityHistory_BadID(t *testing.T) {
	router := auditTestRouter(&fakeHistorian{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/audit/user/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
