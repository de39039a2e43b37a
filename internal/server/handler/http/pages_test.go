package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/GophStore/internal/catalog"
	"github.com/atinyakov/GophStore/internal/middleware"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPageHandler_Index(t *testing.T) {
	cat := &fakeCatalog{products: []catalog.Product{{
		ID:                 "a1",
		Name:               "Netflix Premium",
		BaseName:           "Netflix",
		Type:               "Streaming",
		Price:              decimal.RequireFromString("12.792"),
		OriginalPrice:      decimal.RequireFromString("15.99"),
		HasDiscount:        true,
		DiscountPercentage: decimal.NewFromInt(20),
		Stock:              2,
	}}}
	h := &PageHandler{Catalog: cat, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Netflix Premium")
	assert.Contains(t, body, "12.79")
	assert.Contains(t, body, "15.99")
}

func TestPageHandler_IndexError(t *testing.T) {
	h := &PageHandler{Catalog: &fakeCatalog{err: errors.New("db down")}, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPageHandler_Admin(t *testing.T) {
	cat := &fakeCatalog{accounts: []models.Account{{ID: "a1", Email: "user@mail.com", Name: "Netflix", Status: models.StatusAvailable}}}
	h := &PageHandler{Catalog: cat, Log: zap.NewNop()}

	sess := &session.Session{ID: "s1", IsAdmin: true, CSRFToken: "tok123"}
	req := httptest.NewRequest(http.MethodGet, "/admin?notice=Account+deleted", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h.Admin(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="tok123"`)
	assert.Contains(t, body, "Account deleted")
	assert.Contains(t, body, "user@mail.com")
}

func TestPageHandler_Dashboard(t *testing.T) {
	h := &PageHandler{Catalog: &fakeCatalog{}, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
