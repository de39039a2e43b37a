package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBannerHandler_Add(t *testing.T) {
	b := &fakeBanners{}
	h := &BannerHandler{Banners: b, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Add(rec, postJSON("/api/add-banner", `{"banner_id":"ignored","title":"Summer sale"}`))

	assert.JSONEq(t, `{"success":true,"message":"Banner created","banner_id":"banner-1"}`, rec.Body.String())
	require.NotNil(t, b.created)
	assert.True(t, b.created.IsActive)
	assert.Equal(t, models.DefaultBannerBackground, b.created.BackgroundColor)
	assert.Equal(t, models.DefaultBannerText, b.created.TextColor)
	assert.Equal(t, models.BannerPromotion, b.created.BannerType)
	assert.Equal(t, models.DefaultBannerShowDelay, b.created.ShowDelay)

	rec = httptest.NewRecorder()
	h.Add(rec, postJSON("/api/banners", `{"title":"Hidden","is_active":false,"show_delay":500}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, b.created.IsActive)
	assert.Equal(t, 500, b.created.ShowDelay)
}

func TestBannerHandler_UpdateAndDelete(t *testing.T) {
	b := &fakeBanners{}
	h := &BannerHandler{Banners: b, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Update(rec, postJSON("/api/update-banner", `{"banner_id":"b1","title":"New"}`))
	assert.JSONEq(t, `{"success":true,"message":"Banner updated"}`, rec.Body.String())
	assert.Equal(t, "b1", b.updated.ID)

	rec = httptest.NewRecorder()
	h.Delete(rec, postJSON("/api/delete-banner", `{"banner_id":"b1"}`))
	assert.JSONEq(t, `{"success":true,"message":"Banner deleted"}`, rec.Body.String())
	assert.Equal(t, "b1", b.deleted)

	b.err = service.ErrNotFound
	rec = httptest.NewRecorder()
	h.Delete(rec, postJSON("/api/delete-banner", `{"banner_id":"b1"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBannerHandler_List(t *testing.T) {
	b := &fakeBanners{}
	h := &BannerHandler{Banners: b, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/banners", nil))
	assert.JSONEq(t, `{"banners":[]}`, rec.Body.String())

	b.banners = []models.Banner{{ID: "b1", Title: "Summer"}}
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/banners", nil))
	assert.Contains(t, rec.Body.String(), `"title":"Summer"`)
}
