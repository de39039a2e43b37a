package http

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/atinyakov/GophStore/internal/catalog"
	"github.com/atinyakov/GophStore/internal/middleware"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).ParseFS(templateFS, "templates/*.html"))

// render executes a page into a buffer first so a template error never
// leaves a half-written response.
func render(w http.ResponseWriter, log *zap.Logger, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// PageService defines the catalog reads behind the HTML pages.
type PageService interface {
	Storefront(ctx context.Context) (*service.Storefront, error)
	Accounts(ctx context.Context) ([]models.Account, error)
	Dashboard(ctx context.Context) (catalog.DashboardReport, []catalog.Product, error)
}

// PageHandler serves the storefront and the back-office pages.
type PageHandler struct {
	Catalog PageService
	Log     *zap.Logger
}

type adminPage struct {
	Accounts  []models.Account
	CSRFToken string
	Notice    string
}

type dashboardPage struct {
	Report   catalog.DashboardReport
	Products []catalog.Product
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sf, err := h.Catalog.Storefront(r.Context())
	if err != nil {
		h.Log.Error("failed to build storefront", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, h.Log, http.StatusOK, "index.html", sf)
}

// Admin handles GET /admin.
func (h *PageHandler) Admin(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Catalog.Accounts(r.Context())
	if err != nil {
		h.Log.Error("failed to list accounts", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	page := adminPage{Accounts: accounts, Notice: r.URL.Query().Get("notice")}
	if sess := middleware.Authenticated(r.Context()); sess != nil {
		page.CSRFToken = sess.CSRFToken
	}
	render(w, h.Log, http.StatusOK, "admin.html", page)
}

// Dashboard handles GET /admin/dashboard.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	report, products, err := h.Catalog.Dashboard(r.Context())
	if err != nil {
		h.Log.Error("failed to build dashboard", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, h.Log, http.StatusOK, "dashboard.html", dashboardPage{Report: report, Products: products})
}
