package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atinyakov/GophStore/internal/catalog"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogReader defines the admin catalog views.
type CatalogReader interface {
	StoreProducts(ctx context.Context) ([]catalog.Product, error)
	Statistics(ctx context.Context) (catalog.Statistics, error)
	Analytics(ctx context.Context) (catalog.AnalyticsReport, error)
	Services(ctx context.Context) ([]string, error)
}

// ProductHandler serves product-level administration. A product is every
// record sharing a name.
type ProductHandler struct {
	Inventory InventoryService
	Catalog   CatalogReader
	Log       *zap.Logger
}

// StoreProducts handles GET /api/store-products.
func (h *ProductHandler) StoreProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.StoreProducts(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Statistics handles GET /api/store-statistics.
func (h *ProductHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Catalog.Statistics(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Analytics handles GET /api/analytics.
func (h *ProductHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.Catalog.Analytics(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Services handles GET /api/services.
func (h *ProductHandler) Services(w http.ResponseWriter, r *http.Request) {
	names, err := h.Catalog.Services(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": names})
}

// AddProduct handles POST /api/add-product.
// It creates quantity records for one product. With a quantity above
// one the emails are numbered as local+N@domain.
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req service.NewProduct
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.Inventory.AddProduct(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, fmt.Sprintf("Product %s added (%d accounts)", req.Name, n))
}

type updateProductRequest struct {
	ProductName string           `json:"product_name"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"image_url"`
}

// UpdateProduct handles POST /api/update-product.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.Inventory.UpdateProduct(r.Context(), req.ProductName, req.Price, req.ImageURL)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, fmt.Sprintf("Product updated (%d accounts)", n))
}

// UpdateOrder handles POST /api/update-product-order.
func (h *ProductHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order []service.ProductOrder `json:"order"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Inventory.UpdateOrder(r.Context(), req.Order); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, "Order updated")
}

// UpdateVisibility handles POST /api/update-product-visibility. Visible
// defaults to true.
func (h *ProductHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName string `json:"product_name"`
		Visible     *bool  `json:"visible"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	visible := req.Visible == nil || *req.Visible
	n, err := h.Inventory.SetVisibility(r.Context(), req.ProductName, visible)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, fmt.Sprintf("Visibility updated for %d accounts", n))
}

// DeleteProduct handles POST /api/delete-product.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName string `json:"product_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.Inventory.DeleteProduct(r.Context(), req.ProductName)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, fmt.Sprintf("Product deleted: %d accounts", n))
}

// BulkVisibility handles POST /api/bulk-visibility.
// The action is show_all or hide_all; anything else yields 400.
func (h *ProductHandler) BulkVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.Inventory.BulkVisibility(r.Context(), req.Action)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, fmt.Sprintf("%d products updated", n))
}

// BulkDelete handles POST /api/bulk-delete-products.
func (h *ProductHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	n, err := h.Inventory.DeleteAllProducts(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       fmt.Sprintf("%d accounts deleted", n),
		"deleted_count": n,
	})
}
