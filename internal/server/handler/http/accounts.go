package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService defines the record mutations behind the back-office.
type InventoryService interface {
	AddAccount(ctx context.Context, acc *models.Account) error
	EditAccount(ctx context.Context, acc *models.Account) error
	DeleteAccount(ctx context.Context, id string) error
	AddProduct(ctx context.Context, p service.NewProduct) (int, error)
	UpdateProduct(ctx context.Context, name string, price *decimal.Decimal, imageURL string) (int64, error)
	UpdateOrder(ctx context.Context, order []service.ProductOrder) error
	SetVisibility(ctx context.Context, name string, visible bool) (int64, error)
	DeleteProduct(ctx context.Context, name string) (int64, error)
	BulkVisibility(ctx context.Context, action string) (int64, error)
	DeleteAllProducts(ctx context.Context) (int64, error)
	CleanDuplicates(ctx context.Context) (int64, error)
	CleanFailed(ctx context.Context) (int64, error)
}

// AccountLister returns records with masked emails.
type AccountLister interface {
	MaskedAccounts(ctx context.Context) ([]service.AccountSummary, error)
}

// AccountHandler serves single-record administration.
type AccountHandler struct {
	Inventory InventoryService
	Accounts  AccountLister
	Log       *zap.Logger
}

// accountFromForm reads the add/edit account form. Price and quantity
// errors are reported as invalid input.
func accountFromForm(r *http.Request) (*models.Account, error) {
	acc := &models.Account{
		ID:          r.FormValue("account_id"),
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		Name:        r.FormValue("name"),
		Plan:        r.FormValue("plan"),
		Type:        r.FormValue("type"),
		ImageURL:    r.FormValue("image_url"),
		Description: strings.TrimSpace(r.FormValue("description")),
		Status:      models.AccountStatus(strings.TrimSpace(r.FormValue("status"))),
		Quantity:    1,
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price", service.ErrInvalidInput)
	}
	acc.Price = price
	if q := strings.TrimSpace(r.FormValue("quantity")); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid quantity", service.ErrInvalidInput)
		}
		acc.Quantity = n
	}
	return acc, nil
}

// AddAccount handles POST /add_account.
// It expects a form with email, password, name and price, plus optional
// plan, type, description, image_url and quantity. On success it
// redirects to the admin page with a notice; validation and storage
// failures redirect with an "Error: " notice instead.
func (h *AccountHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := accountFromForm(r)
	if err == nil {
		err = h.Inventory.AddAccount(r.Context(), acc)
	}
	if err != nil {
		formError(w, r, h.Log, err)
		return
	}
	redirectAdmin(w, r, fmt.Sprintf("Account %s added", acc.Name))
}

// EditAccount handles POST /edit_account.
func (h *AccountHandler) EditAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := accountFromForm(r)
	if err == nil {
		err = h.Inventory.EditAccount(r.Context(), acc)
	}
	if err != nil {
		formError(w, r, h.Log, err)
		return
	}
	redirectAdmin(w, r, "Account updated")
}

// DeleteAccount handles POST /delete_account/{id}.
// An unknown id is reported through the notice and changes nothing.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Inventory.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		formError(w, r, h.Log, err)
		return
	}
	redirectAdmin(w, r, "Account deleted")
}

// List handles GET /api/accounts.
// Emails are masked before serialization; the list is never null.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.MaskedAccounts(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if accounts == nil {
		accounts = []service.AccountSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

// CleanDuplicates handles POST /maintenance/clean_duplicates.
// It keeps the oldest record per email and responds with
// {"removed": n}.
func (h *AccountHandler) CleanDuplicates(w http.ResponseWriter, r *http.Request) {
	n, err := h.Inventory.CleanDuplicates(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

// CleanFailed handles POST /maintenance/clean_failed.
func (h *AccountHandler) CleanFailed(w http.ResponseWriter, r *http.Request) {
	n, err := h.Inventory.CleanFailed(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}
