package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/atinyakov/GophStore/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImportService defines the bulk uploads.
type ImportService interface {
	ImportAccounts(ctx context.Context, in service.AccountsImport) (*service.ImportReport, error)
	ImportBulkEmails(ctx context.Context, in service.BulkImport) (*service.ImportReport, error)
	LastReport(ctx context.Context) (*service.ImportReport, error)
}

// ImportHandler serves the bulk import forms and their report.
type ImportHandler struct {
	Imports ImportService
	Log     *zap.Logger
}

// optionalDecimal parses a form value; empty means unset.
func optionalDecimal(v string) (*decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price %q", service.ErrInvalidInput, v)
	}
	return &d, nil
}

func importNotice(r *service.ImportReport) string {
	return fmt.Sprintf("Import finished: %d imported, %d failed", r.TotalImported, r.FailedCount)
}

// ImportAccounts handles POST /import_accounts.
// The accounts_text field holds a service name line followed by
// email:password lines; default_type and default_price apply to every
// imported record.
// Duplicates and malformed lines are skipped and listed in the report,
// and the redirect notice carries the imported and failed counts.
func (h *ImportHandler) ImportAccounts(w http.ResponseWriter, r *http.Request) {
	price, err := optionalDecimal(r.FormValue("default_price"))
	if err != nil {
		formError(w, r, h.Log, err)
		return
	}
	report, err := h.Imports.ImportAccounts(r.Context(), service.AccountsImport{
		Text:         r.FormValue("accounts_text"),
		DefaultType:  r.FormValue("default_type"),
		DefaultPrice: price,
	})
	if err != nil {
		formError(w, r, h.Log, err)
		return
	}
	redirectAdmin(w, r, importNotice(report))
}

// ImportBulkEmails handles POST /import_bulk_emails.
func (h *ImportHandler) ImportBulkEmails(w http.ResponseWriter, r *http.Request) {
	price, err := optionalDecimal(r.FormValue("bulk_price"))
	if err != nil {
		formError(w, r, h.Log, err)
		return
	}
	report, err := h.Imports.ImportBulkEmails(r.Context(), service.BulkImport{
		ServiceName: r.FormValue("service_name"),
		Password:    r.FormValue("universal_password"),
		Type:        r.FormValue("bulk_type"),
		Price:       price,
		Emails:      r.FormValue("emails_list"),
	})
	if err != nil {
		formError(w, r, h.Log, err)
		return
	}
	redirectAdmin(w, r, importNotice(report))
}

// Report handles GET /api/import_report. Before the first import the body
// is an empty object.
func (h *ImportHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.Imports.LastReport(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if report == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, report)
}
