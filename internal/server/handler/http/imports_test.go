package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/atinyakov/GophStore/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImportHandler_ImportAccounts(t *testing.T) {
	imp := &fakeImports{report: &service.ImportReport{TotalImported: 2, FailedCount: 1}}
	h := &ImportHandler{Imports: imp, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.ImportAccounts(rec, postForm("/import_accounts", url.Values{
		"accounts_text": {"Netflix\na@x.com:pw"},
		"default_type":  {"Streaming"},
		"default_price": {"7.5"},
	}))

	assert.Equal(t, "Import finished: 2 imported, 1 failed", noticeOf(t, rec))
	assert.Equal(t, "Netflix\na@x.com:pw", imp.accounts.Text)
	assert.Equal(t, "Streaming", imp.accounts.DefaultType)
	require.NotNil(t, imp.accounts.DefaultPrice)
	assert.Equal(t, "7.5", imp.accounts.DefaultPrice.String())
}

func TestImportHandler_ImportAccountsDefaultPrice(t *testing.T) {
	imp := &fakeImports{report: &service.ImportReport{}}
	h := &ImportHandler{Imports: imp, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.ImportAccounts(rec, postForm("/import_accounts", url.Values{"accounts_text": {"x"}}))
	noticeOf(t, rec)
	assert.Nil(t, imp.accounts.DefaultPrice)

	rec = httptest.NewRecorder()
	h.ImportAccounts(rec, postForm("/import_accounts", url.Values{"default_price": {"abc"}}))
	assert.Contains(t, noticeOf(t, rec), `invalid price "abc"`)
}

func TestImportHandler_ImportBulkEmails(t *testing.T) {
	imp := &fakeImports{report: &service.ImportReport{TotalImported: 3}}
	h := &ImportHandler{Imports: imp, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.ImportBulkEmails(rec, postForm("/import_bulk_emails", url.Values{
		"service_name":       {"Disney+"},
		"universal_password": {"shared"},
		"bulk_type":          {"Streaming"},
		"bulk_price":         {"4.99"},
		"emails_list":        {"a@x.com\nb@x.com"},
	}))

	assert.Equal(t, "Import finished: 3 imported, 0 failed", noticeOf(t, rec))
	assert.Equal(t, "Disney+", imp.bulk.ServiceName)
	assert.Equal(t, "shared", imp.bulk.Password)
	assert.Equal(t, "a@x.com\nb@x.com", imp.bulk.Emails)
}

func TestImportHandler_Report(t *testing.T) {
	imp := &fakeImports{}
	h := &ImportHandler{Imports: imp, Log: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Report(rec, httptest.NewRequest(http.MethodGet, "/api/import_report", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	imp.report = &service.ImportReport{
		LastImport:     time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		ServiceName:    "Netflix",
		TotalImported:  1,
		FailedCount:    1,
		FailedAccounts: []service.FailedItem{{Email: "dup***@x.com", Reason: service.ReasonDuplicate}},
	}
	rec = httptest.NewRecorder()
	h.Report(rec, httptest.NewRequest(http.MethodGet, "/api/import_report", nil))
	assert.Contains(t, rec.Body.String(), `"service_name":"Netflix"`)
	assert.Contains(t, rec.Body.String(), "dup***@x.com")
}
