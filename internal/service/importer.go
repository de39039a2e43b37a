package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atinyakov/GophStore/internal/metrics"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/validator"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImportStore defines the record operations needed by the ImportService.
type ImportStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, acc *models.Account) error
}

// Failure reasons reported per line.
const (
	ReasonDuplicate     = "email already exists"
	ReasonNoService     = "no service name before credentials"
	ReasonInvalidFormat = "invalid email:password line"
)

const bulkDescription = "Almacén de correos"

var (
	defaultImportPrice = decimal.RequireFromString("15.99")
	defaultBulkPrice   = decimal.RequireFromString("9.99")
)

// FailedItem is one line that could not be imported.
type FailedItem struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ImportReport describes the last bulk import.
type ImportReport struct {
	LastImport     time.Time    `json:"last_import"`
	ServiceName    string       `json:"service_name"`
	TotalImported  int          `json:"total_imported"`
	FailedCount    int          `json:"failed_count"`
	FailedAccounts []FailedItem `json:"failed_accounts"`
}

func (r *ImportReport) fail(email, reason string) {
	r.FailedCount++
	r.FailedAccounts = append(r.FailedAccounts, FailedItem{Email: email, Reason: reason})
}

// Masked returns a copy of r with every failed email masked.
func (r ImportReport) Masked() ImportReport {
	failed := make([]FailedItem, len(r.FailedAccounts))
	for i, f := range r.FailedAccounts {
		failed[i] = FailedItem{Email: MaskEmail(f.Email), Reason: f.Reason}
	}
	r.FailedAccounts = failed
	return r
}

// ReportStore keeps the report of the last import.
type ReportStore interface {
	Save(ctx context.Context, r *ImportReport) error
	// Load returns nil when no import has run yet.
	Load(ctx context.Context) (*ImportReport, error)
}

// ImportService parses bulk credential uploads.
type ImportService struct {
	store   ImportStore
	reports ReportStore
	log     *zap.Logger
	now     func() time.Time
}

// NewImportService constructs an ImportService.
func NewImportService(store ImportStore, reports ReportStore, log *zap.Logger) *ImportService {
	return &ImportService{store: store, reports: reports, log: log, now: time.Now}
}

// AccountsImport is a text upload of service-name lines each followed by
// email:password lines.
type AccountsImport struct {
	Text        string
	DefaultType string
	// DefaultPrice is 15.99 when nil.
	DefaultPrice *decimal.Decimal
}

// ImportAccounts creates one record per credential line. A service-name
// line applies to every credential line after it until the next
// service-name line. Duplicate emails and malformed lines are reported,
// never fatal.
func (s *ImportService) ImportAccounts(ctx context.Context, in AccountsImport) (*ImportReport, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalid(errors.New("nothing to import"))
	}
	typ := strings.TrimSpace(in.DefaultType)
	if typ == "" {
		typ = "Other"
	}
	price := defaultImportPrice
	if in.DefaultPrice != nil {
		price = *in.DefaultPrice
	}
	if err := validator.ValidatePrice(price); err != nil {
		return nil, invalid(err)
	}

	report := s.newReport()
	var services []string
	current := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		email, password, isCredential := strings.Cut(line, ":")
		if !isCredential {
			current = line
			if !slices.Contains(services, line) {
				services = append(services, line)
			}
			continue
		}

		email, password = strings.TrimSpace(email), strings.TrimSpace(password)
		if current == "" {
			report.fail(email, ReasonNoService)
			continue
		}
		if validator.ValidateCredentialEmail(email) != nil || password == "" {
			report.fail(email, ReasonInvalidFormat)
			continue
		}
		s.importOne(ctx, report, &models.Account{
			Email:    email,
			Password: password,
			Name:     current,
			Type:     typ,
			Price:    price,
		})
	}
	report.ServiceName = strings.Join(services, ", ")

	s.finish(ctx, report)
	return report, nil
}

// BulkImport is a list of emails sharing one password and one product.
type BulkImport struct {
	ServiceName string
	Password    string
	Type        string
	// Price is 9.99 when nil.
	Price  *decimal.Decimal
	Emails string
}

// ImportBulkEmails creates one record per email line.
func (s *ImportService) ImportBulkEmails(ctx context.Context, in BulkImport) (*ImportReport, error) {
	in.ServiceName = strings.TrimSpace(in.ServiceName)
	in.Password = strings.TrimSpace(in.Password)
	if in.ServiceName == "" || in.Password == "" || strings.TrimSpace(in.Emails) == "" {
		return nil, invalid(errors.New("service name, password and emails are required"))
	}
	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = "Other"
	}
	price := defaultBulkPrice
	if in.Price != nil {
		price = *in.Price
	}
	if err := validator.ValidatePrice(price); err != nil {
		return nil, invalid(err)
	}

	var emails []string
	for _, line := range strings.Split(in.Emails, "\n") {
		line = strings.TrimSpace(line)
		if validator.ValidateCredentialEmail(line) == nil {
			emails = append(emails, line)
		}
	}
	if len(emails) == 0 {
		return nil, invalid(errors.New("no valid emails found"))
	}

	report := s.newReport()
	report.ServiceName = in.ServiceName
	for _, email := range emails {
		s.importOne(ctx, report, &models.Account{
			Email:       email,
			Password:    in.Password,
			Name:        in.ServiceName,
			Type:        typ,
			Price:       price,
			Description: bulkDescription,
		})
	}

	s.finish(ctx, report)
	return report, nil
}

// LastReport returns the report of the last import with emails masked,
// or nil when no import has run.
func (s *ImportService) LastReport(ctx context.Context) (*ImportReport, error) {
	r, err := s.reports.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load import report: %w", err)
	}
	if r == nil {
		return nil, nil
	}
	masked := r.Masked()
	return &masked, nil
}

func (s *ImportService) newReport() *ImportReport {
	return &ImportReport{LastImport: s.now().UTC(), FailedAccounts: []FailedItem{}}
}

func (s *ImportService) importOne(ctx context.Context, report *ImportReport, acc *models.Account) {
	exists, err := s.store.EmailExists(ctx, acc.Email)
	if err != nil {
		report.fail(acc.Email, "database error: "+err.Error())
		return
	}
	if exists {
		report.fail(acc.Email, ReasonDuplicate)
		return
	}
	acc.Quantity = 1
	acc.Status = models.StatusAvailable
	if err := s.store.Create(ctx, acc); err != nil {
		report.fail(acc.Email, "database error: "+err.Error())
		return
	}
	report.TotalImported++
}

func (s *ImportService) finish(ctx context.Context, report *ImportReport) {
	metrics.ImportedAccounts.WithLabelValues("imported").Add(float64(report.TotalImported))
	metrics.ImportedAccounts.WithLabelValues("failed").Add(float64(report.FailedCount))
	if err := s.reports.Save(ctx, report); err != nil {
		s.log.Warn("failed to store import report", zap.Error(err))
	}
	s.log.Info("import finished",
		zap.String("service", report.ServiceName),
		zap.Int("imported", report.TotalImported),
		zap.Int("failed", report.FailedCount))
}
