package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/service"
)

// UserCreator stores new back-office users.
type UserCreator interface {
	CreateUser(ctx context.Context, email, password string, admin bool) (*models.User, error)
}

// Importer runs bulk credential imports.
type Importer interface {
	ImportAccounts(ctx context.Context, in service.AccountsImport) (*service.ImportReport, error)
	ImportBulkEmails(ctx context.Context, in service.BulkImport) (*service.ImportReport, error)
}

// CreateAdmin prompts for email (unless given) and password and stores an
// admin user. Second-factor enrollment happens at the first web login.
func CreateAdmin(ctx context.Context, users UserCreator, p *Prompter, email string) (*models.User, error) {
	var err error
	if email == "" {
		if email, err = p.Line("Email"); err != nil {
			return nil, err
		}
	}
	password, err := p.Password("Password")
	if err != nil {
		return nil, err
	}
	u, err := users.CreateUser(ctx, email, password, true)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Admin %s created; scan the 2FA code at the first login.\n", u.Email)
	return u, nil
}

// ImportFile imports a file of service-name lines each followed by
// email:password lines.
func ImportFile(ctx context.Context, imp Importer, path string, in service.AccountsImport, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	in.Text = string(data)
	report, err := imp.ImportAccounts(ctx, in)
	if err != nil {
		return err
	}
	PrintReport(out, report)
	return nil
}

// ImportEmailFile imports a file with one email per line sharing one password.
func ImportEmailFile(ctx context.Context, imp Importer, path string, in service.BulkImport, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read email file: %w", err)
	}
	in.Emails = string(data)
	report, err := imp.ImportBulkEmails(ctx, in)
	if err != nil {
		return err
	}
	PrintReport(out, report)
	return nil
}

// PrintReport writes a human-readable import summary. Failed emails are
// masked.
func PrintReport(out io.Writer, r *service.ImportReport) {
	masked := r.Masked()
	fmt.Fprintf(out, "Service: %s\nImported: %d\nFailed: %d\n", masked.ServiceName, masked.TotalImported, masked.FailedCount)
	for _, f := range masked.FailedAccounts {
		fmt.Fprintf(out, "  %s: %s\n", f.Email, f.Reason)
	}
}
