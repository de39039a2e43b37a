package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/GophStore/internal/crypto"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, email, password, name, plan, type, price, quantity, status,
	description, image_url, display_order, created_at`

// accountRow is the stored shape of a credential record; Email and
// Password hold encoded values.
type accountRow struct {
	ID           string          `db:"id"`
	Email        string          `db:"email"`
	Password     string          `db:"password"`
	Name         string          `db:"name"`
	Plan         string          `db:"plan"`
	Type         string          `db:"type"`
	Price        decimal.Decimal `db:"price"`
	Quantity     int             `db:"quantity"`
	Status       string          `db:"status"`
	Description  string          `db:"description"`
	ImageURL     string          `db:"image_url"`
	DisplayOrder int             `db:"display_order"`
	CreatedAt    time.Time       `db:"created_at"`
}

// PostgresAccountRepository stores credential records, encoding the
// sensitive fields with Codec.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
	// Codec encodes email and password at the storage boundary.
	Codec crypto.FieldCodec
}

// NewPostgresAccountRepository creates a repository over db.
func NewPostgresAccountRepository(db *sqlx.DB, codec crypto.FieldCodec) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db, Codec: codec}
}

func (r *PostgresAccountRepository) decode(row accountRow) (models.Account, error) {
	email, err := r.Codec.Decode(row.Email)
	if err != nil {
		return models.Account{}, fmt.Errorf("decode email of %s: %w", row.ID, err)
	}
	password, err := r.Codec.Decode(row.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("decode password of %s: %w", row.ID, err)
	}
	acc := models.Account{
		ID:           row.ID,
		Email:        email,
		Password:     password,
		Name:         row.Name,
		Plan:         row.Plan,
		Type:         row.Type,
		Price:        row.Price,
		Quantity:     row.Quantity,
		Status:       models.AccountStatus(row.Status),
		Description:  row.Description,
		ImageURL:     row.ImageURL,
		DisplayOrder: row.DisplayOrder,
		CreatedAt:    row.CreatedAt,
	}
	acc.Normalize()
	return acc, nil
}

// List returns every record in creation order.
func (r *PostgresAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	var rows []accountRow
	err := r.DB.SelectContext(ctx, &rows,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		acc, err := r.decode(row)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// GetByID fetches a single record.
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var row accountRow
	err := r.DB.GetContext(ctx, &row, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	acc, err := r.decode(row)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Create inserts acc, assigning its ID.
func (r *PostgresAccountRepository) Create(ctx context.Context, acc *models.Account) error {
	acc.Normalize()
	email, err := r.Codec.Encode(acc.Email)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}
	password, err := r.Codec.Encode(acc.Password)
	if err != nil {
		return fmt.Errorf("encode password: %w", err)
	}

	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO accounts (id, email, email_digest, password, name, plan, type, price,
			quantity, status, description, image_url, display_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, id, email, r.Codec.Fingerprint(acc.Email), password, acc.Name, acc.Plan, acc.Type, acc.Price,
		acc.Quantity, string(acc.Status), acc.Description, acc.ImageURL, acc.DisplayOrder, acc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	acc.ID = id
	return nil
}

// Update overwrites every editable field of acc. It returns false when no
// record has acc.ID.
func (r *PostgresAccountRepository) Update(ctx context.Context, acc *models.Account) (bool, error) {
	if !validID(acc.ID) {
		return false, nil
	}
	email, err := r.Codec.Encode(acc.Email)
	if err != nil {
		return false, fmt.Errorf("encode email: %w", err)
	}
	password, err := r.Codec.Encode(acc.Password)
	if err != nil {
		return false, fmt.Errorf("encode password: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE accounts SET email = $2, email_digest = $3, password = $4, name = $5, plan = $6,
			type = $7, price = $8, quantity = $9, status = $10, description = $11, image_url = $12
		WHERE id = $1
	`, acc.ID, email, r.Codec.Fingerprint(acc.Email), password, acc.Name, acc.Plan, acc.Type,
		acc.Price, acc.Quantity, string(acc.Status), acc.Description, acc.ImageURL)
	if err != nil {
		return false, fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update account: %w", err)
	}
	return n > 0, nil
}

// Delete removes a single record and reports whether it existed.
func (r *PostgresAccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	n, err := r.exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete account: %w", err)
	}
	return n > 0, nil
}

// EmailExists reports whether a record with the same email is stored.
// Rows written before fingerprinting are matched on their plain or
// ENC_ encoded email.
func (r *PostgresAccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowxContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE email_digest = $1 OR email = $2 OR email = $3)`,
		r.Codec.Fingerprint(email), email, crypto.LegacyEncode(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// BackfillDigests fingerprints the emails of rows stored without a
// digest and returns how many were updated. Rows whose email cannot be
// decoded are left as they are.
func (r *PostgresAccountRepository) BackfillDigests(ctx context.Context) (int64, error) {
	var rows []struct {
		ID    string `db:"id"`
		Email string `db:"email"`
	}
	if err := r.DB.SelectContext(ctx, &rows,
		`SELECT id, email FROM accounts WHERE email_digest = '' AND email <> ''`); err != nil {
		return 0, fmt.Errorf("list accounts without digest: %w", err)
	}

	var updated int64
	for _, row := range rows {
		email, err := r.Codec.Decode(row.Email)
		if err != nil {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, `UPDATE accounts SET email_digest = $2 WHERE id = $1`,
			row.ID, r.Codec.Fingerprint(email)); err != nil {
			return updated, fmt.Errorf("set digest of %s: %w", row.ID, err)
		}
		updated++
	}
	return updated, nil
}

// UpdateByName sets price and image of every record named name.
func (r *PostgresAccountRepository) UpdateByName(ctx context.Context, name string, price decimal.Decimal, imageURL string) (int64, error) {
	return r.exec(ctx, `UPDATE accounts SET price = $2, image_url = $3 WHERE name = $1`, name, price, imageURL)
}

// SetOrderByName sets the display order of every record named name.
func (r *PostgresAccountRepository) SetOrderByName(ctx context.Context, name string, order int) (int64, error) {
	return r.exec(ctx, `UPDATE accounts SET display_order = $2 WHERE name = $1`, name, order)
}

// SetStatusByName moves the available and hidden records named name to
// status. Sold and failed records keep their status.
func (r *PostgresAccountRepository) SetStatusByName(ctx context.Context, name string, status models.AccountStatus) (int64, error) {
	return r.exec(ctx,
		`UPDATE accounts SET status = $2 WHERE name = $1 AND status IN ('available', 'hidden')`,
		name, string(status))
}

// DeleteByName removes every record named name.
func (r *PostgresAccountRepository) DeleteByName(ctx context.Context, name string) (int64, error) {
	return r.exec(ctx, `DELETE FROM accounts WHERE name = $1`, name)
}

// ShowAll makes every hidden record available again.
func (r *PostgresAccountRepository) ShowAll(ctx context.Context) (int64, error) {
	return r.exec(ctx, `UPDATE accounts SET status = 'available' WHERE status = 'hidden'`)
}

// HideAll hides every available record.
func (r *PostgresAccountRepository) HideAll(ctx context.Context) (int64, error) {
	return r.exec(ctx, `UPDATE accounts SET status = 'hidden' WHERE status = 'available'`)
}

// DeleteAll removes every record.
func (r *PostgresAccountRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.exec(ctx, `DELETE FROM accounts`)
}

// DeleteByStatus removes every record with the given status.
func (r *PostgresAccountRepository) DeleteByStatus(ctx context.Context, status models.AccountStatus) (int64, error) {
	return r.exec(ctx, `DELETE FROM accounts WHERE status = $1`, string(status))
}

// DeleteDuplicates keeps the oldest record of every email and removes the
// rest. Legacy rows are fingerprinted first so they take part.
func (r *PostgresAccountRepository) DeleteDuplicates(ctx context.Context) (int64, error) {
	if _, err := r.BackfillDigests(ctx); err != nil {
		return 0, err
	}
	return r.exec(ctx, `
		DELETE FROM accounts a USING (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY email_digest ORDER BY created_at, id) AS rn
			FROM accounts WHERE email_digest <> ''
		) d
		WHERE a.id = d.id AND d.rn > 1
	`)
}

// DistinctNames lists every product name in alphabetical order.
func (r *PostgresAccountRepository) DistinctNames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := r.DB.SelectContext(ctx, &names,
		`SELECT DISTINCT name FROM accounts WHERE name <> '' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	return names, nil
}

func (r *PostgresAccountRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
