package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/validator"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountStore defines the record mutations needed by the InventoryService.
type AccountStore interface {
	Create(ctx context.Context, acc *models.Account) error
	Update(ctx context.Context, acc *models.Account) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateByName(ctx context.Context, name string, price decimal.Decimal, imageURL string) (int64, error)
	SetOrderByName(ctx context.Context, name string, order int) (int64, error)
	SetStatusByName(ctx context.Context, name string, status models.AccountStatus) (int64, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
	ShowAll(ctx context.Context) (int64, error)
	HideAll(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteByStatus(ctx context.Context, status models.AccountStatus) (int64, error)
	DeleteDuplicates(ctx context.Context) (int64, error)
}

// Bulk visibility actions.
const (
	ActionShowAll = "show_all"
	ActionHideAll = "hide_all"
)

// InventoryService manages single records and name-wide product operations.
type InventoryService struct {
	store AccountStore
	log   *zap.Logger
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(store AccountStore, log *zap.Logger) *InventoryService {
	return &InventoryService{store: store, log: log}
}

func trimAccount(acc *models.Account) {
	acc.Email = strings.TrimSpace(acc.Email)
	acc.Password = strings.TrimSpace(acc.Password)
	acc.Name = strings.TrimSpace(acc.Name)
	acc.Plan = strings.TrimSpace(acc.Plan)
	acc.Type = strings.TrimSpace(acc.Type)
	acc.ImageURL = strings.TrimSpace(acc.ImageURL)
}

// AddAccount stores a single available record.
func (s *InventoryService) AddAccount(ctx context.Context, acc *models.Account) error {
	trimAccount(acc)
	acc.Status = models.StatusAvailable
	if err := validator.ValidateAccount(acc); err != nil {
		return invalid(err)
	}
	if err := s.store.Create(ctx, acc); err != nil {
		return fmt.Errorf("add account: %w", err)
	}
	return nil
}

// EditAccount overwrites a record.
func (s *InventoryService) EditAccount(ctx context.Context, acc *models.Account) error {
	if acc.ID == "" {
		return invalid(errors.New("account id is empty"))
	}
	trimAccount(acc)
	if acc.Status == "" {
		acc.Status = models.StatusAvailable
	}
	if err := validator.ValidateAccount(acc); err != nil {
		return invalid(err)
	}
	ok, err := s.store.Update(ctx, acc)
	if err != nil {
		return fmt.Errorf("edit account: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteAccount removes a record.
func (s *InventoryService) DeleteAccount(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// NewProduct describes a batch of identical records created from one
// credential. With Quantity above one, emails become local+N@domain.
type NewProduct struct {
	Name     string           `json:"name"`
	Plan     string           `json:"plan"`
	Type     string           `json:"type"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int              `json:"quantity"`
	ImageURL string           `json:"image_url"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
}

// AddProduct creates Quantity records and returns how many were stored.
// Records written before a failure stay stored.
func (s *InventoryService) AddProduct(ctx context.Context, p NewProduct) (int, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.TrimSpace(p.Type)
	p.Email = strings.TrimSpace(p.Email)
	p.Password = strings.TrimSpace(p.Password)
	if p.Name == "" || p.Type == "" || p.Email == "" || p.Password == "" || p.Price == nil || !p.Price.IsPositive() {
		return 0, invalid(errors.New("name, type, price, email and password are required"))
	}
	if err := validator.ValidateCredentialEmail(p.Email); err != nil {
		return 0, invalid(err)
	}
	if p.Quantity < 1 {
		p.Quantity = 1
	}

	local, domain, _ := strings.Cut(p.Email, "@")
	created := 0
	for i := 1; i <= p.Quantity; i++ {
		email := p.Email
		if p.Quantity > 1 {
			email = fmt.Sprintf("%s+%d@%s", local, i, domain)
		}
		acc := &models.Account{
			Email:    email,
			Password: p.Password,
			Name:     p.Name,
			Plan:     strings.TrimSpace(p.Plan),
			Type:     p.Type,
			Price:    *p.Price,
			Quantity: 1,
			Status:   models.StatusAvailable,
			ImageURL: strings.TrimSpace(p.ImageURL),
		}
		if err := s.store.Create(ctx, acc); err != nil {
			return created, fmt.Errorf("add product: %w", err)
		}
		created++
	}
	return created, nil
}

// UpdateProduct sets price and image on every record of a product.
func (s *InventoryService) UpdateProduct(ctx context.Context, name string, price *decimal.Decimal, imageURL string) (int64, error) {
	if name == "" || price == nil {
		return 0, invalid(errors.New("product name and price are required"))
	}
	if err := validator.ValidatePrice(*price); err != nil {
		return 0, invalid(err)
	}
	n, err := s.store.UpdateByName(ctx, name, *price, imageURL)
	if err != nil {
		return 0, fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

// ProductOrder assigns a display order to a product name.
type ProductOrder struct {
	Name  string `json:"name"`
	Order *int   `json:"order"`
}

// UpdateOrder applies every complete entry of order.
func (s *InventoryService) UpdateOrder(ctx context.Context, order []ProductOrder) error {
	for _, item := range order {
		if item.Name == "" || item.Order == nil {
			continue
		}
		n, err := s.store.SetOrderByName(ctx, item.Name, *item.Order)
		if err != nil {
			return fmt.Errorf("update order of %q: %w", item.Name, err)
		}
		s.log.Debug("product order updated", zap.String("product", item.Name), zap.Int("order", *item.Order), zap.Int64("records", n))
	}
	return nil
}

// SetVisibility shows or hides every record of a product.
func (s *InventoryService) SetVisibility(ctx context.Context, name string, visible bool) (int64, error) {
	if name == "" {
		return 0, invalid(validator.ErrEmptyName)
	}
	status := models.StatusHidden
	if visible {
		status = models.StatusAvailable
	}
	n, err := s.store.SetStatusByName(ctx, name, status)
	if err != nil {
		return 0, fmt.Errorf("set visibility: %w", err)
	}
	return n, nil
}

// DeleteProduct removes every record of a product.
func (s *InventoryService) DeleteProduct(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, invalid(validator.ErrEmptyName)
	}
	n, err := s.store.DeleteByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return n, nil
}

// BulkVisibility applies ActionShowAll or ActionHideAll.
func (s *InventoryService) BulkVisibility(ctx context.Context, action string) (int64, error) {
	var (
		n   int64
		err error
	)
	switch action {
	case ActionShowAll:
		n, err = s.store.ShowAll(ctx)
	case ActionHideAll:
		n, err = s.store.HideAll(ctx)
	default:
		return 0, invalid(fmt.Errorf("unknown action %q", action))
	}
	if err != nil {
		return 0, fmt.Errorf("bulk visibility: %w", err)
	}
	return n, nil
}

// DeleteAllProducts removes every record.
func (s *InventoryService) DeleteAllProducts(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}
	s.log.Warn("all products deleted", zap.Int64("records", n))
	return n, nil
}

// CleanDuplicates keeps the oldest record per email.
func (s *InventoryService) CleanDuplicates(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteDuplicates(ctx)
	if err != nil {
		return 0, fmt.Errorf("clean duplicates: %w", err)
	}
	return n, nil
}

// CleanFailed removes records whose credentials do not work.
func (s *InventoryService) CleanFailed(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteByStatus(ctx, models.StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clean failed: %w", err)
	}
	return n, nil
}
