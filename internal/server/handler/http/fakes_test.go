package http

import (
	"context"

	"github.com/atinyakov/GophStore/internal/catalog"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/shopspring/decimal"
)

type fakeAuthService struct {
	CheckPasswordFunc func(ctx context.Context, email, password string) (*service.Challenge, error)
	VerifyCodeFunc    func(ctx context.Context, userID, code string) (*models.User, error)
}

func (f *fakeAuthService) CheckPassword(ctx context.Context, email, password string) (*service.Challenge, error) {
	return f.CheckPasswordFunc(ctx, email, password)
}

func (f *fakeAuthService) VerifyCode(ctx context.Context, userID, code string) (*models.User, error) {
	return f.VerifyCodeFunc(ctx, userID, code)
}

// fakeInventory records the last call of each mutation.
type fakeInventory struct {
	err error
	n   int64

	added      *models.Account
	edited     *models.Account
	deletedID  string
	product    service.NewProduct
	order      []service.ProductOrder
	visibility struct {
		name    string
		visible bool
	}
	updated struct {
		name     string
		price    *decimal.Decimal
		imageURL string
	}
	action string
}

func (f *fakeInventory) AddAccount(ctx context.Context, acc *models.Account) error {
	f.added = acc
	return f.err
}

func (f *fakeInventory) EditAccount(ctx context.Context, acc *models.Account) error {
	f.edited = acc
	return f.err
}

func (f *fakeInventory) DeleteAccount(ctx context.Context, id string) error {
	f.deletedID = id
	return f.err
}

func (f *fakeInventory) AddProduct(ctx context.Context, p service.NewProduct) (int, error) {
	f.product = p
	return int(f.n), f.err
}

func (f *fakeInventory) UpdateProduct(ctx context.Context, name string, price *decimal.Decimal, imageURL string) (int64, error) {
	f.updated.name, f.updated.price, f.updated.imageURL = name, price, imageURL
	return f.n, f.err
}

func (f *fakeInventory) UpdateOrder(ctx context.Context, order []service.ProductOrder) error {
	f.order = order
	return f.err
}

func (f *fakeInventory) SetVisibility(ctx context.Context, name string, visible bool) (int64, error) {
	f.visibility.name, f.visibility.visible = name, visible
	return f.n, f.err
}

func (f *fakeInventory) DeleteProduct(ctx context.Context, name string) (int64, error) {
	return f.n, f.err
}

func (f *fakeInventory) BulkVisibility(ctx context.Context, action string) (int64, error) {
	f.action = action
	return f.n, f.err
}

func (f *fakeInventory) DeleteAllProducts(ctx context.Context) (int64, error) { return f.n, f.err }
func (f *fakeInventory) CleanDuplicates(ctx context.Context) (int64, error)   { return f.n, f.err }
func (f *fakeInventory) CleanFailed(ctx context.Context) (int64, error)       { return f.n, f.err }

type fakeCatalog struct {
	products []catalog.Product
	accounts []models.Account
	masked   []service.AccountSummary
	err      error
}

func (f *fakeCatalog) Storefront(ctx context.Context) (*service.Storefront, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.Storefront{Products: f.products}, nil
}

func (f *fakeCatalog) Accounts(ctx context.Context) ([]models.Account, error) {
	return f.accounts, f.err
}

func (f *fakeCatalog) Dashboard(ctx context.Context) (catalog.DashboardReport, []catalog.Product, error) {
	return catalog.DashboardReport{}, f.products, f.err
}

func (f *fakeCatalog) MaskedAccounts(ctx context.Context) ([]service.AccountSummary, error) {
	return f.masked, f.err
}

func (f *fakeCatalog) StoreProducts(ctx context.Context) ([]catalog.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalog) Statistics(ctx context.Context) (catalog.Statistics, error) {
	return catalog.Stats(nil), f.err
}

func (f *fakeCatalog) Analytics(ctx context.Context) (catalog.AnalyticsReport, error) {
	return catalog.Analytics(nil), f.err
}

func (f *fakeCatalog) Services(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.products))
	for _, p := range f.products {
		names = append(names, p.BaseName)
	}
	return names, f.err
}

type fakeImports struct {
	report   *service.ImportReport
	err      error
	accounts service.AccountsImport
	bulk     service.BulkImport
}

func (f *fakeImports) ImportAccounts(ctx context.Context, in service.AccountsImport) (*service.ImportReport, error) {
	f.accounts = in
	return f.report, f.err
}

func (f *fakeImports) ImportBulkEmails(ctx context.Context, in service.BulkImport) (*service.ImportReport, error) {
	f.bulk = in
	return f.report, f.err
}

func (f *fakeImports) LastReport(ctx context.Context) (*service.ImportReport, error) {
	return f.report, f.err
}

type fakeFeedback struct {
	comments    []models.Comment
	suggestions []models.Suggestion
	err         error
	added       *models.Comment
	suggested   *models.Suggestion
}

func (f *fakeFeedback) LatestComments(ctx context.Context) ([]models.Comment, error) {
	return f.comments, f.err
}

func (f *fakeFeedback) AddComment(ctx context.Context, c *models.Comment) error {
	f.added = c
	return f.err
}

func (f *fakeFeedback) Suggestions(ctx context.Context) ([]models.Suggestion, error) {
	return f.suggestions, f.err
}

func (f *fakeFeedback) AddSuggestion(ctx context.Context, s *models.Suggestion) error {
	f.suggested = s
	return f.err
}

type fakeBanners struct {
	banners []models.Banner
	err     error
	created *models.Banner
	updated *models.Banner
	deleted string
}

func (f *fakeBanners) List(ctx context.Context) ([]models.Banner, error) { return f.banners, f.err }

func (f *fakeBanners) Create(ctx context.Context, b *models.Banner) error {
	if f.err != nil {
		return f.err
	}
	b.ID = "banner-1"
	f.created = b
	return nil
}

func (f *fakeBanners) Update(ctx context.Context, b *models.Banner) error {
	f.updated = b
	return f.err
}

func (f *fakeBanners) Delete(ctx context.Context, id string) error {
	f.deleted = id
	return f.err
}

type fakeDiscounts struct {
	event       service.DiscountEvent
	status      service.DiscountStatus
	deactivated int64
	err         error
}

func (f *fakeDiscounts) CreateEvent(ctx context.Context, ev service.DiscountEvent) (string, error) {
	f.event = ev
	return "banner-9", f.err
}

func (f *fakeDiscounts) DeactivateAll(ctx context.Context) (int64, error) {
	return f.deactivated, f.err
}

func (f *fakeDiscounts) Check(ctx context.Context) (service.DiscountStatus, error) {
	return f.status, f.err
}
