package http

import (
	"net/http"

	"github.com/atinyakov/GophStore/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups every handler mounted by NewRouter.
type Handlers struct {
	Pages     *PageHandler
	Auth      *AuthHandler
	Accounts  *AccountHandler
	Products  *ProductHandler
	Imports   *ImportHandler
	Feedback  *FeedbackHandler
	Banners   *BannerHandler
	Discounts *DiscountHandler
}

// RouterOptions tunes the middleware mounted by NewRouter.
type RouterOptions struct {
	// TrustProxy honours X-Forwarded-For, X-Real-IP and True-Client-IP
	// when deriving the client address. Enable it only behind a proxy
	// that overwrites those headers.
	TrustProxy bool
}

// Admin mutations share one budget per client address.
const adminMutationsPerMinute = 60

// NewRouter constructs and returns the HTTP handler of the store.
//
// Parameters:
//
//	h         - page, auth and API handlers to mount
//	sessions  - session loader placing the caller's session in the context
//	opts      - proxy trust for rate limiting
//	logger    - structured logger for request logging middleware
//
// Routes:
//
//	GET  /                      storefront
//	GET  /login, POST /login    password and second factor
//	GET  /logout
//	GET  /metrics               prometheus exposition
//	GET  /api/check-discount    public discount status
//	GET  /api/comments, POST /api/comments, POST /api/suggestions
//
// Everything else requires an admin session. Form posts additionally
// require the session CSRF token; JSON posts must be application/json.
//
// Middleware chain (applied in order):
//  1. RealIP (only with opts.TrustProxy) - client address from proxy headers
//  2. Recoverer                          - turns panics into 500
//  3. SecurityHeaders                    - nosniff, frame and XSS headers
//  4. WithRequestLogging(logger)         - logs requests, records durations
//  5. sessions.Load                      - attaches the session, if any
//
// Per-route rate limits key on the client address: login, account and
// report reads, and every admin mutation.
func NewRouter(h Handlers, sessions *middleware.Sessions, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	if opts.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(sessions.Load)

	loginLimit := middleware.NewRateLimiter("login", 5)
	addAccountLimit := middleware.NewRateLimiter("add_account", 10)
	accountsLimit := middleware.NewRateLimiter("accounts", 30)
	reportLimit := middleware.NewRateLimiter("import_report", 10)
	servicesLimit := middleware.NewRateLimiter("services", 20)
	mutationLimit := middleware.NewRateLimiter("admin_mutation", adminMutationsPerMinute)

	// Public pages
	r.Get("/", h.Pages.Index)
	r.Get("/login", h.Auth.LoginPage)
	r.With(loginLimit.Limit).Post("/login", h.Auth.Login)
	r.Get("/logout", h.Auth.Logout)
	r.Handle("/metrics", promhttp.Handler())

	// Public API
	r.Get("/api/check-discount", h.Discounts.Check)
	r.Get("/api/comments", h.Feedback.Comments)
	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Post("/api/comments", h.Feedback.AddComment)
		r.Post("/api/suggestions", h.Feedback.AddSuggestion)
	})

	// Admin
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Get("/admin", h.Pages.Admin)
		r.Get("/admin/dashboard", h.Pages.Dashboard)

		r.Group(func(r chi.Router) {
			r.Use(mutationLimit.Limit)
			r.Use(middleware.RequireCSRF)
			r.With(addAccountLimit.Limit).Post("/add_account", h.Accounts.AddAccount)
			r.Post("/edit_account", h.Accounts.EditAccount)
			r.Post("/delete_account/{id}", h.Accounts.DeleteAccount)
			r.Post("/import_accounts", h.Imports.ImportAccounts)
			r.Post("/import_bulk_emails", h.Imports.ImportBulkEmails)
			r.Post("/maintenance/clean_duplicates", h.Accounts.CleanDuplicates)
			r.Post("/maintenance/clean_failed", h.Accounts.CleanFailed)
		})

		r.With(accountsLimit.Limit).Get("/api/accounts", h.Accounts.List)
		r.With(reportLimit.Limit).Get("/api/import_report", h.Imports.Report)
		r.With(servicesLimit.Limit).Get("/api/services", h.Products.Services)
		r.Get("/api/analytics", h.Products.Analytics)
		r.Get("/api/store-products", h.Products.StoreProducts)
		r.Get("/api/store-statistics", h.Products.Statistics)
		r.Get("/api/banners", h.Banners.List)
		r.Get("/api/admin/suggestions", h.Feedback.Suggestions)

		r.Group(func(r chi.Router) {
			r.Use(mutationLimit.Limit)
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Post("/api/add-product", h.Products.AddProduct)
			r.Post("/api/update-product", h.Products.UpdateProduct)
			r.Post("/api/update-product-order", h.Products.UpdateOrder)
			r.Post("/api/update-product-visibility", h.Products.UpdateVisibility)
			r.Post("/api/delete-product", h.Products.DeleteProduct)
			r.Post("/api/bulk-visibility", h.Products.BulkVisibility)
			r.Post("/api/bulk-delete-products", h.Products.BulkDelete)

			r.Post("/api/banners", h.Banners.Add)
			r.Post("/api/add-banner", h.Banners.Add)
			r.Post("/api/update-banner", h.Banners.Update)
			r.Post("/api/delete-banner", h.Banners.Delete)

			r.Post("/api/create-discount-event", h.Discounts.CreateEvent)
		})

		// Deactivation carries no body.
		r.With(mutationLimit.Limit).Post("/api/deactivate-discount", h.Discounts.Deactivate)
	})

	return r
}
