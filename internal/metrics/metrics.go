// Package metrics declares the Prometheus collectors of the store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP handler latency per route pattern and status code.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)

	// DiscountDeactivations counts campaigns switched off automatically,
	// by reason ("banner_missing", "expired").
	DiscountDeactivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_discount_deactivations_total",
			Help: "Discount campaigns deactivated without an admin action",
		},
		[]string{"reason"},
	)

	// ImportedAccounts counts bulk-import outcomes ("imported", "failed").
	ImportedAccounts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_imported_accounts_total",
			Help: "Credential records processed by bulk imports",
		},
		[]string{"outcome"},
	)

	// LoginFailures counts rejected login steps ("password", "locked", "code").
	LoginFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_login_failures_total",
			Help: "Rejected login attempts",
		},
		[]string{"reason"},
	)

	// CatalogProducts is the number of products in the last built storefront.
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_catalog_products",
			Help: "Products shown by the last storefront build",
		},
	)

	// RateLimited counts requests rejected by the per-client limiter.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"limiter"},
	)
)
