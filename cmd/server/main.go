// Package main starts the store server: storefront, back-office and JSON
// API over HTTP/1.1 and cleartext HTTP/2, or HTTPS when a certificate is
// configured (see tools/certgen).
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/GophStore/internal/config"
	"github.com/atinyakov/GophStore/internal/crypto"
	"github.com/atinyakov/GophStore/internal/db"
	"github.com/atinyakov/GophStore/internal/logger"
	"github.com/atinyakov/GophStore/internal/middleware"
	"github.com/atinyakov/GophStore/internal/notify"
	"github.com/atinyakov/GophStore/internal/repository"
	"github.com/atinyakov/GophStore/internal/server/handler/http"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/atinyakov/GophStore/internal/session"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 30 * time.Second

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer func() { _ = postgresDB.Close() }()

	codec, err := crypto.NewAEADCodec([]byte(options.FieldKey))
	if err != nil {
		zapLogger.Fatal("cannot init field codec", zap.Error(err))
	}

	// Sessions and the import report live in Redis when one is configured.
	var (
		sessions session.Store       = session.NewMemoryStore()
		reports  service.ReportStore = service.NewMemoryReportStore()
	)
	if options.Redis.Address != "" {
		client, err := db.NewRedisClient(options.Redis.Address, options.Redis.Password, options.Redis.DB)
		if err != nil {
			zapLogger.Fatal("cannot init redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		sessions = session.NewRedisStore(client)
		reports = service.NewRedisReportStore(client)
		zapLogger.Info("using redis for sessions and import reports", zap.String("addr", options.Redis.Address))
	}

	var notifier service.Notifier
	if options.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     options.SMTP.Host,
			Port:     options.SMTP.Port,
			User:     options.SMTP.User,
			Password: options.SMTP.Password,
			From:     options.SMTP.From,
			To:       options.SMTP.AdminEmail,
		})
	}

	// Repositories
	accountRepo := repository.NewPostgresAccountRepository(postgresDB, codec)
	bannerRepo := repository.NewPostgresBannerRepository(postgresDB)
	discountRepo := repository.NewPostgresDiscountRepository(postgresDB)
	feedbackRepo := repository.NewPostgresFeedbackRepository(postgresDB)
	userRepo := repository.NewPostgresUserRepository(postgresDB)

	// Services
	discountService := service.NewDiscountService(discountRepo, bannerRepo, zapLogger)
	catalogService := service.NewCatalogService(accountRepo, bannerRepo, discountService, zapLogger)
	inventoryService := service.NewInventoryService(accountRepo, zapLogger)
	importService := service.NewImportService(accountRepo, reports, zapLogger)
	bannerService := service.NewBannerService(bannerRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, notifier, zapLogger)
	authService := service.NewAuthService(userRepo, service.AuthConfig{
		Issuer:            options.TOTPIssuer,
		MaxFailedAttempts: options.MaxFailedAttempts,
		LockoutDuration:   options.LockoutDuration,
		FailureDelay:      options.LoginFailureDelay,
	}, zapLogger)

	if n, err := accountRepo.BackfillDigests(ctx); err != nil {
		zapLogger.Warn("failed to fingerprint legacy accounts", zap.Error(err))
	} else if n > 0 {
		zapLogger.Info("fingerprinted legacy accounts", zap.Int64("accounts", n))
	}

	db.StartDiscountSweeper(ctx, postgresDB, options.DiscountSweepInterval, zapLogger)

	router := http.NewRouter(http.Handlers{
		Pages:     &http.PageHandler{Catalog: catalogService, Log: zapLogger},
		Auth:      &http.AuthHandler{AuthService: authService, Sessions: sessions, SessionTTL: options.SessionTTL, Log: zapLogger},
		Accounts:  &http.AccountHandler{Inventory: inventoryService, Accounts: catalogService, Log: zapLogger},
		Products:  &http.ProductHandler{Inventory: inventoryService, Catalog: catalogService, Log: zapLogger},
		Imports:   &http.ImportHandler{Imports: importService, Log: zapLogger},
		Feedback:  &http.FeedbackHandler{Feedback: feedbackService, Log: zapLogger},
		Banners:   &http.BannerHandler{Banners: bannerService, Log: zapLogger},
		Discounts: &http.DiscountHandler{Discounts: discountService, Log: zapLogger},
	}, &middleware.Sessions{Store: sessions, Log: zapLogger},
		http.RouterOptions{TrustProxy: options.TrustProxy}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	useTLS := options.TLSCertFile != ""
	if useTLS {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	} else {
		// Cleartext HTTP/2 for clients that support prior knowledge.
		server.Handler = h2c.NewHandler(router, &http2.Server{})
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address), zap.Bool("tls", useTLS))
		var err error
		if useTLS {
			err = server.ListenAndServeTLS(options.TLSCertFile, options.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}
}
