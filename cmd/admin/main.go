// Package main is the back-office command line tool. It reads the same
// config file, .env file and environment as the server.
//
// Usage:
//
//	admin -cmd create-admin [-email owner@shop.com]
//	admin -cmd import -file accounts.txt [-type Streaming] [-price 15.99]
//	admin -cmd import-emails -file emails.txt -service Netflix -password pw [-type Streaming] [-price 9.99]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/atinyakov/GophStore/internal/cli"
	"github.com/atinyakov/GophStore/internal/config"
	"github.com/atinyakov/GophStore/internal/crypto"
	"github.com/atinyakov/GophStore/internal/db"
	"github.com/atinyakov/GophStore/internal/logger"
	"github.com/atinyakov/GophStore/internal/repository"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/shopspring/decimal"
)

var (
	version   string
	buildDate string
)

func main() {
	var (
		cmd         string
		email       string
		file        string
		typ         string
		price       string
		serviceName string
		password    string
		showVer     bool
	)

	flag.StringVar(&cmd, "cmd", "", "command: create-admin | import | import-emails")
	flag.StringVar(&email, "email", "", "admin email (prompted when empty)")
	flag.StringVar(&file, "file", "", "file to import")
	flag.StringVar(&typ, "type", "", "category of imported records")
	flag.StringVar(&price, "price", "", "price of imported records")
	flag.StringVar(&serviceName, "service", "", "service name for import-emails")
	flag.StringVar(&password, "password", "", "shared password for import-emails")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("GophStore Admin\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	options, err := config.Parse(nil)
	if err != nil {
		log.Fatal(err)
	}
	lg := logger.New()
	if err := lg.Init("warn"); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = postgresDB.Close() }()

	switch cmd {
	case "create-admin":
		users := repository.NewPostgresUserRepository(postgresDB)
		auth := service.NewAuthService(users, service.AuthConfig{
			Issuer:            options.TOTPIssuer,
			MaxFailedAttempts: options.MaxFailedAttempts,
			LockoutDuration:   options.LockoutDuration,
		}, lg.Log)
		if _, err := cli.CreateAdmin(ctx, auth, cli.NewPrompter(os.Stdin, os.Stdout), email); err != nil {
			log.Fatal(err)
		}
	case "import", "import-emails":
		if file == "" {
			log.Fatal("please provide -file=path")
		}
		var p *decimal.Decimal
		if price != "" {
			d, err := decimal.NewFromString(price)
			if err != nil {
				log.Fatalf("invalid -price %q: %v", price, err)
			}
			p = &d
		}
		codec, err := crypto.NewAEADCodec([]byte(options.FieldKey))
		if err != nil {
			log.Fatal(err)
		}
		// The report is shared with the server when both use Redis.
		var reports service.ReportStore = service.NewMemoryReportStore()
		if options.Redis.Address != "" {
			client, err := db.NewRedisClient(options.Redis.Address, options.Redis.Password, options.Redis.DB)
			if err != nil {
				log.Fatal(err)
			}
			defer func() { _ = client.Close() }()
			reports = service.NewRedisReportStore(client)
		}
		imports := service.NewImportService(repository.NewPostgresAccountRepository(postgresDB, codec), reports, lg.Log)

		if cmd == "import" {
			err = cli.ImportFile(ctx, imports, file, service.AccountsImport{DefaultType: typ, DefaultPrice: p}, os.Stdout)
		} else {
			err = cli.ImportEmailFile(ctx, imports, file, service.BulkImport{
				ServiceName: serviceName,
				Password:    password,
				Type:        typ,
				Price:       p,
			}, os.Stdout)
		}
		if err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown command: %s", cmd)
	}
}
