package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ordertrack/ordertrack-backend/api/routes"
	"github.com/ordertrack/ordertrack-backend/internal/confirmations"
	"github.com/ordertrack/ordertrack-backend/internal/directory"
	"github.com/ordertrack/ordertrack-backend/internal/ingest"
	"github.com/ordertrack/ordertrack-backend/internal/invoices"
	"github.com/ordertrack/ordertrack-backend/internal/orders"
	"github.com/ordertrack/ordertrack-backend/pkg/config"
	"github.com/ordertrack/ordertrack-backend/pkg/db"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
	"github.com/ordertrack/ordertrack-backend/pkg/migrate"
	"github.com/ordertrack/ordertrack-backend/pkg/outbox"
	"github.com/ordertrack/ordertrack-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	staging := ingest.NewStaging(redisClient, cfg.Ingest)
	auditOutbox := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	directoryRepo := directory.NewRepository(dbClient.DB())
	directoryService, err := directory.NewService(directoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create directory service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()), dbClient, staging, auditOutbox, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	confirmationsService, err := confirmations.NewService(
		confirmations.NewRepository(dbClient.DB()), dbClient, staging, auditOutbox, directoryRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create confirmations service", err)
		os.Exit(1)
	}

	invoicesService, err := invoices.NewService(invoices.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Directory:     directoryService,
			Orders:        ordersService,
			Confirmations: confirmationsService,
			Invoices:      invoicesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
