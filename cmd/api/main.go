package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/api/routes"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/assignment"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/notifications"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/orders"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/payments"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/internal/pharmacies"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/config"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/logger"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/migrate"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/paystack"
	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/redis"
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

	paystackClient, err := paystack.NewClient(context.Background(), cfg.Paystack, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	notifier := notifications.NewService(cfg.SMS, logg)
	ordersRepo := orders.NewRepository(dbClient.DB())
	pharmacyRepo := pharmacies.NewRepository(dbClient.DB())

	assignmentService, err := assignment.NewService(assignment.ServiceParams{
		Orders:     ordersRepo,
		Pharmacies: pharmacyRepo,
		Tx:         dbClient,
		Notifier:   notifier,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Tx:       dbClient,
		Notifier: notifier,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Orders:    ordersRepo,
		Events:    payments.NewEventRepository(dbClient.DB()),
		Gateway:   paystackClient,
		Tx:        dbClient,
		Notifier:  notifier,
		Assigner:  assignmentService,
		Logger:    logg,
		Reconcile: cfg.Reconcile,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	webhookGuard, err := payments.NewReplayGuard(redisClient, cfg.Paystack.WebhookTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook replay guard", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			ordersService,
			assignmentService,
			paymentsService,
			paystackClient,
			webhookGuard,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
