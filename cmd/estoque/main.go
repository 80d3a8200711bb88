package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/estoque-erp/estoque-erp/internal/app"
	"github.com/estoque-erp/estoque-erp/internal/categoryprices"
	"github.com/estoque-erp/estoque-erp/internal/customers"
	"github.com/estoque-erp/estoque-erp/internal/expenses"
	"github.com/estoque-erp/estoque-erp/internal/installments"
	"github.com/estoque-erp/estoque-erp/internal/materials"
	"github.com/estoque-erp/estoque-erp/internal/orders"
	"github.com/estoque-erp/estoque-erp/internal/platform/cache"
	"github.com/estoque-erp/estoque-erp/internal/platform/db"
	"github.com/estoque-erp/estoque-erp/internal/products"
	"github.com/estoque-erp/estoque-erp/internal/sales"
	"github.com/estoque-erp/estoque-erp/internal/settings"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.Migrate(cfg.PGDSN, cfg.MigrationsURL); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, settings cache disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	settingsService := settings.NewService(settings.NewRepository(pool), redisClient, cfg.SettingsCacheTTL)
	productsService := products.NewService(products.NewRepository(pool), settingsService)
	materialsService := materials.NewService(materials.NewRepository(pool))
	customersService := customers.NewService(customers.NewRepository(pool))
	salesService := sales.NewService(sales.NewRepository(pool))
	ordersService := orders.NewService(orders.NewRepository(pool))
	installmentsService := installments.NewService(installments.NewRepository(pool))
	expensesService := expenses.NewService(expenses.NewRepository(pool))
	categoryPricesService := categoryprices.NewService(categoryprices.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		ProductsHandler:       products.NewHandler(logger, productsService),
		MaterialsHandler:      materials.NewHandler(logger, materialsService),
		CustomersHandler:      customers.NewHandler(logger, customersService),
		SalesHandler:          sales.NewHandler(logger, salesService),
		OrdersHandler:         orders.NewHandler(logger, ordersService),
		InstallmentsHandler:   installments.NewHandler(logger, installmentsService),
		ExpensesHandler:       expenses.NewHandler(logger, expensesService),
		CategoryPricesHandler: categoryprices.NewHandler(logger, categoryPricesService),
		SettingsHandler:       settings.NewHandler(logger, settingsService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
