package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/manna-erp/manna-erp/internal/app"
	"github.com/manna-erp/manna-erp/internal/masterdata/items"
	"github.com/manna-erp/manna-erp/internal/masterdata/suppliers"
	"github.com/manna-erp/manna-erp/internal/observability"
	"github.com/manna-erp/manna-erp/internal/order/draft"
	"github.com/manna-erp/manna-erp/internal/order/purchase"
	"github.com/manna-erp/manna-erp/internal/platform/cache"
	"github.com/manna-erp/manna-erp/internal/platform/db"
	"github.com/manna-erp/manna-erp/internal/uploads"
	"github.com/manna-erp/manna-erp/jobs"
)

// catalogAdapter exposes master data to the draft flow as catalog entries.
type catalogAdapter struct {
	suppliers *suppliers.Service
	items     *items.Service
}

func (a catalogAdapter) SupplierExists(ctx context.Context, supplierID int64) (bool, error) {
	return a.suppliers.Exists(ctx, supplierID)
}

func (a catalogAdapter) Item(ctx context.Context, itemID int64) (draft.CatalogItem, error) {
	item, err := a.items.Get(ctx, itemID)
	if err != nil {
		return draft.CatalogItem{}, err
	}
	if !item.Orderable() {
		return draft.CatalogItem{}, draft.ErrUnknownItem
	}
	return toCatalogItem(item), nil
}

func (a catalogAdapter) SupplierItems(ctx context.Context, supplierID int64) ([]draft.CatalogItem, error) {
	list, err := a.items.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	result := make([]draft.CatalogItem, 0, len(list))
	for _, item := range list {
		result = append(result, toCatalogItem(item))
	}
	return result, nil
}

func toCatalogItem(item items.Item) draft.CatalogItem {
	return draft.CatalogItem{
		ID:         item.ID,
		ItemNo:     item.ItemNo,
		Name:       item.Name,
		StockUnit:  item.StockUnit,
		UnitPrice:  decimal.NewFromFloat(item.UnitPrice),
		SupplierID: item.SupplierID,
	}
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	suppliersService := suppliers.NewService(suppliers.NewRepository(pool))
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)

	itemsRepo := items.NewRepository(pool)
	itemsCache := items.NewCache(redisClient, itemsRepo, cfg.CatalogCacheTTL)
	itemsService := items.NewService(itemsRepo, itemsCache)
	itemsHandler := items.NewHandler(logger, itemsService)

	purchaseService := purchase.NewService(purchase.NewRepository(pool))
	purchaseHandler := purchase.NewHandler(logger, purchaseService)

	draftStore := draft.NewStore(redisClient)
	catalog := catalogAdapter{suppliers: suppliersService, items: itemsService}
	draftService := draft.NewService(draftStore, catalog, purchaseService, metrics)
	draftHandler := draft.NewHandler(logger, draftService)

	uploadsService := uploads.NewService(cfg.UploadDir, cfg.UploadBaseURL, cfg.UploadMaxSize)
	uploadsHandler := uploads.NewHandler(logger, uploadsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SuppliersHandler: suppliersHandler,
		ItemsHandler:     itemsHandler,
		DraftsHandler:    draftHandler,
		PurchaseHandler:  purchaseHandler,
		UploadsHandler:   uploadsHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
