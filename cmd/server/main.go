package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	notificationapp "github.com/flourmill/backend/internal/application/notification"
	partnerapp "github.com/flourmill/backend/internal/application/partner"
	tradeapp "github.com/flourmill/backend/internal/application/trade"
	"github.com/flourmill/backend/internal/infrastructure/auth"
	"github.com/flourmill/backend/internal/infrastructure/cache"
	"github.com/flourmill/backend/internal/infrastructure/config"
	"github.com/flourmill/backend/internal/infrastructure/event"
	"github.com/flourmill/backend/internal/infrastructure/logger"
	"github.com/flourmill/backend/internal/infrastructure/persistence"
	"github.com/flourmill/backend/internal/interfaces/http/handler"
	"github.com/flourmill/backend/internal/interfaces/http/middleware"
	"github.com/flourmill/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// @title Flour Mill Backend API
// @version 1.0
// @description Business management backend for a flour mill: customers and
// @description credit, warehouses and stock, sales and purchase orders.

// @contact.name Flour Mill Backend Team

// @license.name MIT

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

const defaultMaxBodyBytes = 4 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting flour mill backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	creditTxRepo := persistence.NewGormCreditTransactionRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRepo := persistence.NewGormStockItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	transferRepo := persistence.NewGormTransferOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Event bus and notification handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(notificationapp.NewStockBelowThresholdHandler(log, notificationRepo))
	eventBus.Subscribe(notificationapp.NewCreditStatusHandler(log, notificationRepo))
	eventBus.Subscribe(notificationapp.NewTransferCompletedHandler(log, notificationRepo))

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, sequenceRepo)
	customerService.SetEventPublisher(eventBus)

	creditService := partnerapp.NewCreditService(customerRepo, creditTxRepo)
	creditService.SetEventPublisher(eventBus)

	// The snapshot cache is optional; the credit path works without Redis.
	snapshotCache, err := cache.NewRedisCreditSnapshotCache(&cfg.Redis)
	if err != nil {
		log.Warn("credit snapshot cache unavailable, continuing without it", zap.Error(err))
	} else {
		creditService.SetSnapshotCache(snapshotCache)
	}

	warehouseService := inventoryapp.NewWarehouseService(warehouseRepo, stockRepo)

	stockService := inventoryapp.NewStockService(warehouseRepo, stockRepo, movementRepo, transferRepo, sequenceRepo)
	stockService.SetEventPublisher(eventBus)

	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, customerRepo, sequenceRepo, creditService, stockService)
	salesOrderService.SetEventPublisher(eventBus)

	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, sequenceRepo, stockService)
	purchaseOrderService.SetEventPublisher(eventBus)

	notificationService := notificationapp.NewNotificationService(notificationRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(db)
	customerHandler := handler.NewCustomerHandler(customerService)
	creditHandler := handler.NewCreditHandler(creditService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	stockHandler := handler.NewStockHandler(stockService)
	transferHandler := handler.NewTransferHandler(stockService)
	salesOrderHandler := handler.NewSalesOrderHandler(salesOrderService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSFromConfig(&cfg.HTTP),
		middleware.BodyLimit(defaultMaxBodyBytes),
	)

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger.Enabled),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	if cfg.App.Env == "production" {
		r.Use(middleware.JWTAuth(jwtService))
	} else {
		r.Use(middleware.OptionalJWTAuth(jwtService))
	}

	partnerGroup := router.NewDomainGroup("partner", "/partner")
	customers := partnerGroup.Group("customers", "/customers")
	customers.
		POST("", customerHandler.Register).
		GET("", customerHandler.List).
		GET("/number/:number", customerHandler.GetByNumber).
		GET("/:id", customerHandler.GetByID).
		PUT("/:id", customerHandler.Update).
		POST("/:id/activate", customerHandler.Activate).
		POST("/:id/deactivate", customerHandler.Deactivate).
		POST("/:id/suspend", customerHandler.Suspend).
		GET("/:id/credit", creditHandler.GetSummary).
		PUT("/:id/credit", customerHandler.UpdateCredit).
		POST("/:id/credit/authorize", creditHandler.Authorize).
		POST("/:id/credit/debits", creditHandler.Debit).
		POST("/:id/credit/payments", creditHandler.ApplyPayment).
		GET("/:id/credit/transactions", creditHandler.ListTransactions).
		GET("/:id/orders", salesOrderHandler.ListByCustomer)
	partnerGroup.GET("/credit-transactions/:id", creditHandler.GetTransaction)

	inventoryGroup := router.NewDomainGroup("inventory", "/inventory")
	warehouses := inventoryGroup.Group("warehouses", "/warehouses")
	warehouses.
		POST("", warehouseHandler.Create).
		GET("", warehouseHandler.List).
		GET("/:id", warehouseHandler.GetByID).
		PUT("/:id", warehouseHandler.Update).
		POST("/:id/set-default", warehouseHandler.SetDefault).
		POST("/:id/deactivate", warehouseHandler.Deactivate).
		GET("/:id/stock", stockHandler.ListByWarehouse)
	stock := inventoryGroup.Group("stock", "/stock")
	stock.
		POST("/inbound", stockHandler.Inbound).
		POST("/outbound", stockHandler.Outbound).
		GET("/low", stockHandler.ListBelowThreshold).
		GET("/:id", stockHandler.GetStockItem).
		POST("/:id/adjust", stockHandler.Adjust).
		PUT("/:id/threshold", stockHandler.SetThreshold)
	inventoryGroup.GET("/movements", stockHandler.ListMovements)
	transfers := inventoryGroup.Group("transfers", "/transfers")
	transfers.
		POST("", transferHandler.Create).
		GET("", transferHandler.List).
		GET("/:id", transferHandler.GetByID).
		POST("/:id/complete", transferHandler.Complete).
		POST("/:id/cancel", transferHandler.Cancel)

	tradeGroup := router.NewDomainGroup("trade", "/trade")
	salesOrders := tradeGroup.Group("sales-orders", "/sales-orders")
	salesOrders.
		POST("", salesOrderHandler.Create).
		GET("", salesOrderHandler.List).
		GET("/number/:number", salesOrderHandler.GetByNumber).
		GET("/:id", salesOrderHandler.GetByID).
		POST("/:id/confirm", salesOrderHandler.Confirm).
		POST("/:id/cancel", salesOrderHandler.Cancel).
		PUT("/:id/items/:item_id", salesOrderHandler.UpdateItemQuantity).
		DELETE("/:id/items/:item_id", salesOrderHandler.RemoveItem)
	purchaseOrders := tradeGroup.Group("purchase-orders", "/purchase-orders")
	purchaseOrders.
		POST("", purchaseOrderHandler.Create).
		GET("", purchaseOrderHandler.List).
		GET("/:id", purchaseOrderHandler.GetByID).
		POST("/:id/confirm", purchaseOrderHandler.Confirm).
		POST("/:id/receive", purchaseOrderHandler.Receive).
		POST("/:id/cancel", purchaseOrderHandler.Cancel)

	notificationGroup := router.NewDomainGroup("notifications", "/notifications")
	notificationGroup.
		GET("", notificationHandler.List).
		GET("/unread-count", notificationHandler.UnreadCount).
		POST("/:id/read", notificationHandler.MarkRead).
		POST("/read-all", notificationHandler.MarkAllRead)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.
		GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping)

	r.Register(partnerGroup).
		Register(inventoryGroup).
		Register(tradeGroup).
		Register(notificationGroup).
		Register(systemGroup)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
