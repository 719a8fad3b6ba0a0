package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/inventory-core/pkg/auth"
	"github.com/ledgerline/inventory-core/pkg/idempotency"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
	"github.com/ledgerline/inventory-core/pkg/middleware"

	"github.com/ledgerline/inventory-core/internal/application"
)

// routerDeps is everything the HTTP layer needs from main
type routerDeps struct {
	catalog        *application.CatalogService
	ledger         *application.LedgerService
	queries        *application.DocumentQueryService
	reconciliation *application.ReconciliationService

	logger          *logging.Logger
	metrics         *metrics.Metrics
	jwt             *auth.JWTService
	idempotencyRepo idempotency.KeyRepository
	allowedOrigins  []string
	enableTracing   bool
	ready           func(ctx context.Context) error
}

func newRouter(deps *routerDeps) *gin.Engine {
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, deps.logger)
	middlewareConfig.Metrics = deps.metrics
	middlewareConfig.AllowedOrigins = deps.allowedOrigins
	middlewareConfig.EnableTracing = deps.enableTracing
	middleware.Setup(router, middlewareConfig)

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, deps.ready))
	if deps.metrics != nil {
		router.GET("/metrics", middleware.MetricsEndpoint(deps.metrics))
	}

	idempotencyConfig := idempotency.DefaultConfig(serviceName, deps.idempotencyRepo, deps.logger)
	idempotencyConfig.UserIDExtractor = middleware.GetUserID
	if deps.metrics != nil {
		idempotencyConfig.Metrics = idempotency.NewMetrics(deps.metrics.Registry())
	}
	replay := idempotency.Middleware(idempotencyConfig)
	logger := deps.logger

	// super-admin commits authenticate before an idempotency key is claimed
	admin := router.Group("/api/v1",
		middleware.BearerAuth(deps.jwt),
		middleware.RequireRole(auth.RoleSuperAdmin),
		replay,
	)
	admin.PUT("/items/stock", bulkUpdateStockHandler(deps.ledger, logger))
	admin.POST("/audits/:id/apply", applyAuditHandler(deps.reconciliation, logger))

	api := router.Group("/api/v1", replay)
	{
		items := api.Group("/items")
		items.POST("", createItemHandler(deps.catalog, logger))
		items.GET("", listItemsHandler(deps.catalog, logger))
		items.POST("/import", importItemsHandler(deps.catalog, logger))
		items.GET("/export", exportItemsHandler(deps.catalog, logger))
		items.GET("/:id", getItemHandler(deps.catalog, logger))
		items.PUT("/:id", updateItemHandler(deps.catalog, logger))
		items.DELETE("/:id", deleteItemHandler(deps.catalog, logger))

		api.GET("/stock/verify", verifyStockHandler(deps.ledger, logger))

		purchases := api.Group("/purchases")
		purchases.POST("", recordPurchaseHandler(deps.ledger, logger))
		purchases.GET("", listPurchasesHandler(deps.queries, logger))
		purchases.GET("/:id", getPurchaseHandler(deps.queries, logger))
		purchases.PUT("/:id", updatePurchaseHandler(deps.ledger, deps.queries, logger))
		purchases.DELETE("/:id", deletePurchaseHandler(deps.ledger, logger))
		purchases.GET("/:id/landing-costs", purchaseLandingCostsHandler(deps.queries, logger))

		api.POST("/landing-costs", previewLandingCostsHandler(logger))

		sales := api.Group("/sales")
		sales.POST("", recordSaleHandler(deps.ledger, logger))
		sales.GET("", listSalesHandler(deps.queries, logger))
		sales.GET("/:id", getSaleHandler(deps.queries, logger))
		sales.PUT("/:id", updateSaleHandler(deps.ledger, deps.queries, logger))
		sales.DELETE("/:id", deleteSaleHandler(deps.ledger, logger))

		returns := api.Group("/purchase-returns")
		returns.POST("", recordPurchaseReturnHandler(deps.ledger, logger))
		returns.GET("", listPurchaseReturnsHandler(deps.queries, logger))
		returns.GET("/:id", getPurchaseReturnHandler(deps.queries, logger))
		returns.POST("/:id/apply-stock", applyPurchaseReturnHandler(deps.ledger, deps.queries, logger))
		returns.DELETE("/:id", deletePurchaseReturnHandler(deps.ledger, logger))

		audits := api.Group("/audits")
		audits.POST("", createAuditHandler(deps.reconciliation, logger))
		audits.POST("/upload", uploadAuditHandler(deps.reconciliation, logger))
		audits.GET("", listAuditsHandler(deps.reconciliation, logger))
		audits.GET("/:id", getAuditHandler(deps.reconciliation, logger))
		audits.GET("/:id/export", exportAuditHandler(deps.reconciliation, logger))
		audits.DELETE("/:id", deleteAuditHandler(deps.reconciliation, logger))

		registerPartyRoutes(api.Group("/suppliers"), partyRoutes{
			create: deps.catalog.CreateSupplier,
			update: deps.catalog.UpdateSupplier,
			get:    deps.catalog.GetSupplier,
			list:   deps.catalog.ListSuppliers,
			delete: deps.catalog.DeleteSupplier,
		}, logger)
		registerPartyRoutes(api.Group("/clients"), partyRoutes{
			create: deps.catalog.CreateClient,
			update: deps.catalog.UpdateClient,
			get:    deps.catalog.GetClient,
			list:   deps.catalog.ListClients,
			delete: deps.catalog.DeleteClient,
		}, logger)
		api.GET("/parties/:type/:id/balance", partyBalanceHandler(deps.catalog, logger))

		vouchers := api.Group("/vouchers")
		vouchers.POST("", createVoucherHandler(deps.catalog, logger))
		vouchers.GET("", listVouchersHandler(deps.catalog, logger))
		vouchers.GET("/:id", getVoucherHandler(deps.catalog, logger))
		vouchers.DELETE("/:id", deleteVoucherHandler(deps.catalog, logger))

		currencies := api.Group("/currencies")
		currencies.POST("", createCurrencyHandler(deps.catalog, logger))
		currencies.GET("", listCurrenciesHandler(deps.catalog, logger))
		currencies.PUT("/:id", updateCurrencyHandler(deps.catalog, logger))
		currencies.DELETE("/:id", deleteCurrencyHandler(deps.catalog, logger))

		paymentTypes := api.Group("/payment-types")
		paymentTypes.POST("", createPaymentTypeHandler(deps.catalog, logger))
		paymentTypes.GET("", listPaymentTypesHandler(deps.catalog, logger))
		paymentTypes.PUT("/:id", updatePaymentTypeHandler(deps.catalog, logger))
		paymentTypes.DELETE("/:id", deletePaymentTypeHandler(deps.catalog, logger))

		settings := api.Group("/settings/:category")
		settings.GET("", listSettingsHandler(deps.catalog, logger))
		settings.POST("", addSettingHandler(deps.catalog, logger))
		settings.DELETE("/:id", deleteSettingHandler(deps.catalog, logger))
	}

	return router
}
