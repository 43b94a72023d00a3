// Package router assembles the HTTP surface of the console API.
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rwaconsole/internal/handlers"
	"rwaconsole/internal/metrics"
	"rwaconsole/internal/middleware"
	"rwaconsole/internal/models"
	"rwaconsole/internal/services"
)

// Services holds the service layer the routes dispatch to.
type Services struct {
	Admin       services.AdminServicer
	Asset       services.AssetServicer
	User        services.UserServicer
	Sync        services.SyncServicer
	Transaction services.TransactionServicer
	Balance     services.BalanceServicer
	Stats       services.StatsServicer
	Auth        services.AuthServicer
}

// Options configures cross-cutting behaviour of the router.
type Options struct {
	WalletAuthMode string
	ServiceAPIKey  string
	CORSOrigins    []string
	Metrics        *metrics.Metrics
	// Ping reports database health for /health. Nil skips the check.
	Ping    func(ctx context.Context) error
	Swagger bool
}

// New builds the gin engine with every route mounted under /api/v1.
func New(svc Services, opts Options) *gin.Engine {
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(m))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/metrics", gin.WrapH(m.Handler()))
	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handlers.NewAuthHandler(svc.Auth)
	adminHandler := handlers.NewAdminHandler(svc.Admin, svc.User, svc.Stats)
	assetHandler := handlers.NewAssetHandler(svc.Asset)
	balanceHandler := handlers.NewBalanceHandler(svc.Balance)
	syncHandler := handlers.NewSyncHandler(svc.Sync)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction)

	wallet := middleware.WalletAuth(opts.WalletAuthMode, svc.Auth)
	optionalWallet := middleware.OptionalWallet(opts.WalletAuthMode, svc.Auth)
	requireRole := func(role models.AdminRole) gin.HandlerFunc {
		return middleware.RequireAdmin(svc.Admin, role)
	}

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthHandler(opts.Ping))

	v1.POST("/auth/session", authHandler.CreateSession)

	// Public asset catalogue
	assets := v1.Group("/assets", optionalWallet)
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/:id", assetHandler.GetAsset)

	// Admin console
	v1.GET("/admin/verify", adminHandler.Verify)
	admin := v1.Group("/admin", wallet)
	admin.GET("/stats", requireRole(models.AdminRoleReviewer), adminHandler.GetStats)
	admin.GET("/assets", requireRole(models.AdminRoleReviewer), assetHandler.AdminListAssets)
	admin.POST("/assets", requireRole(models.AdminRoleAdmin), assetHandler.CreateAsset)
	admin.GET("/assets/:id", requireRole(models.AdminRoleReviewer), assetHandler.AdminGetAsset)
	admin.PATCH("/assets/:id", requireRole(models.AdminRoleAdmin), assetHandler.UpdateAsset)
	admin.DELETE("/assets/:id", requireRole(models.AdminRoleSuperAdmin), assetHandler.DeleteAsset)
	admin.GET("/users", requireRole(models.AdminRoleReviewer), adminHandler.ListUsers)
	admin.POST("/users/:id/freeze", requireRole(models.AdminRoleAdmin), adminHandler.FreezeUser)
	admin.POST("/users/:id/kyc", requireRole(models.AdminRoleAdmin), adminHandler.UpdateKYC)
	admin.GET("/logs", requireRole(models.AdminRoleAdmin), adminHandler.ListLogs)

	// Investor routes
	investor := v1.Group("", wallet)
	investor.GET("/balance", balanceHandler.GetBalance)
	investor.POST("/balance", balanceHandler.ApplyChange)
	investor.POST("/balance/recharge", balanceHandler.Recharge)

	investor.POST("/sync", syncHandler.Sync)
	investor.GET("/sync", syncHandler.GetStatus)

	investor.POST("/transactions", transactionHandler.CreateTransaction)
	investor.GET("/transactions", transactionHandler.ListTransactions)
	investor.GET("/transactions/:id", transactionHandler.GetTransaction)
	investor.PATCH("/transactions/:id", transactionHandler.UpdateTransaction)
	investor.PUT("/transactions/:hash", transactionHandler.UpdateTransactionByHash)

	// Service-to-service
	internal := v1.Group("/internal", middleware.ServiceKeyAuth(opts.ServiceAPIKey))
	internal.POST("/sync-all", syncHandler.SyncAll)

	return router
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
