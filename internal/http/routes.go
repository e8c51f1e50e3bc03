package http

import (
	"time"

	"mine_empire/internal/config"
	"mine_empire/internal/http/handlers"
	"mine_empire/internal/http/middleware"
	"mine_empire/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, h *handlers.Handler, hub *ws.Hub, cfg *config.Config, version string) {
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	actionRateWindow := time.Duration(cfg.ActionRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, actionRateWindow, cfg.ActionRateLimit)

	// Live event feed
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, actionRateWindow time.Duration, actionRateLimit int) {
	// Auth: in-process limiter on top of the shared Redis window
	api.POST("/auth", middleware.LocalRateLimit(10, time.Minute), h.Auth)

	// Public catalog and market data
	api.GET("/catalog/types", h.ListTypes)
	api.GET("/catalog/types/:id", h.GetType)
	api.GET("/convert/rates", h.ConvertRates)
	api.GET("/mines", h.ListMines)
	api.GET("/mines/:name", h.GetMine)

	// Caller state
	api.GET("/me", middleware.JWT(), h.Me)
	api.GET("/me/balances", middleware.JWT(), h.MyBalances)
	api.GET("/me/drills", middleware.JWT(), h.MyDrills)
	api.GET("/me/events", middleware.JWT(), h.Events)

	// Per-account limiter for state-changing actions
	actionRL := middleware.ActionRateLimit(actionRateLimit, actionRateWindow)

	// Minting and drill management
	api.POST("/drills/mint", middleware.JWT(), actionRL, h.Mint)
	api.POST("/drills/mint/alt", middleware.JWT(), actionRL, h.AlternativeMint)
	api.POST("/drills/:id/upgrade", middleware.JWT(), actionRL, h.UpgradeDrill)
	api.POST("/drills/:id/approve", middleware.JWT(), actionRL, h.ApproveDrill)

	// Staking and accrual
	api.POST("/mines/:name/stake", middleware.JWT(), actionRL, h.Stake)
	api.POST("/mines/:name/collect", middleware.JWT(), actionRL, h.Collect)
	api.POST("/mines/:name/unstake", middleware.JWT(), actionRL, h.Unstake)
	api.POST("/mines/:name/upgrade", middleware.JWT(), actionRL, h.UpgradeUser)
	api.GET("/mines/:name/accumulated", middleware.JWT(), h.Accumulated)

	// Conversion and allowances
	api.POST("/convert", middleware.JWT(), actionRL, h.Convert)
	api.POST("/tokens/approve", middleware.JWT(), actionRL, h.ApproveSpending)

	// Admin (owner-role gated inside the engine)
	admin := api.Group("/admin")
	admin.Use(middleware.JWT())
	{
		admin.POST("/types", h.AddType)
		admin.POST("/mint-configs", h.AddMintConfig)
		admin.PATCH("/types/:id/price", h.UpdateMintPrice)
		admin.PATCH("/types/:id/upgrade-cost", h.UpdateUpgradeRequirement)
		admin.PATCH("/types/:id/supply-cap", h.UpdateSupplyCap)
		admin.PATCH("/mint-configs/:id/supply", h.UpdateMintConfigSupply)
		admin.PATCH("/max-drills", h.UpdateMaxDrills)
		admin.PATCH("/convert-rate", h.SetConvertRate)
		admin.PATCH("/mines/:name/base-production", h.SetBaseProduction)
		admin.PATCH("/treasury", h.UpdateTreasury)
		admin.POST("/fund", h.Fund)
	}
}
