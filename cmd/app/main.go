package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mine_empire/internal/config"
	"mine_empire/internal/db"
	httpServer "mine_empire/internal/http"
	"mine_empire/internal/http/handlers"
	"mine_empire/internal/http/middleware"
	"mine_empire/internal/logger"
	"mine_empire/internal/mining"
	"mine_empire/internal/repository"
	"mine_empire/internal/service"
	"mine_empire/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	world := service.NewWorld(cfg, mining.SystemClock())
	repos := &service.Repos{
		Accounts: repository.NewAccountRepository(dbPool),
		Drills:   repository.NewDrillRepository(dbPool),
		Stakes:   repository.NewStakeRepository(dbPool),
		Balances: repository.NewBalanceRepository(dbPool),
		Events:   repository.NewEventRepository(dbPool),
	}

	hub := ws.NewHub()
	go hub.Run()

	svc := service.NewMiningService(world, repos, hub)
	if err := svc.Restore(context.Background()); err != nil {
		logger.Fatal("state restore failed", "error", err)
	}

	r := gin.Default()

	// CORS for production (frontend on a different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandler(svc, cfg.DevMode)
	httpServer.RegisterRoutes(r, dbPool, h, hub, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Println("server started on port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	log.Println("server exited")
}
