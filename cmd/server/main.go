package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-service/internal/api/handlers"
	"pos-service/internal/auth"
	"pos-service/internal/cache"
	"pos-service/internal/database"
	"pos-service/internal/logger"
	"pos-service/internal/repository"
	"pos-service/internal/service"
)

func main() {
	mylog := logger.NewLogger("pos-service")

	cfg, err := database.LoadConfig()
	if err != nil {
		mylog.Error("startup", "config_failed", "Failed to load config", err)
		os.Exit(1)
	}

	pool, err := database.ConnectDB(cfg)
	if err != nil {
		mylog.Error("startup", "db_connection_failed", "Failed to connect to database", err)
		os.Exit(1)
	}
	defer pool.Close()
	mylog.Info("startup", "db_connected", "Connected to PostgreSQL database")

	if err := database.Migrate(pool); err != nil {
		mylog.Error("startup", "migrations_failed", "Migrations failed", err)
		os.Exit(1)
	}
	mylog.Info("startup", "migrations_applied", "Database migrations applied")

	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	var products repository.ProductRepository = productRepo
	rdb, err := cache.ConnectRedis(cfg)
	if err != nil {
		mylog.Error("startup", "redis_connection_failed", "Redis unavailable, serving catalog without cache", err)
	} else {
		defer rdb.Close()
		products = cache.NewCachedProductRepository(productRepo, rdb)
		mylog.Info("startup", "redis_connected", "Connected to Redis")
	}

	tokens := auth.NewTokenManager(cfg.AuthSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	orderService := service.NewOrderService(products, orderRepo, mylog)
	authService := service.NewAuthService(userRepo, tokens, mylog)
	dashboardService := service.NewDashboardService(products, orderRepo, mylog)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:      handlers.NewAuthHandler(authService),
		Products:  handlers.NewProductHandler(products),
		Orders:    handlers.NewOrderHandler(orderService),
		Payments:  handlers.NewPaymentHandler(orderService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Tokens:    tokens,
		Log:       mylog,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		mylog.Info("startup", "server_started", "Listening on port "+cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		mylog.Error("runtime", "server_failed", "HTTP server failed", err)
		os.Exit(1)
	case <-stop:
	}

	mylog.Info("shutdown", "graceful_shutdown_started", "Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		mylog.Error("shutdown", "graceful_shutdown_failed", "Failed to shut down HTTP server gracefully", err)
		os.Exit(1)
	}

	mylog.Info("shutdown", "graceful_shutdown_completed", "HTTP server shut down gracefully")
}
