package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AliFrzngn/zcoil/internal/config"
	"github.com/AliFrzngn/zcoil/internal/handler"
	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/internal/router"
	"github.com/AliFrzngn/zcoil/internal/server"
	"github.com/AliFrzngn/zcoil/internal/service/inventory"
	"github.com/AliFrzngn/zcoil/internal/usecase"
	"github.com/AliFrzngn/zcoil/pkg/jwtutil"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
)

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	invClient := inventory.NewClient(cfg.InventoryServiceURL)

	verifier := jwtutil.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	auth := middleware.NewAuth(verifier, userRepo, logger)

	crmUC := usecase.NewCRMUsecase(userRepo, invClient, rdb, logger)

	r := router.NewCRMRouter(handler.NewCRMHandler(crmUC), auth)

	if err := server.New(cfg.CRMHTTPAddr, r, logger).Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("crm service stopped")
}
