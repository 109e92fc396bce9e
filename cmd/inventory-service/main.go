package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/AliFrzngn/zcoil/internal/config"
	"github.com/AliFrzngn/zcoil/internal/handler"
	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/internal/router"
	"github.com/AliFrzngn/zcoil/internal/server"
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

	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	verifier := jwtutil.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	auth := middleware.NewAuth(verifier, userRepo, logger)

	productUC := usecase.NewProductUsecase(productRepo)

	r := router.NewInventoryRouter(handler.NewProductHandler(productUC), auth)

	if err := server.New(cfg.InventoryHTTPAddr, r, logger).Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("inventory service stopped")
}
