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
	auditsvc "github.com/AliFrzngn/zcoil/internal/service/audit"
	"github.com/AliFrzngn/zcoil/internal/service/email"
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

	if err := config.RunMigrations(ctx, cfg); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewActionTokenRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	recorder := auditsvc.NewRecorder(auditRepo, logger)
	defer recorder.Close()

	var sender email.Sender
	if cfg.Environment == "production" {
		sender = email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username,
			cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.FromName)
	} else {
		sender = email.NewDevSender(logger)
	}
	mailer := email.NewMailer(sender, cfg.FrontendURL)

	jwtGen := jwtutil.NewGenerator([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.AccessTokenTTL)
	verifier := jwtutil.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	auth := middleware.NewAuth(verifier, userRepo, logger)

	authUC := usecase.NewAuthUsecase(userRepo, tokenRepo, jwtGen, mailer, recorder, logger,
		cfg.BcryptCost, cfg.ResetTokenTTL, cfg.VerificationTokenTTL)
	userUC := usecase.NewUserUsecase(userRepo, recorder, logger, cfg.BcryptCost)

	r := router.NewUserRouter(
		handler.NewAuthHandler(authUC, userUC),
		handler.NewUserHandler(userUC),
		handler.NewAuditHandler(auditRepo),
		auth,
	)

	if err := server.New(cfg.UserHTTPAddr, r, logger).Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("user service stopped")
}
