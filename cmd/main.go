package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	grpcctx "github.com/cinemood/auth-server/internal/api/grpc/context"
	"github.com/cinemood/auth-server/internal/api/grpc/router"
	grpcServer "github.com/cinemood/auth-server/internal/api/grpc/server"
	"github.com/cinemood/auth-server/internal/config"
	"github.com/cinemood/auth-server/internal/logger"
	"github.com/cinemood/auth-server/internal/metrics"
	"github.com/cinemood/auth-server/internal/model"
	"github.com/cinemood/auth-server/internal/notify"
	"github.com/cinemood/auth-server/internal/password"
	"github.com/cinemood/auth-server/internal/repository/postgres"
	"github.com/cinemood/auth-server/internal/server"
	"github.com/cinemood/auth-server/internal/service"
	"github.com/cinemood/auth-server/internal/storage/redis"
	"github.com/cinemood/auth-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	redisClient, err := redis.NewClient(ctx, redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		Retries:      cfg.Startup.Retries,
		Backoff:      cfg.Startup.Backoff,
	})
	if err != nil {
		logger.Fatal("failed to initialize session store", "error", err)
	}
	defer redisClient.Close()

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.ConnectionOptions{
		Retries: cfg.Startup.Retries,
		Backoff: cfg.Startup.Backoff,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	sessionStore := redis.NewSessionStore(redisClient, cfg.JWT.RefreshTTL)
	codeStore := redis.NewCodeStore(redisClient, cfg.Verification.CodeTTL, cfg.Verification.MaxAttempts)

	tokenManager := token.NewManager(token.Options{
		Key:        token.DeriveKey(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
		Leeway:     cfg.JWT.Leeway,
	})

	tokenService := service.NewTokenService(tokenManager, sessionStore, accountRepo, logger)
	authService := service.NewAuth(
		accountRepo,
		codeStore,
		newNotifier(cfg.SMTP, cfg.Verification.CodeTTL, logger),
		password.NewBcrypt(cfg.Password.BcryptCost),
		tokenService,
		logger,
		cfg.Verification.Subject,
	)
	ctxMgr := grpcctx.NewManager()

	registry := metrics.NewRegistry()
	m := metrics.NewMetrics(registry)

	servers := []model.Server{
		registerGRPCServer(logger, authService, tokenService, ctxMgr, m, fmt.Sprintf(":%s", cfg.GRPC.Port)),
		server.NewHTTPServer(fmt.Sprintf(":%s", cfg.Metrics.Port), registry, readiness(redisClient, db), logger),
	}

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	for i, s := range servers {
		layer := sl
		if i > 0 {
			// metrics endpoint is always plain
			layer = server.NewPlainListener()
		}

		wg.Add(1)
		go func(s model.Server, layer model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(layer); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s, layer)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newNotifier(cfg config.SMTP, codeTTL time.Duration, logger *logger.Logger) model.Notifier {
	if cfg.Host == "" {
		logger.Warn("SMTP host is not set, verification codes are written to the log")
		return notify.NewLog(logger)
	}
	return notify.NewSMTP(notify.SMTPOptions{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		Timeout:  cfg.Timeout,
		CodeTTL:  codeTTL,
	})
}

func readiness(redisClient *goredis.Client, db *postgres.Connection) server.ReadinessChecker {
	return func(ctx context.Context) error {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		return nil
	}
}

func registerGRPCServer(
	logger *logger.Logger,
	authService *service.Auth,
	tokenService *service.TokenService,
	ctxMgr model.ContextManager,
	m *metrics.Metrics,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(authService, tokenService, ctxMgr, m, logger)
	return grpcServer.NewGRPCServer(r.Register(), addr)
}
