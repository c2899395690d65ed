package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/dtroode/pinmap-server/internal/api/http/context"
	"github.com/dtroode/pinmap-server/internal/api/http/router"
	httpServer "github.com/dtroode/pinmap-server/internal/api/http/server"
	rediscache "github.com/dtroode/pinmap-server/internal/cache/redis"
	"github.com/dtroode/pinmap-server/internal/config"
	"github.com/dtroode/pinmap-server/internal/logger"
	"github.com/dtroode/pinmap-server/internal/model"
	"github.com/dtroode/pinmap-server/internal/password"
	"github.com/dtroode/pinmap-server/internal/repository/postgres"
	"github.com/dtroode/pinmap-server/internal/server"
	"github.com/dtroode/pinmap-server/internal/service"
	minioStorage "github.com/dtroode/pinmap-server/internal/storage/minio"
	s3Storage "github.com/dtroode/pinmap-server/internal/storage/s3"
	"github.com/dtroode/pinmap-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env file: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	pinRepo := postgres.NewPinRepository(db)

	storageClient, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "backend", cfg.StorageBackend, "error", err)
	}

	pinCache, closeCache, err := newPinCache(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize pin cache", "error", err)
	}
	defer closeCache()

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := password.NewBcrypt(cfg.BcryptCost)

	authService := service.NewAuth(userRepo, hasher, tokenManager, logger)
	imageService := service.NewImage(storageClient, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes, cfg.Upload.PublicPath, logger)
	pinService := service.NewPin(pinRepo, pinCache, imageService, logger)

	if cfg.LogLevel > int(slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.New(authService, pinService, imageService, httpctx.NewManager(), cfg.MapsAPIKey, cfg.Upload.PublicPath, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		client, err := s3Storage.NewClient(ctx, s3Storage.Options{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		client, err := minioStorage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func newPinCache(ctx context.Context, cfg *config.Config) (model.PinCache, func(), error) {
	if cfg.Redis.Addr == "" {
		return rediscache.Noop{}, func() {}, nil
	}

	client, err := rediscache.Connect(ctx, rediscache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}

	return rediscache.NewPinCache(client, cfg.Redis.TTL), func() { _ = client.Close() }, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
