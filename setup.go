package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Yulian302/lfusys-services-connections/config"
	"github.com/Yulian302/lfusys-services-connections/logging"
	"github.com/Yulian302/lfusys-services-connections/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	Profiles store.ProfileStore
	Redis    *redis.Client

	Config config.Config
	Logger *slog.Logger

	Services       *Services
	TracerProvider *trace.TracerProvider
}

func SetupApp() (*App, error) {
	cfg := config.LoadConfig()

	if err := cfg.ValidateAllSecrets(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.CreateLogger(cfg.Env)
	slog.SetDefault(logger)

	profiles, err := initProfileStore(cfg)
	if err != nil {
		return nil, err
	}

	rdb := initRedis(cfg.RedisConfig)
	if rdb == nil {
		return nil, errors.New("could not init redis")
	}

	app := &App{
		Profiles: profiles,
		Redis:    rdb,

		Config: cfg,
		Logger: logger,
	}

	app.Services = BuildServices(app)

	return app, nil
}

func (a *App) Run(r *gin.Engine) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("connections service listening", "addr", a.Config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func initProfileStore(cfg config.Config) (store.ProfileStore, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		s, err := store.OpenSQLiteProfileStore(cfg.SQLiteConfig.Path)
		if err != nil {
			return nil, err
		}
		if err := seedProfiles(s, cfg.SQLiteConfig.SeedUsers); err != nil {
			_ = s.Shutdown(context.Background())
			return nil, err
		}
		return s, nil
	default:
		awsCfg, err := initAWS(cfg.AWSConfig)
		if err != nil {
			return nil, err
		}
		return store.NewProfileStore(initDynamo(awsCfg, cfg.DynamoDBConfig), cfg.DynamoDBConfig.ProfilesTableName), nil
	}
}

func seedProfiles(s *store.SQLiteProfileStore, userIDs []string) error {
	seeded := 0
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := s.CreateProfile(context.Background(), id); err != nil {
			return fmt.Errorf("seed profile %q: %w", id, err)
		}
		seeded++
	}
	if seeded > 0 {
		slog.Info("seeded sqlite profiles", "count", seeded)
	}
	return nil
}

func initAWS(cfg config.AWSConfig) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

func initDynamo(cfg aws.Config, dbCfg config.DynamoDBConfig) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if dbCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(dbCfg.Endpoint)
		}
	})
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.HOST,
		Password: "",
		DB:       0,
	})
}

func (a *App) Shutdown(ctx context.Context) {
	if a.Services != nil {
		_ = a.Services.Shutdown(ctx)
	}
	if a.TracerProvider != nil {
		_ = a.TracerProvider.Shutdown(ctx)
	}
}
