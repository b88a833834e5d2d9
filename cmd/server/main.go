package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"exhibitsurvey/internal/cache"
	"exhibitsurvey/internal/config"
	"exhibitsurvey/internal/logging"
	"exhibitsurvey/internal/repository"
	"exhibitsurvey/internal/service"
	"exhibitsurvey/internal/transport/rest"
	"exhibitsurvey/internal/transport/ws"
)

// @title Exhibit Survey API
// @version 1.0
// @description Bilingual exhibition feedback surveys
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.LogLevel, os.Getenv("LOG_FORMAT"))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server exited")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Survey definitions
	surveys, err := config.LoadSurveys(cfg.SurveysDir)
	if err != nil {
		return err
	}
	for _, def := range surveys {
		logger.Info("survey loaded", zap.String("survey", def.Type), zap.Int("questions", len(def.Questions)))
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Submission store
	submissions, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger.Named("ws"))
	defer wsHub.Close()

	// Initialize services
	tokens := service.NewTokenService(cfg.SessionSecret, cfg.SnapshotTTL)
	snapshots := cache.NewSnapshotCache(rdb, cfg.SnapshotTTL, logger.Named("cache"))
	sessionSvc := service.NewSessionService(surveys, snapshots, submissions, tokens, cfg.SubmitTimeout, logger.Named("session"))

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	go sessionSvc.RunSweeper(ctx, time.Minute, cfg.SessionIdle)

	// Create router with container
	router := rest.NewRouter(&rest.Container{
		SessionService: sessionSvc,
		TokenService:   tokens,
		WSHub:          wsHub,
		Logger:         logger.Named("http"),
		CORS: rest.CORS{
			Origins: cfg.CORSOrigins,
			Methods: cfg.CORSMethods,
			Headers: cfg.CORSHeaders,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured submission backend
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SubmissionRepo, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSheets:
		svc, err := repository.NewSheetsService(ctx, cfg.ServiceEmail, cfg.PrivateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("create sheets client: %w", err)
		}
		logger.Info("submissions go to google sheets", zap.String("sheet", cfg.SheetID))
		return repository.NewSheetsSubmissionRepo(svc, cfg.SheetID), func() {}, nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping mongodb: %w", err)
		}
		logger.Info("connected to mongodb", zap.String("db", cfg.MongoDB))
		closeFn := func() { client.Disconnect(context.Background()) }
		return repository.NewMongoSubmissionRepo(client.Database(cfg.MongoDB)), closeFn, nil

	case config.BackendSQLite:
		db, err := repository.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("submissions go to sqlite", zap.String("path", cfg.SQLitePath))
		return repository.NewSQLiteSubmissionRepo(db), func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}
