package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technotes/internal/events"
	"github.com/Skotchmaster/technotes/internal/httpserver"
	"github.com/Skotchmaster/technotes/internal/models"
	"github.com/Skotchmaster/technotes/internal/repo"
	"github.com/Skotchmaster/technotes/internal/search"
	"github.com/Skotchmaster/technotes/internal/service"
	"github.com/Skotchmaster/technotes/pkg/config"
	pkgdb "github.com/Skotchmaster/technotes/pkg/db"
	"github.com/Skotchmaster/technotes/pkg/logging"
	"github.com/Skotchmaster/technotes/pkg/middleware/ratelimit"
	"github.com/Skotchmaster/technotes/pkg/tokens"
)

func main() {
	if os.Getenv("GO_ENV") == "production" {
		loadSSM()
	} else if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	config.MustDistinct(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, "JWT_SECRET", "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.Env)
	slog.SetDefault(logger)

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	repo := &repo.GormRepo{DB: db}
	index := openIndex(cfg, repo, logger)

	issuer := tokens.NewIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	validate := service.NewValidator()

	e := httpserver.New(httpserver.Options{
		Logger:      logger,
		LogLevel:    cfg.LogLevel,
		CORSOrigins: cfg.CORSOrigins,
		StaticDir:   cfg.StaticDir,
		TrustProxy:  cfg.TrustProxy,
	}, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo: repo, Tokens: issuer, Validate: validate, Events: publisher,
		}},
		UsersHandler: &httpserver.UsersHTTP{Svc: &service.UserService{
			Repo: repo, Validate: validate, Events: publisher,
		}},
		NotesHandler: &httpserver.NotesHTTP{Svc: &service.NoteService{
			Repo: repo, Index: index, Validate: validate, Events: publisher,
		}},
		AccessSecret: cfg.JWTAccessSecret,
		LoginLimiter: ratelimit.LoginLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow),
		Ready:        repo.Ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("server_stopped")
}

func loadSSM() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := config.NewSSMClient(ctx, config.EnvDefault("AWS_REGION", "us-east-2"))
	if err != nil {
		log.Fatalf("ssm client: %v", err)
	}
	n, err := config.LoadFromSSM(ctx, client, config.EnvDefault("SSM_PREFIX", "/technotes/prod/"))
	if err != nil {
		log.Fatalf("ssm load: %v", err)
	}
	log.Printf("loaded %d parameters from ssm", n)
}

// openDB prefers postgres and falls back to a local sqlite file.
func openDB(cfg config.Config) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.DatabaseURL != "" {
		return pkgdb.Open(ctx, cfg.DatabaseURL)
	}
	return pkgdb.OpenSQLite(ctx, cfg.SQLitePath)
}

func openIndex(cfg config.Config, store *repo.GormRepo, logger *slog.Logger) search.Index {
	if cfg.ESURL == "" {
		logger.Warn("elasticsearch_disabled", "reason", "ES_URL is empty")
		return search.StoreIndex{Store: store}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	idx := &search.ElasticIndex{Client: client, Index: cfg.ESIndex}
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Fatalf("elasticsearch index: %v", err)
	}
	return idx
}
