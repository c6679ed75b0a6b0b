package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/salescrm/auth"
	"github.com/diewo77/salescrm/internal/config"
	"github.com/diewo77/salescrm/internal/db"
	"github.com/diewo77/salescrm/internal/handlers"
	"github.com/diewo77/salescrm/internal/intake"
	"github.com/diewo77/salescrm/internal/ocr"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load()
	logger := config.NewLogger(cfg.Log)

	dbConn, err := db.Open(cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	if err := db.Migrate(dbConn, cfg); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
	if *migrateOnlyFlag {
		logger.Info("migrations completed")
		return
	}

	if cfg.App.SessionSecret == "" && !cfg.App.Dev {
		logger.Fatal("SESSION_SECRET is required outside dev mode")
	}
	auth.SetSecret(cfg.App.SessionSecret)
	auth.SetUserVerifier(handlers.UserExists(dbConn))

	drafts, closeDrafts := draftStore(cfg.Redis, logger)
	defer closeDrafts()

	app := NewApp(Deps{
		DB:        dbConn,
		Source:    recordSource(cfg, dbConn, logger),
		Drafts:    drafts,
		Extractor: ocr.NewBridge(ocr.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout), logger),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Server.Port, "dev": cfg.App.Dev, "records": cfg.App.RecordSource}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("error during shutdown")
	}
	logger.Info("server stopped")
}

// recordSource picks the local database or the PostgREST backend.
func recordSource(cfg *config.Config, dbConn *gorm.DB, logger *logrus.Logger) records.Source {
	if cfg.App.RecordSource == "rest" {
		if cfg.Backend.URL == "" || cfg.Backend.AnonKey == "" {
			logger.Fatal("RECORD_SOURCE=rest needs BACKEND_URL and BACKEND_ANON_KEY")
		}
		return records.NewRESTSource(cfg.Backend.URL, cfg.Backend.AnonKey, cfg.Backend.Timeout)
	}
	return records.NewDBSource(dbConn)
}

// draftStore uses Redis when REDIS_ADDR is set and memory otherwise.
func draftStore(cfg config.RedisConfig, logger *logrus.Logger) (intake.DraftStore, func()) {
	if cfg.Addr == "" {
		logger.Info("intake drafts kept in memory")
		return intake.NewMemoryDraftStore(), func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithField("addr", cfg.Addr).Fatal("redis unreachable")
	}
	logger.WithField("addr", cfg.Addr).Info("intake drafts kept in redis")
	return intake.NewRedisDraftStore(rdb, cfg.DraftTTL), func() { _ = rdb.Close() }
}
