package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/common/database"
	"github.com/jeerawut3427/personal-system/common/logger"
	"github.com/jeerawut3427/personal-system/common/mqtt"
	"github.com/jeerawut3427/personal-system/internal/config"
	"github.com/jeerawut3427/personal-system/internal/stubapi"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "personal-system-stub")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional DB-backed repository; memory otherwise.
	var (
		repo stubapi.Repository = stubapi.NewMemoryRepository()
		db   *sql.DB
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			pg := stubapi.NewPostgresRepository(d, log)
			if err := pg.EnsureSchema(ctx); err != nil {
				log.Fatal("Failed to prepare schema", zap.Error(err))
			}
			db, repo = d, pg
			log.Info("DB enabled for stub server")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}

	opts := []stubapi.Option{
		stubapi.WithPageSize(cfg.PageSize),
		stubapi.WithProtectedUser(cfg.SeedAdmin.Username),
	}
	var mq *mqtt.Client
	if cfg.MQTTEnabled {
		if c, err := mqtt.NewClient(&cfg.MQTT); err == nil {
			mq = c
			opts = append(opts, stubapi.WithNotifier(stubapi.NewMQTTNotifier(c, log)))
			log.Info("MQTT notifications enabled", zap.String("broker", cfg.MQTT.Broker))
		} else {
			log.Warn("MQTT enabled but connection failed, events disabled", zap.Error(err))
		}
	}

	if os.Getenv("SEED_ADMIN") != "false" {
		created, err := stubapi.SeedAdmin(ctx, repo, cfg.SeedAdmin.Username, cfg.SeedAdmin.Password, cfg.SeedAdmin.Department)
		if err != nil {
			log.Fatal("Failed to seed admin", zap.Error(err))
		}
		if created {
			log.Info("Seeded admin account", zap.String("username", cfg.SeedAdmin.Username))
		}
	}

	router := stubapi.NewRouter(log)
	router.RegisterActionRoutes(cfg.API.Path, stubapi.NewHandler(repo, log, opts...))

	srv := stubapi.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", zap.Error(err))
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mq != nil {
		mq.Disconnect()
	}
	if db != nil {
		_ = database.Close(db)
	}
}
