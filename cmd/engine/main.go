// Command engine runs the progression and rewards engine: points ledger,
// entitlements, cosmetics store, story progression, prompts and feature
// access behind a small REST API.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mobble-app/mobble-engine/api"
	"github.com/mobble-app/mobble-engine/internal/config"
	"github.com/mobble-app/mobble-engine/internal/session"
	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
	"github.com/mobble-app/mobble-engine/services/access"
	"github.com/mobble-app/mobble-engine/services/checkin"
	"github.com/mobble-app/mobble-engine/services/cosmetics"
	"github.com/mobble-app/mobble-engine/services/entitlement"
	"github.com/mobble-app/mobble-engine/services/points"
	"github.com/mobble-app/mobble-engine/services/prompts"
	"github.com/mobble-app/mobble-engine/services/redeem"
	"github.com/mobble-app/mobble-engine/services/story"
)

func main() {
	configPath := flag.String("config", "config/engine.yaml", "path to the engine configuration")
	flag.Parse()

	cfg := config.LoadOrDefault(*configPath)

	log := logger.New("engine", logger.ParseLevel(cfg.LogLevel))
	log.WithField("listen", cfg.Listen).
		WithField("backend", cfg.Storage.Backend).
		Info("starting engine")

	adapter, err := openAdapter(cfg, log)
	if err != nil {
		log.WithError(err).Error("storage backend unavailable")
		os.Exit(1)
	}

	pointsSvc := points.New(points.NewKVStore(adapter, log), log)
	entitlementSvc := entitlement.New(entitlement.NewKVStore(adapter, log), log)
	cosmeticsSvc := cosmetics.New(cosmetics.NewKVStore(adapter, log), pointsSvc, log)
	storySvc := story.New(story.NewKVStore(adapter, log), log)
	promptSvc := prompts.New(prompts.NewKVStore(adapter, log), log)
	accessSvc := access.New(entitlementSvc, log)
	checkinSvc := checkin.New(pointsSvc, storySvc, promptSvc, log)
	redeemSvc := redeem.New(adapter, pointsSvc, entitlementSvc, log)
	sessions := session.NewManager(adapter, log, promptSvc)

	server := api.NewServer(pointsSvc, entitlementSvc, cosmeticsSvc, storySvc,
		promptSvc, accessSvc, checkinSvc, redeemSvc, sessions, log)

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}

func openAdapter(cfg *config.Config, log *logger.Logger) (storage.Adapter, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedis(cfg.Storage.RedisAddr), nil
	case "memory":
		log.Warn("memory backend selected, state will not survive restarts")
		return storage.NewMemory(), nil
	default:
		return storage.OpenSQLite(cfg.Storage.SQLitePath)
	}
}
