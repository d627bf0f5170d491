package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"primeduel/internal/config"
	"primeduel/internal/httpapi"
	"primeduel/internal/hub"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, cfg, config.Presets(), logger)

	handler := httpapi.SetupRoutes(h, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
