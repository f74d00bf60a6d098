// One-shot retention sweep for cron-style deployments where the long-running
// server job is not wanted.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Elicupra/Paroikiapp/config"
	"github.com/Elicupra/Paroikiapp/internal/documentos"
	"github.com/Elicupra/Paroikiapp/internal/metrics"
	"github.com/Elicupra/Paroikiapp/internal/retention"
	"github.com/Elicupra/Paroikiapp/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	metrics.Register()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.Schema, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	storage, err := documentos.NewStorage(cfg.Uploads.Path, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		logger.Fatal("init upload storage", zap.Error(err))
	}

	retention.NewSweeper(retention.NewStore(pool), storage, logger).Sweep(ctx)
}
