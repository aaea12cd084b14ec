package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/config"
	"github.com/MikeMC777/cardstore/internal/kafka"
	"github.com/MikeMC777/cardstore/internal/observability"
)

func main() {
	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("service", "order-audit"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OtelEndpoint, "order-audit")
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer shutdownTracing(context.Background()) //nolint:errcheck

	c := kafka.NewConsumer(cfg.KafkaBrokers, cfg.AuditGroup, cfg.OrderTopic, cfg.AuditWorkers, logger)
	logger.Info("order-audit consuming",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.OrderTopic),
		zap.String("group", cfg.AuditGroup))

	if err := c.Start(ctx, newAuditHandler(logger)); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}
