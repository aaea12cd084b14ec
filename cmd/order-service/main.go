package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/MikeMC777/cardstore/docs"
	"github.com/MikeMC777/cardstore/internal/auth"
	"github.com/MikeMC777/cardstore/internal/config"
	"github.com/MikeMC777/cardstore/internal/httpx"
	"github.com/MikeMC777/cardstore/internal/kafka"
	"github.com/MikeMC777/cardstore/internal/observability"
	"github.com/MikeMC777/cardstore/internal/order"
	"github.com/MikeMC777/cardstore/internal/postgres"
	"github.com/MikeMC777/cardstore/internal/redisx"
	"github.com/MikeMC777/cardstore/internal/user"
	"github.com/MikeMC777/cardstore/internal/validation"
)

func main() {
	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("service", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OtelEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer pool.Close()
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
	}

	users := user.NewPGRepo(pool)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := user.EnsureUser(ctx, users, cfg.AdminEmail, cfg.AdminPassword, auth.RoleAdmin, auth.RoleCustomer); err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		logger.Warn("redis ping failed", zap.Error(err))
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic, 1024, logger)
	producer.Start()

	// gRPC health
	healthSrv := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
	if err != nil {
		logger.Fatal("grpc listen", zap.Error(err))
	}
	go func() {
		if err := gs.Serve(lis); err != nil {
			logger.Error("grpc serve", zap.Error(err))
		}
	}()
	if err := pool.Ping(ctx); err == nil {
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	} else {
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	}

	svc := order.NewService(order.NewPGStore(pool), logger)
	cache := redisx.NewStatusCache(rdb, cfg.StatusCacheTTL)
	idem := redisx.NewIdempotency(rdb, cfg.IdempotencyTTL)
	v := validation.New()

	gin.SetMode(gin.ReleaseMode)
	r := httpx.NewEngine(logger)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	authed := r.Group("/orders", auth.BasicAuth(user.NewAuthenticator(users), logger))
	authed.POST("", createOrderHandler(svc, idem, cache, producer, v, logger))
	authed.GET("", listOrdersHandler(svc, logger))
	authed.GET("/:id", getOrderHandler(svc, logger))
	authed.GET("/:id/status", orderStatusHandler(svc, cache, logger))
	authed.POST("/:id/cancel", cancelOrderHandler(svc, cache, producer, logger))

	srv := &http.Server{Addr: cfg.OrderSvcAddr, Handler: r}
	go func() {
		logger.Info("order-service listening", zap.String("addr", cfg.OrderSvcAddr), zap.String("grpc_health", cfg.GRPCHealthAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthSrv.Shutdown()

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	gs.GracefulStop()
	producer.Close()
	producer.WaitClosed()
	if err := shutdownTracing(sctx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}
