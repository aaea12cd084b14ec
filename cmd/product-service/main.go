package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/auth"
	"github.com/MikeMC777/cardstore/internal/config"
	"github.com/MikeMC777/cardstore/internal/httpx"
	"github.com/MikeMC777/cardstore/internal/inventory"
	"github.com/MikeMC777/cardstore/internal/observability"
	"github.com/MikeMC777/cardstore/internal/postgres"
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
	logger = logger.With(zap.String("service", "product-service"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer pool.Close()

	repo := inventory.NewPGRepo(pool)
	authn := user.NewAuthenticator(user.NewPGRepo(pool))

	gin.SetMode(gin.ReleaseMode)
	r := httpx.NewEngine(logger)
	r.GET("/listings", listListingsHandler(repo, logger))
	r.GET("/listings/:id", getListingHandler(repo, logger))
	r.PUT("/listings/:id/price",
		auth.BasicAuth(authn, logger),
		auth.RequireRole(auth.RoleAdmin),
		updatePriceHandler(repo, validation.New(), logger),
	)

	srv := &http.Server{Addr: cfg.ProductSvcAddr, Handler: r}
	go func() {
		logger.Info("product-service listening", zap.String("addr", cfg.ProductSvcAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}
