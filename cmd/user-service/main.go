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
	logger = logger.With(zap.String("service", "user-service"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer pool.Close()

	repo := user.NewPGRepo(pool)

	gin.SetMode(gin.ReleaseMode)
	r := httpx.NewEngine(logger)
	r.POST("/users", registerHandler(repo, validation.New(), logger))
	authed := r.Group("/users", auth.BasicAuth(user.NewAuthenticator(repo), logger))
	authed.GET("/me", meHandler(repo, logger))
	authed.GET("/:id", getUserHandler(repo, logger))

	srv := &http.Server{Addr: cfg.UserSvcAddr, Handler: r}
	go func() {
		logger.Info("user-service listening", zap.String("addr", cfg.UserSvcAddr))
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
