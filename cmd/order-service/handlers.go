package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/auth"
	"github.com/MikeMC777/cardstore/internal/httpx"
	"github.com/MikeMC777/cardstore/internal/kafka"
	"github.com/MikeMC777/cardstore/internal/order"
	"github.com/MikeMC777/cardstore/internal/redisx"
	"github.com/MikeMC777/cardstore/internal/validation"
)

const producerName = "order-service"

type StatusCache interface {
	Get(ctx context.Context, orderID int64) (redisx.StatusEntry, bool, error)
	// Set overwrites; used after a committed write.
	Set(ctx context.Context, orderID int64, e redisx.StatusEntry) error
	// Fill writes only if absent; used when filling a miss.
	Fill(ctx context.Context, orderID int64, e redisx.StatusEntry) error
}

type Idempotency interface {
	Claim(ctx context.Context, userID int64, key string) (int64, bool, error)
	Complete(ctx context.Context, userID int64, key string, orderID int64) error
	Release(ctx context.Context, userID int64, key string) error
}

type Publisher interface {
	Publish(ctx context.Context, key, value []byte)
}

// POST /orders
func createOrderHandler(svc *order.Service, idem Idempotency, cache StatusCache, pub Publisher, v *validator.Validate, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.FromGin(c)
		ctx := c.Request.Context()

		var req order.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		key := c.GetHeader("Idempotency-Key")
		if key != "" {
			prev, claimed, err := idem.Claim(ctx, p.UserID, key)
			switch {
			case errors.Is(err, redisx.ErrInFlight):
				c.JSON(http.StatusConflict, gin.H{"error": "request_in_flight", "msg": "a request with this Idempotency-Key is still running"})
				return
			case err != nil:
				httpx.WriteError(c, logger, err)
				return
			case !claimed:
				o, err := svc.GetOrder(ctx, p, prev)
				if err != nil {
					httpx.WriteError(c, logger, err)
					return
				}
				c.Header("Idempotent-Replayed", "true")
				c.JSON(http.StatusCreated, o.Result())
				return
			}
		}

		o, err := svc.CreateOrder(ctx, p, req)
		if err != nil {
			if key != "" {
				if rerr := idem.Release(ctx, p.UserID, key); rerr != nil {
					logger.Warn("idempotency release", zap.String("key", key), zap.Error(rerr))
				}
			}
			httpx.WriteError(c, logger, err)
			return
		}
		if key != "" {
			if err := idem.Complete(ctx, p.UserID, key, o.ID); err != nil {
				logger.Warn("idempotency complete", zap.String("key", key), zap.Int64("order_id", o.ID), zap.Error(err))
			}
		}

		afterWrite(c, cache, pub, logger, order.EventOrderConfirmed, o)
		c.JSON(http.StatusCreated, o.Result())
	}
}

// POST /orders/:id/cancel
func cancelOrderHandler(svc *order.Service, cache StatusCache, pub Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		p, _ := auth.FromGin(c)

		o, err := svc.CancelOrder(c.Request.Context(), p, id)
		if err != nil {
			httpx.WriteError(c, logger, err)
			return
		}
		afterWrite(c, cache, pub, logger, order.EventOrderCanceled, o)
		c.JSON(http.StatusOK, o.Result())
	}
}

// GET /orders/:id
func getOrderHandler(svc *order.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		p, _ := auth.FromGin(c)

		o, err := svc.GetOrder(c.Request.Context(), p, id)
		if err != nil {
			httpx.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// GET /orders?limit=&offset=
func listOrdersHandler(svc *order.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.FromGin(c)
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		limit, offset = order.ClampPage(limit, offset)

		items, err := svc.ListOrders(c.Request.Context(), p, limit, offset)
		if err != nil {
			httpx.WriteError(c, logger, err)
			return
		}
		if items == nil {
			items = []order.Order{}
		}
		c.JSON(http.StatusOK, order.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// GET /orders/:id/status serves from the cache and fills it from the store
// on a miss.
func orderStatusHandler(svc *order.Service, cache StatusCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		p, _ := auth.FromGin(c)
		ctx := c.Request.Context()

		e, hit, err := cache.Get(ctx, id)
		if err != nil {
			logger.Warn("status cache get", zap.Int64("order_id", id), zap.Error(err))
		}
		if hit {
			if !auth.IsSelf(p, e.UserID) {
				httpx.WriteError(c, logger, order.ErrUnauthorized)
				return
			}
			c.JSON(http.StatusOK, order.Result{OrderID: id, Status: order.Status(e.Status)})
			return
		}

		o, err := svc.GetOrder(ctx, p, id)
		if err != nil {
			httpx.WriteError(c, logger, err)
			return
		}
		if err := cache.Fill(ctx, o.ID, statusEntry(o)); err != nil {
			logger.Warn("status cache fill", zap.Int64("order_id", o.ID), zap.Error(err))
		}
		c.JSON(http.StatusOK, o.Result())
	}
}

// afterWrite refreshes the status cache and publishes the lifecycle event.
// Both run after commit; their failures are logged and do not fail the request.
func afterWrite(c *gin.Context, cache StatusCache, pub Publisher, logger *zap.Logger, eventType string, o *order.Order) {
	ctx := c.Request.Context()
	if err := cache.Set(ctx, o.ID, statusEntry(o)); err != nil {
		logger.Warn("status cache set", zap.Int64("order_id", o.ID), zap.Error(err))
	}

	env := order.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
		CorrelationID: c.GetString(httpx.RequestIDKey),
		Payload:       kafka.MustMarshal(o.EventPayload()),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		env.TraceID = sc.TraceID().String()
	}
	pub.Publish(ctx, order.PartitionKey(o.ID), kafka.MustMarshal(env))
}

func statusEntry(o *order.Order) redisx.StatusEntry {
	return redisx.StatusEntry{UserID: o.UserID, Status: string(o.Status), UpdatedAt: o.UpdatedAt}
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "msg": "invalid order id"})
		return 0, false
	}
	return id, true
}
