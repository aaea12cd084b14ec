package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/auth"
	"github.com/MikeMC777/cardstore/internal/inventory"
)

const tracerName = "github.com/MikeMC777/cardstore/internal/order"

// Service runs the order lifecycle: creation with stock reservation and
// cancellation with restock.
type Service struct {
	store  Store
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// CreateOrder reserves every requested line and persists the order in one
// unit of work. A failure on any line leaves no reservation behind.
func (s *Service) CreateOrder(ctx context.Context, p auth.Principal, req CreateOrderRequest) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.create", trace.WithAttributes(
		attribute.Int64("user.id", p.UserID),
		attribute.Int("order.lines", len(req.Items)),
	))
	defer span.End()

	if err := checkItems(req.Items); err != nil {
		return nil, fail(span, err)
	}

	now := s.now().UTC()
	o := &Order{
		UserID:    p.UserID,
		Status:    StatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
		Billing:   req.BillingAddress.toAddress(true),
		Delivery:  req.DeliveryAddress.toAddress(false),
	}

	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		o.Lines = make([]Line, 0, len(req.Items))
		for _, it := range req.Items {
			l, err := tx.Reserve(ctx, it.ListingID, it.Quantity)
			if err != nil {
				if errors.Is(err, inventory.ErrNotFound) {
					return fmt.Errorf("listing %d: %w", it.ListingID, ErrNotFound)
				}
				return err
			}
			o.Lines = append(o.Lines, Line{
				ListingID: l.ID,
				Name:      l.Name,
				Version:   l.Version,
				Condition: l.Condition,
				Quantity:  it.Quantity,
				UnitPrice: l.Price,
			})
		}
		o.Total = Total(o.Lines)
		return tx.InsertOrder(ctx, o)
	})
	if err != nil {
		s.logger.Info("order rejected", zap.Int64("user_id", p.UserID), zap.Error(err))
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int64("order.id", o.ID), attribute.String("order.total", o.Total.StringFixed(2)))
	s.logger.Info("order confirmed",
		zap.Int64("order_id", o.ID),
		zap.Int64("user_id", p.UserID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}

// CancelOrder restocks every line of the caller's order and marks it
// CANCELED. Only the owner may cancel; there is no admin override.
func (s *Service) CancelOrder(ctx context.Context, p auth.Principal, orderID int64) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.cancel", trace.WithAttributes(
		attribute.Int64("user.id", p.UserID),
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	var out *Order
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !auth.IsSelf(p, o.UserID) {
			return ErrUnauthorized
		}
		if o.Status == StatusCanceled {
			return fmt.Errorf("order %d already canceled: %w", orderID, ErrInvalidState)
		}
		if !CanTransition(o.Status, StatusCanceled) {
			return fmt.Errorf("order %d cannot be canceled from %s: %w", orderID, o.Status, ErrInvalidState)
		}
		for _, l := range o.Lines {
			if err := tx.Release(ctx, l.ListingID, l.Quantity); err != nil {
				return fmt.Errorf("restock listing %d: %w", l.ListingID, err)
			}
		}
		if err := tx.UpdateStatus(ctx, orderID, o.Status, StatusCanceled); err != nil {
			if errors.Is(err, ErrStatusMismatch) {
				return fmt.Errorf("order %d: %w", orderID, ErrInvalidState)
			}
			return err
		}
		o.Status = StatusCanceled
		o.UpdatedAt = s.now().UTC()
		out = o
		return nil
	})
	if err != nil {
		s.logger.Info("cancel rejected", zap.Int64("order_id", orderID), zap.Int64("user_id", p.UserID), zap.Error(err))
		return nil, fail(span, err)
	}

	s.logger.Info("order canceled", zap.Int64("order_id", orderID), zap.Int64("user_id", p.UserID))
	return out, nil
}

// GetOrder returns the full aggregate if it belongs to the caller.
func (s *Service) GetOrder(ctx context.Context, p auth.Principal, orderID int64) (*Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !auth.IsSelf(p, o.UserID) {
		return nil, ErrUnauthorized
	}
	return o, nil
}

// ListOrders returns the caller's orders, newest first, without lines.
func (s *Service) ListOrders(ctx context.Context, p auth.Principal, limit, offset int) ([]Order, error) {
	limit, offset = ClampPage(limit, offset)
	return s.store.ListByUser(ctx, p.UserID, limit, offset)
}

func checkItems(items []CreateOrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidRequest)
	}
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for listing %d must be positive", ErrInvalidRequest, it.ListingID)
		}
		if seen[it.ListingID] {
			return fmt.Errorf("%w: listing %d requested twice", ErrInvalidRequest, it.ListingID)
		}
		seen[it.ListingID] = true
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
