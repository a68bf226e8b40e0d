package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/api"
	"github.com/rc-foods/courier-client/internal/cache"
	"github.com/rc-foods/courier-client/internal/config"
	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/events"
)

// DeliveryService serves order listings through a short-TTL cache keyed by
// the normalized query parameters, and invalidates the whole cache after
// any payment mutation so the next fetch is guaranteed fresh.
type DeliveryService struct {
	client     *api.DeliveryClient
	orders     *cache.Memo[*api.AreaOrdersResponse]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DeliveryDependencies encapsulates what the service needs.
type DeliveryDependencies struct {
	Client     *api.DeliveryClient
	Dispatcher events.Dispatcher
}

// NewDeliveryService builds the service.
func NewDeliveryService(cfg config.CacheConfig, deps DeliveryDependencies, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{
		client:     deps.Client,
		orders:     cache.New[*api.AreaOrdersResponse](cfg.OrdersTTL()),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// AreaOrders lists orders for a query, cached per parameter set. The flag
// marks a stale payload served because the refetch failed.
func (s *DeliveryService) AreaOrders(ctx context.Context, req api.AreaOrdersRequest) (*api.AreaOrdersResponse, bool, error) {
	key := cache.Key(req.Params())
	result, err := s.orders.Fetch(ctx, key, func(ctx context.Context) (*api.AreaOrdersResponse, error) {
		return s.client.AreaOrders(ctx, req)
	})
	if err != nil {
		return nil, false, err
	}
	if result.Stale {
		s.logger.Warn("serving expired order cache after fetch failure",
			zap.String("key", key), zap.Time("fetched_at", result.FetchedAt))
	}
	return result.Payload, result.Stale, nil
}

// RefreshAreaOrders evicts the entry for this query and refetches.
func (s *DeliveryService) RefreshAreaOrders(ctx context.Context, req api.AreaOrdersRequest) (*api.AreaOrdersResponse, error) {
	result, err := s.orders.Refresh(ctx, cache.Key(req.Params()), func(ctx context.Context) (*api.AreaOrdersResponse, error) {
		return s.client.AreaOrders(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// MyAreaOrders lists orders for the assigned area, uncached.
func (s *DeliveryService) MyAreaOrders(ctx context.Context) (*api.AreaOrdersResponse, error) {
	return s.client.MyAreaOrders(ctx)
}

// UpdatePaymentStatus changes an order's collection state and drops every
// cached listing. Two in-flight updates for the same order are not
// deduplicated here; the server owns that idempotency.
func (s *DeliveryService) UpdatePaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*api.PaymentUpdateResponse, error) {
	resp, err := s.client.UpdatePaymentStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.orders.InvalidateAll()
	s.logger.Info("payment status updated",
		zap.String("order_id", orderID), zap.String("payment_status", string(status)))
	return resp, nil
}

// MarkOrderPaid updates the order to paid and publishes the event the
// summary accumulation listens for.
func (s *DeliveryService) MarkOrderPaid(ctx context.Context, areaID int, order domain.DeliveryOrder) (*api.PaymentUpdateResponse, error) {
	resp, err := s.UpdatePaymentStatus(ctx, order.OrderID, domain.PaymentStatusPaid)
	if err != nil {
		return nil, err
	}
	order.PaymentStatus = domain.PaymentStatusPaid
	if err := s.dispatcher.Publish(ctx, events.OrderMarkedPaid(areaID, order)); err != nil {
		s.logger.Error("publish paid event", zap.Error(err))
	}
	return resp, nil
}

// ClearCache drops every cached order listing.
func (s *DeliveryService) ClearCache() {
	s.orders.InvalidateAll()
}

// OrderCache exposes the memo for tests that pin clock behavior.
func (s *DeliveryService) OrderCache() *cache.Memo[*api.AreaOrdersResponse] {
	return s.orders
}
