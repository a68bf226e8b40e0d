package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/events"
	"github.com/rc-foods/courier-client/internal/storage"
)

// AreaSummary is the per-area running total of collected payments.
// Each order id contributes at most once, no matter how often the paid
// action fires for it.
type AreaSummary struct {
	AreaID        int      `json:"area_id"`
	OrderIDs      []string `json:"counted_order_ids"`
	TotalAmount   float64  `json:"paid_total_amount"`
	TotalQuantity int      `json:"paid_total_quantity"`
}

func (s AreaSummary) counted(orderID string) bool {
	for _, id := range s.OrderIDs {
		if id == orderID {
			return true
		}
	}
	return false
}

// SummaryService reconciles locally accumulated paid totals per area.
// All mutation is a read-modify-write over the current state under one
// lock; persistence happens on a background task whose failure is logged
// and never blocks the triggering operation.
type SummaryService struct {
	store  storage.Store
	logger *zap.Logger

	mu        sync.Mutex
	summaries map[int]*AreaSummary

	persists sync.WaitGroup
}

// NewSummaryService builds the service.
func NewSummaryService(store storage.Store, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		store:     store,
		logger:    logger,
		summaries: make(map[int]*AreaSummary),
	}
}

// RegisterHandlers subscribes the service to the events that drive it.
func (s *SummaryService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventOrderMarkedPaid, func(ctx context.Context, event events.Event) error {
		if event.Order == nil {
			return nil
		}
		_, err := s.RecordPaid(ctx, event.AreaID, *event.Order)
		return err
	})
	dispatcher.Subscribe(events.EventSessionCleared, func(ctx context.Context, _ events.Event) error {
		return s.ClearAll(ctx)
	})
}

// RecordPaid counts an order into its area's summary. Returns false when
// the order id was already counted and the call was a no-op.
func (s *SummaryService) RecordPaid(ctx context.Context, areaID int, order domain.DeliveryOrder) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, err := s.loadLocked(ctx, areaID)
	if err != nil {
		return false, err
	}
	if summary.counted(order.OrderID) {
		s.logger.Debug("order already counted, skipping",
			zap.Int("area_id", areaID), zap.String("order_id", order.OrderID))
		return false, nil
	}

	summary.OrderIDs = append(summary.OrderIDs, order.OrderID)
	summary.TotalAmount += order.TotalPrice
	summary.TotalQuantity += order.TotalQuantity()

	s.persistAsync(*summary)
	return true, nil
}

// Summary returns the current summary for an area, creating an empty one
// lazily.
func (s *SummaryService) Summary(ctx context.Context, areaID int) (AreaSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, err := s.loadLocked(ctx, areaID)
	if err != nil {
		return AreaSummary{}, err
	}
	return *summary, nil
}

// ClearArea drops one area's summary, for an explicit area switch.
func (s *SummaryService) ClearArea(ctx context.Context, areaID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.summaries, areaID)
	return s.store.Remove(ctx, storage.SummaryKey(areaID))
}

// ClearAll drops every persisted summary. Called on logout.
func (s *SummaryService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = make(map[int]*AreaSummary)

	keys, err := s.store.Keys(ctx, storage.SummaryKeyPrefix)
	if err != nil {
		return fmt.Errorf("list summary keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.store.RemoveMany(ctx, keys...)
}

// Wait blocks until in-flight background persists finish. Shutdown and
// tests only.
func (s *SummaryService) Wait() {
	s.persists.Wait()
}

// loadLocked returns the in-memory summary for areaID, pulling the
// persisted record on first touch. Once loaded, memory is authoritative.
func (s *SummaryService) loadLocked(ctx context.Context, areaID int) (*AreaSummary, error) {
	if summary, ok := s.summaries[areaID]; ok {
		return summary, nil
	}

	summary := &AreaSummary{AreaID: areaID}
	raw, ok, err := s.store.Get(ctx, storage.SummaryKey(areaID))
	if err != nil {
		return nil, fmt.Errorf("load summary for area %d: %w", areaID, err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), summary); err != nil {
			s.logger.Warn("discarding unreadable summary record",
				zap.Int("area_id", areaID), zap.Error(err))
			summary = &AreaSummary{AreaID: areaID}
		}
	}
	s.summaries[areaID] = summary
	return summary, nil
}

// persistAsync writes a snapshot without blocking the caller. Errors are
// logged; the in-memory state stays authoritative either way.
func (s *SummaryService) persistAsync(snapshot AreaSummary) {
	s.persists.Add(1)
	go func() {
		defer s.persists.Done()
		encoded, err := json.Marshal(snapshot)
		if err != nil {
			s.logger.Error("encode summary", zap.Int("area_id", snapshot.AreaID), zap.Error(err))
			return
		}
		if err := s.store.Set(context.Background(), storage.SummaryKey(snapshot.AreaID), string(encoded)); err != nil {
			s.logger.Error("persist summary", zap.Int("area_id", snapshot.AreaID), zap.Error(err))
		}
	}()
}
