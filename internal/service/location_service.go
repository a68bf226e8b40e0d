package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/api"
	"github.com/rc-foods/courier-client/internal/cache"
	"github.com/rc-foods/courier-client/internal/config"
	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/storage"
)

const areasCacheKey = "areas"

// LocationService serves the area list through a long-TTL cache. Areas
// change rarely, so a cached list is reused for the full window and an
// expired one still beats an error when the network is down.
type LocationService struct {
	client *api.LocationClient
	store  storage.Store
	areas  *cache.Memo[[]domain.Area]
	logger *zap.Logger
}

// LocationDependencies encapsulates what the service needs.
type LocationDependencies struct {
	Client *api.LocationClient
	Store  storage.Store
}

// NewLocationService builds the service.
func NewLocationService(cfg config.CacheConfig, deps LocationDependencies, logger *zap.Logger) *LocationService {
	return &LocationService{
		client: deps.Client,
		store:  deps.Store,
		areas:  cache.New[[]domain.Area](cfg.AreasTTL()),
		logger: logger,
	}
}

// Areas returns all areas, cached. The returned flag marks a stale
// payload served because the refetch failed.
func (s *LocationService) Areas(ctx context.Context) ([]domain.Area, bool, error) {
	result, err := s.areas.Fetch(ctx, areasCacheKey, s.client.Areas)
	if err != nil {
		return nil, false, err
	}
	if result.Stale {
		s.logger.Warn("serving expired area cache after fetch failure",
			zap.Time("fetched_at", result.FetchedAt))
	}
	return result.Payload, result.Stale, nil
}

// RefreshAreas evicts the cached list and fetches a fresh one.
func (s *LocationService) RefreshAreas(ctx context.Context) ([]domain.Area, error) {
	result, err := s.areas.Refresh(ctx, areasCacheKey, s.client.Areas)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// AreaByID serves a single area from the cached list when possible and
// falls back to the API.
func (s *LocationService) AreaByID(ctx context.Context, areaID int) (*domain.Area, error) {
	if cached, ok := s.areas.Peek(areasCacheKey); ok {
		for _, area := range cached.Payload {
			if area.AreaID == areaID {
				return &area, nil
			}
		}
	}
	return s.client.AreaByID(ctx, areaID)
}

// ClearCache drops the cached area list.
func (s *LocationService) ClearCache() {
	s.areas.InvalidateAll()
}

// AreaCache exposes the memo for tests that pin clock behavior.
func (s *LocationService) AreaCache() *cache.Memo[[]domain.Area] {
	return s.areas
}

// SelectArea persists the delivery person's chosen area marker.
func (s *LocationService) SelectArea(ctx context.Context, area domain.Area) error {
	encoded, err := json.Marshal(area)
	if err != nil {
		return fmt.Errorf("encode selected area: %w", err)
	}
	return s.store.Set(ctx, storage.KeySelectedArea, string(encoded))
}

// SelectedArea returns the persisted area marker, if any.
func (s *LocationService) SelectedArea(ctx context.Context) (*domain.Area, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeySelectedArea)
	if err != nil || !ok {
		return nil, err
	}
	var area domain.Area
	if err := json.Unmarshal([]byte(raw), &area); err != nil {
		return nil, fmt.Errorf("decode selected area: %w", err)
	}
	return &area, nil
}

// ClearSelectedArea removes the area marker.
func (s *LocationService) ClearSelectedArea(ctx context.Context) error {
	return s.store.Remove(ctx, storage.KeySelectedArea)
}
