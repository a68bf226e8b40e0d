package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/api"
	"github.com/rc-foods/courier-client/internal/auth"
	"github.com/rc-foods/courier-client/internal/config"
	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/storage"
)

func newLocationFixture(t *testing.T, handler http.Handler) (*LocationService, storage.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storage.NewMemoryStore()
	tokens := auth.NewTokenStore(store, domain.RoleDeliveryPerson)
	pipeline := api.NewClient("location", server.URL, config.HTTPConfig{TimeoutSeconds: 5}, tokens, zap.NewNop())

	svc := NewLocationService(config.CacheConfig{AreasTTLSeconds: 300}, LocationDependencies{
		Client: api.NewLocationClient(pipeline),
		Store:  store,
	}, zap.NewNop())
	return svc, store
}

func areasHandler(calls *atomic.Int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[
			{"area_id":1,"area_name":"Gandhi Nagar"},
			{"area_id":2,"area_name":"Lake View Colony"}
		]`))
	})
}

func TestAreasCachedForFiveMinutes(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	svc, _ := newLocationFixture(t, areasHandler(&calls))

	base := time.Now()
	now := base
	svc.AreaCache().SetClock(func() time.Time { return now })

	areas, stale, err := svc.Areas(ctx)
	require.NoError(t, err)
	assert.False(t, stale)
	require.Len(t, areas, 2)
	assert.Equal(t, int64(1), calls.Load())

	// 4m59s after the fetch the cache still answers
	now = base.Add(4*time.Minute + 59*time.Second)
	_, _, err = svc.Areas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	// 5m01s after, the window has closed and the network is hit again
	now = base.Add(5*time.Minute + time.Second)
	_, _, err = svc.Areas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestRefreshAreasBypassesCache(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	svc, _ := newLocationFixture(t, areasHandler(&calls))

	_, _, err := svc.Areas(ctx)
	require.NoError(t, err)
	_, err = svc.RefreshAreas(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestAreaByIDUsesCachedList(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	svc, _ := newLocationFixture(t, areasHandler(&calls))

	_, _, err := svc.Areas(ctx)
	require.NoError(t, err)

	area, err := svc.AreaByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, area)
	assert.Equal(t, "Lake View Colony", area.AreaName)
	assert.Equal(t, int64(1), calls.Load())
}

func TestSelectedAreaRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLocationFixture(t, http.NotFoundHandler())

	none, err := svc.SelectedArea(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, svc.SelectArea(ctx, domain.Area{AreaID: 2, AreaName: "Lake View Colony"}))

	got, err := svc.SelectedArea(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.AreaID)

	require.NoError(t, svc.ClearSelectedArea(ctx))
	none, err = svc.SelectedArea(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)
}
