package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls   int
	payload []string
	err     error
}

func (l *countingLoader) load(context.Context) ([]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.payload, nil
}

func TestFetchReusesWithinTTL(t *testing.T) {
	ctx := context.Background()
	memo := New[[]string](5 * time.Minute)

	base := time.Now()
	now := base
	memo.SetClock(func() time.Time { return now })

	loader := &countingLoader{payload: []string{"a", "b"}}

	first, err := memo.Fetch(ctx, "areas", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)

	// reused just inside the window
	now = base.Add(4*time.Minute + 59*time.Second)
	second, err := memo.Fetch(ctx, "areas", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, first.Payload, second.Payload)
	assert.False(t, second.Stale)

	// refetched just past it
	now = base.Add(5*time.Minute + time.Second)
	_, err = memo.Fetch(ctx, "areas", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestFetchFallsBackToStaleOnError(t *testing.T) {
	ctx := context.Background()
	memo := New[[]string](2 * time.Minute)

	base := time.Now()
	now := base
	memo.SetClock(func() time.Time { return now })

	loader := &countingLoader{payload: []string{"order-1"}}
	_, err := memo.Fetch(ctx, "orders", loader.load)
	require.NoError(t, err)

	// entry is 3 minutes old, past its 2 minute TTL, and the reload fails
	now = base.Add(3 * time.Minute)
	loader.err = errors.New("connection refused")

	result, err := memo.Fetch(ctx, "orders", loader.load)
	require.NoError(t, err)
	assert.True(t, result.Stale)
	assert.Equal(t, []string{"order-1"}, result.Payload)
	assert.Equal(t, base, result.FetchedAt)
}

func TestFetchPropagatesErrorWithoutEntry(t *testing.T) {
	ctx := context.Background()
	memo := New[[]string](time.Minute)

	loader := &countingLoader{err: errors.New("connection refused")}
	_, err := memo.Fetch(ctx, "orders", loader.load)
	assert.Error(t, err)
}

func TestRefreshForcesLoad(t *testing.T) {
	ctx := context.Background()
	memo := New[[]string](time.Hour)

	loader := &countingLoader{payload: []string{"x"}}
	_, err := memo.Fetch(ctx, "k", loader.load)
	require.NoError(t, err)
	_, err = memo.Refresh(ctx, "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestInvalidateAll(t *testing.T) {
	ctx := context.Background()
	memo := New[[]string](time.Hour)

	loader := &countingLoader{payload: []string{"x"}}
	_, err := memo.Fetch(ctx, "k1", loader.load)
	require.NoError(t, err)
	_, err = memo.Fetch(ctx, "k2", loader.load)
	require.NoError(t, err)

	memo.InvalidateAll()

	_, err = memo.Fetch(ctx, "k1", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 3, loader.calls)
}

func TestKeyIsOrderIndependent(t *testing.T) {
	a := Key(map[string]any{"area_id": 2, "meal_time": "lunch", "payment_status": "pending"})
	b := Key(map[string]any{"payment_status": "pending", "area_id": 2, "meal_time": "lunch"})
	assert.Equal(t, a, b)

	// empty and nil values don't change the key
	c := Key(map[string]any{"area_id": 2, "meal_time": "lunch", "payment_status": "pending", "date": "", "extra": nil})
	assert.Equal(t, a, c)

	// different parameters make a different key
	d := Key(map[string]any{"area_id": 3, "meal_time": "lunch", "payment_status": "pending"})
	assert.NotEqual(t, a, d)
}
