package auth

import (
	"context"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/storage"
)

func mintToken(t *testing.T, role domain.Role, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "u-1",
		"role": string(role),
		"exp":  expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSaveTokensRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := NewTokenStore(storage.NewMemoryStore(), domain.RoleDeliveryPerson)

	require.NoError(t, ts.SaveTokens(ctx, "access-1", "refresh-1"))

	access, ok, err := ts.AccessToken(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "access-1", access)

	refresh, ok, err := ts.RefreshToken(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)

	// a second save replaces both
	require.NoError(t, ts.SaveTokens(ctx, "access-2", "refresh-2"))
	access, _, _ = ts.AccessToken(ctx)
	assert.Equal(t, "access-2", access)

	require.NoError(t, ts.ClearTokens(ctx))
	_, ok, err = ts.AccessToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = ts.RefreshToken(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// clearing again is a no-op
	require.NoError(t, ts.ClearTokens(ctx))
}

func TestIsExpired(t *testing.T) {
	ts := NewTokenStore(storage.NewMemoryStore(), domain.RoleDeliveryPerson)

	valid := mintToken(t, domain.RoleDeliveryPerson, time.Now().Add(time.Hour))
	assert.False(t, ts.IsExpired(valid))

	expired := mintToken(t, domain.RoleDeliveryPerson, time.Now().Add(-time.Minute))
	assert.True(t, ts.IsExpired(expired))

	assert.True(t, ts.IsExpired("not-a-jwt"))
	assert.True(t, ts.IsExpired(""))
}

func TestRole(t *testing.T) {
	ts := NewTokenStore(storage.NewMemoryStore(), domain.RoleDeliveryPerson)

	token := mintToken(t, domain.RoleAdmin, time.Now().Add(time.Hour))
	role, err := ts.Role(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	_, err = ts.Role("garbage")
	assert.Error(t, err)
}

func TestIsDeliveryPersonRole(t *testing.T) {
	ctx := context.Background()
	ts := NewTokenStore(storage.NewMemoryStore(), domain.RoleDeliveryPerson)

	// no token stored
	ok, err := ts.IsDeliveryPersonRole(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// matching role
	token := mintToken(t, domain.RoleDeliveryPerson, time.Now().Add(time.Hour))
	require.NoError(t, ts.SaveTokens(ctx, token, "refresh"))
	ok, err = ts.IsDeliveryPersonRole(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// wrong role
	admin := mintToken(t, domain.RoleAdmin, time.Now().Add(time.Hour))
	require.NoError(t, ts.SaveTokens(ctx, admin, "refresh"))
	ok, err = ts.IsDeliveryPersonRole(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// expired token with matching role
	expired := mintToken(t, domain.RoleDeliveryPerson, time.Now().Add(-time.Minute))
	require.NoError(t, ts.SaveTokens(ctx, expired, "refresh"))
	ok, err = ts.IsDeliveryPersonRole(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearAccessTokenKeepsRefresh(t *testing.T) {
	ctx := context.Background()
	ts := NewTokenStore(storage.NewMemoryStore(), domain.RoleDeliveryPerson)

	require.NoError(t, ts.SaveTokens(ctx, "access", "refresh"))
	require.NoError(t, ts.ClearAccessToken(ctx))

	_, ok, _ := ts.AccessToken(ctx)
	assert.False(t, ok)
	refresh, ok, _ := ts.RefreshToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "refresh", refresh)
}
