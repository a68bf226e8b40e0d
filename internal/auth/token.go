// Package auth manages the device's access and refresh tokens.
package auth

import (
	"context"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/storage"
)

// Claims describes the JWT payload the client reads. Tokens are decoded
// without signature verification: the client inspects its own tokens for
// expiry and role gating, authoritative enforcement stays with the server.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenStore persists and inspects the token pair.
type TokenStore struct {
	store       storage.Store
	allowedRole domain.Role
	now         func() time.Time
}

// NewTokenStore builds a store gating on allowedRole.
func NewTokenStore(store storage.Store, allowedRole domain.Role) *TokenStore {
	return &TokenStore{store: store, allowedRole: allowedRole, now: time.Now}
}

// SaveTokens persists both tokens. If the second write fails the first is
// rolled back so callers never observe a half-saved pair.
func (ts *TokenStore) SaveTokens(ctx context.Context, access, refresh string) error {
	if err := ts.store.Set(ctx, storage.KeyAccessToken, access); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := ts.store.Set(ctx, storage.KeyRefreshToken, refresh); err != nil {
		_ = ts.store.Remove(ctx, storage.KeyAccessToken)
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token, if any.
func (ts *TokenStore) AccessToken(ctx context.Context) (string, bool, error) {
	return ts.store.Get(ctx, storage.KeyAccessToken)
}

// RefreshToken returns the stored refresh token, if any.
func (ts *TokenStore) RefreshToken(ctx context.Context) (string, bool, error) {
	return ts.store.Get(ctx, storage.KeyRefreshToken)
}

// ClearAccessToken removes only the access token, leaving the refresh
// token available for an exchange.
func (ts *TokenStore) ClearAccessToken(ctx context.Context) error {
	return ts.store.Remove(ctx, storage.KeyAccessToken)
}

// ClearTokens removes both tokens. Safe to call when already cleared.
func (ts *TokenStore) ClearTokens(ctx context.Context) error {
	return ts.store.RemoveMany(ctx, storage.KeyAccessToken, storage.KeyRefreshToken)
}

// IsExpired reports whether the token's expiry claim is in the past.
// Tokens that fail to decode count as expired.
func (ts *TokenStore) IsExpired(token string) bool {
	claims, err := ts.decode(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.After(ts.now())
}

// Role extracts the role claim from a token.
func (ts *TokenStore) Role(token string) (domain.Role, error) {
	claims, err := ts.decode(token)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// IsDeliveryPersonRole reports whether the stored access token carries the
// allowed role and has not expired. Client-side gating only.
func (ts *TokenStore) IsDeliveryPersonRole(ctx context.Context) (bool, error) {
	token, ok, err := ts.AccessToken(ctx)
	if err != nil {
		return false, err
	}
	if !ok || ts.IsExpired(token) {
		return false, nil
	}
	role, err := ts.Role(token)
	if err != nil {
		return false, nil
	}
	return role == ts.allowedRole, nil
}

func (ts *TokenStore) decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}
