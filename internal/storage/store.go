// Package storage provides the device-local key-value store the client
// layer persists its session and summaries into.
package storage

import (
	"context"
	"strconv"
)

// Storage keys owned by the client layer.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserData     = "user_data"
	KeySelectedArea = "selected_area"

	// Per-area paid summary records live under this prefix followed by
	// the area id.
	SummaryKeyPrefix = "paid_summary_area_"
)

// Store is a string-keyed persistent store. Implementations must treat
// Remove of a missing key as a no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	RemoveMany(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// SummaryKey returns the storage key of an area's paid summary.
func SummaryKey(areaID int) string {
	return SummaryKeyPrefix + strconv.Itoa(areaID)
}
