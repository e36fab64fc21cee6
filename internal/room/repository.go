// internal/room/repository.go
package room

import (
	"context"
	"errors"
)

// Storage errors, matched with errors.Is at the call site.
var (
	// ErrNotFound means the code (or player mapping) has no stored record.
	// Absence is a common, expected outcome and is never logged as an error.
	ErrNotFound = errors.New("room: not found")

	// ErrDuplicateCode means Create was called with a code that already
	// exists. Callers generate codes defensively and retry.
	ErrDuplicateCode = errors.New("room: code already exists")

	// ErrConflict means a Put carried a stale version stamp and lost a race
	// against a concurrent write. The operation is retryable end to end.
	ErrConflict = errors.New("room: concurrent modification")

	// ErrUnavailable means the backing store failed. Retryable; never
	// degraded to ErrNotFound.
	ErrUnavailable = errors.New("room: storage unavailable")
)

// Repository is keyed storage for Room records with a bounded lifetime.
// Codes are case-insensitive; implementations normalize them to upper case.
// Any successful Get or Put refreshes the room's idle/TTL marker.
//
// Writes are compare-and-swap on Room.Version: Put succeeds only when the
// caller's copy matches the stored version, then stamps the next version on
// both. Room lookups return deep copies; callers never share stored state.
type Repository interface {
	Create(ctx context.Context, rm *Room) error
	Get(ctx context.Context, code string) (*Room, error)
	Put(ctx context.Context, rm *Room) error
	Delete(ctx context.Context, code string) error

	// ListPublicCodes returns codes of rooms flagged public that are still in
	// the lobby (no active round), for discovery.
	ListPublicCodes(ctx context.Context) ([]string, error)

	// BindPlayer, PlayerRoom and UnbindPlayer maintain the player-id to
	// room-code mapping behind the player status lookup.
	BindPlayer(ctx context.Context, playerID, code string) error
	PlayerRoom(ctx context.Context, playerID string) (string, error)
	UnbindPlayer(ctx context.Context, playerID string) error
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*RedisRepository)(nil)
)
