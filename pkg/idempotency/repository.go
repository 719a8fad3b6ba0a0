package idempotency

import (
	"context"
	"time"
)

// KeyRepository stores idempotency keys. AcquireLock must be atomic.
type KeyRepository interface {
	// AcquireLock stores key if (serviceId, userId, key) is unseen, otherwise
	// returns the stored one. The bool reports whether key was newly inserted.
	AcquireLock(ctx context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error)

	// ReleaseLock drops a key whose request failed so a retry can run it
	ReleaseLock(ctx context.Context, keyID string) error

	// StoreResponse completes the key with the response to replay
	StoreResponse(ctx context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error

	// Get retrieves a key by its value, service and caller, or ErrNotFound
	Get(ctx context.Context, key, serviceID, userID string) (*IdempotencyKey, error)

	// Clean removes keys that expired before the given time
	Clean(ctx context.Context, before time.Time) (int64, error)

	EnsureIndexes(ctx context.Context) error
}
