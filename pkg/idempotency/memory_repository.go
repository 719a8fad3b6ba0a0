package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryKeyRepository keeps keys in process memory. Used by the memory store
// backend and tests.
type MemoryKeyRepository struct {
	mu   sync.Mutex
	keys map[string]*IdempotencyKey
}

// NewMemoryKeyRepository creates an empty repository
func NewMemoryKeyRepository() *MemoryKeyRepository {
	return &MemoryKeyRepository{keys: make(map[string]*IdempotencyKey)}
}

func scopedKey(serviceID, userID, key string) string {
	return serviceID + "\x00" + userID + "\x00" + key
}

func (r *MemoryKeyRepository) findByID(keyID string) *IdempotencyKey {
	for _, k := range r.keys {
		if k.ID == keyID {
			return k
		}
	}
	return nil
}

// AcquireLock stores key unless (serviceId, userId, key) is already held
func (r *MemoryKeyRepository) AcquireLock(_ context.Context, key *IdempotencyKey) (*IdempotencyKey, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scoped := scopedKey(key.ServiceID, key.UserID, key.Key)
	if existing, ok := r.keys[scoped]; ok {
		return existing.clone(), false, nil
	}

	now := time.Now().UTC()
	stored := key.clone()
	stored.LockedAt = &now
	r.keys[scoped] = stored
	return stored.clone(), true, nil
}

// ReleaseLock forgets the key
func (r *MemoryKeyRepository) ReleaseLock(_ context.Context, keyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for scoped, k := range r.keys {
		if k.ID == keyID {
			delete(r.keys, scoped)
		}
	}
	return nil
}

// StoreResponse completes the key
func (r *MemoryKeyRepository) StoreResponse(_ context.Context, keyID string, responseCode int, responseBody []byte, headers map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.findByID(keyID)
	if k == nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	k.ResponseCode = responseCode
	k.ResponseBody = append([]byte(nil), responseBody...)
	k.ResponseHeaders = headers
	k.CompletedAt = &now
	k.LockedAt = nil
	return nil
}

// Get retrieves a key by its value, service and caller
func (r *MemoryKeyRepository) Get(_ context.Context, key, serviceID, userID string) (*IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.keys[scopedKey(serviceID, userID, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return k.clone(), nil
}

// Clean removes keys that expired before the given time
func (r *MemoryKeyRepository) Clean(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for scoped, k := range r.keys {
		if k.ExpiresAt.Before(before) {
			delete(r.keys, scoped)
			removed++
		}
	}
	return removed, nil
}

// EnsureIndexes is a no-op
func (r *MemoryKeyRepository) EnsureIndexes(context.Context) error {
	return nil
}
