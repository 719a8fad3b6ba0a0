package application

import "context"

// StockLockKey is the single lock every stock writer takes
const StockLockKey = "inventory-core:stock-ledger"

// Locker serializes ledger writers. Lock blocks until the key is held or ctx
// is done; the returned func releases it and is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
