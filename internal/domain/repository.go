package domain

import "context"

// Record is a stored entity. Clone returns a deep copy so stores can hand
// out and keep records by value.
type Record[T any] interface {
	RecordID() string
	Clone() T
}

// Collection is a persisted set of records keyed by id
type Collection[T Record[T]] interface {
	// Get returns the zero value and no error when id is absent
	Get(ctx context.Context, id string) (T, error)
	// List returns every record ordered by id
	List(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, record T) error
	// Delete is a no-op for a missing id
	Delete(ctx context.Context, id string) error
}

// EventRecorder stores domain events alongside the writes that caused them
type EventRecorder interface {
	RecordEvents(ctx context.Context, aggregateType, aggregateID string, events ...DomainEvent) error
}

// Store is the entity store the ledger and catalog read and write through
type Store interface {
	EventRecorder

	Items() Collection[*Item]
	Suppliers() Collection[*Supplier]
	Clients() Collection[*Client]
	Purchases() Collection[*Purchase]
	Sales() Collection[*Sale]
	PurchaseReturns() Collection[*PurchaseReturn]
	Audits() Collection[*InventoryAudit]
	Vouchers() Collection[*Voucher]
	Currencies() Collection[*Currency]
	PaymentTypes() Collection[*PaymentType]
	Settings() Collection[*SettingRecord]

	// RunInTransaction commits every write made through ctx inside fn
	// atomically, or none of them when fn returns an error. Nested calls
	// join the outer transaction.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// NextSequence returns max(highest number ever issued, observedMax)+1 for
	// prefix and records it, so numbers are never reused.
	NextSequence(ctx context.Context, prefix string, observedMax int) (int, error)
}
