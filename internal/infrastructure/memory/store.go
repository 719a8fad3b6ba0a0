package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// RecordedEvent is a domain event kept in the store's event log
type RecordedEvent struct {
	AggregateType string
	AggregateID   string
	Event         domain.DomainEvent
}

type snapshotter interface {
	snapshot() (restore func())
}

// Store is an in-process domain.Store. A single RWMutex guards every
// collection; RunInTransaction holds the write lock for the whole callback
// and restores the previous maps when the callback fails.
type Store struct {
	mu sync.RWMutex

	items           *collection[*domain.Item]
	suppliers       *collection[*domain.Supplier]
	clients         *collection[*domain.Client]
	purchases       *collection[*domain.Purchase]
	sales           *collection[*domain.Sale]
	purchaseReturns *collection[*domain.PurchaseReturn]
	audits          *collection[*domain.InventoryAudit]
	vouchers        *collection[*domain.Voucher]
	currencies      *collection[*domain.Currency]
	paymentTypes    *collection[*domain.PaymentType]
	settings        *collection[*domain.SettingRecord]

	sequences map[string]int
	events    []RecordedEvent

	all []snapshotter
}

var _ domain.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{sequences: make(map[string]int)}

	s.items = newCollection[*domain.Item](s)
	s.suppliers = newCollection[*domain.Supplier](s)
	s.clients = newCollection[*domain.Client](s)
	s.purchases = newCollection[*domain.Purchase](s)
	s.sales = newCollection[*domain.Sale](s)
	s.purchaseReturns = newCollection[*domain.PurchaseReturn](s)
	s.audits = newCollection[*domain.InventoryAudit](s)
	s.vouchers = newCollection[*domain.Voucher](s)
	s.currencies = newCollection[*domain.Currency](s)
	s.paymentTypes = newCollection[*domain.PaymentType](s)
	s.settings = newCollection[*domain.SettingRecord](s)

	s.all = []snapshotter{
		s.items, s.suppliers, s.clients, s.purchases, s.sales, s.purchaseReturns,
		s.audits, s.vouchers, s.currencies, s.paymentTypes, s.settings,
	}
	return s
}

func (s *Store) Items() domain.Collection[*domain.Item]                     { return s.items }
func (s *Store) Suppliers() domain.Collection[*domain.Supplier]             { return s.suppliers }
func (s *Store) Clients() domain.Collection[*domain.Client]                 { return s.clients }
func (s *Store) Purchases() domain.Collection[*domain.Purchase]             { return s.purchases }
func (s *Store) Sales() domain.Collection[*domain.Sale]                     { return s.sales }
func (s *Store) PurchaseReturns() domain.Collection[*domain.PurchaseReturn] { return s.purchaseReturns }
func (s *Store) Audits() domain.Collection[*domain.InventoryAudit]          { return s.audits }
func (s *Store) Vouchers() domain.Collection[*domain.Voucher]               { return s.vouchers }
func (s *Store) Currencies() domain.Collection[*domain.Currency]            { return s.currencies }
func (s *Store) PaymentTypes() domain.Collection[*domain.PaymentType]       { return s.paymentTypes }
func (s *Store) Settings() domain.Collection[*domain.SettingRecord]         { return s.settings }

type txKey struct{}

func (s *Store) inTransaction(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) readLock(ctx context.Context) func() {
	if s.inTransaction(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) writeLock(ctx context.Context) func() {
	if s.inTransaction(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// RunInTransaction runs fn with exclusive access to the store. Every write
// made through the ctx passed to fn is undone if fn returns an error or
// panics.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTransaction(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restores := make([]func(), 0, len(s.all)+1)
	for _, c := range s.all {
		restores = append(restores, c.snapshot())
	}
	restores = append(restores, s.snapshotLogs())

	committed := false
	defer func() {
		if !committed {
			for _, restore := range restores {
				restore()
			}
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) snapshotLogs() func() {
	sequences := make(map[string]int, len(s.sequences))
	for k, v := range s.sequences {
		sequences[k] = v
	}
	eventCount := len(s.events)
	return func() {
		s.sequences = sequences
		s.events = s.events[:eventCount]
	}
}

// NextSequence returns max(highest issued, observedMax)+1 for prefix
func (s *Store) NextSequence(ctx context.Context, prefix string, observedMax int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	unlock := s.writeLock(ctx)
	defer unlock()

	next := s.sequences[prefix]
	if observedMax > next {
		next = observedMax
	}
	next++
	s.sequences[prefix] = next
	return next, nil
}

// RecordEvents appends events to the in-memory event log
func (s *Store) RecordEvents(ctx context.Context, aggregateType, aggregateID string, events ...domain.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.writeLock(ctx)
	defer unlock()

	for _, e := range events {
		s.events = append(s.events, RecordedEvent{
			AggregateType: aggregateType,
			AggregateID:   aggregateID,
			Event:         e,
		})
	}
	return nil
}

// Events returns a copy of the event log
func (s *Store) Events() []RecordedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RecordedEvent(nil), s.events...)
}

// collection stores cloned records keyed by id
type collection[T domain.Record[T]] struct {
	store   *Store
	records map[string]T
}

func newCollection[T domain.Record[T]](s *Store) *collection[T] {
	return &collection[T]{store: s, records: make(map[string]T)}
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	unlock := c.store.readLock(ctx)
	defer unlock()

	record, ok := c.records[id]
	if !ok {
		return zero, nil
	}
	return record.Clone(), nil
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unlock := c.store.readLock(ctx)
	defer unlock()

	ids := make([]string, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.records[id].Clone())
	}
	return out, nil
}

func (c *collection[T]) Upsert(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := c.store.writeLock(ctx)
	defer unlock()

	c.records[record.RecordID()] = record.Clone()
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := c.store.writeLock(ctx)
	defer unlock()

	delete(c.records, id)
	return nil
}

// snapshot copies the map only; stored values are never mutated in place.
func (c *collection[T]) snapshot() func() {
	saved := make(map[string]T, len(c.records))
	for k, v := range c.records {
		saved[k] = v
	}
	return func() { c.records = saved }
}
