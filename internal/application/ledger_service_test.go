package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"

	"github.com/ledgerline/inventory-core/internal/domain"
	"github.com/ledgerline/inventory-core/internal/infrastructure/memory"
)

const testServiceName = "inventory-core-test"

type ledgerHarness struct {
	store   *memory.Store
	metrics *metrics.Metrics
	ledger  *LedgerService
	queries *DocumentQueryService
}

func newLedgerHarness(t *testing.T) *ledgerHarness {
	t.Helper()
	return newLedgerHarnessWithStore(t, memory.NewStore())
}

func newLedgerHarnessWithStore(t *testing.T, store *memory.Store) *ledgerHarness {
	t.Helper()
	m := metrics.New(metrics.DefaultConfig(testServiceName))
	logger := logging.NewNop()
	return &ledgerHarness{
		store:   store,
		metrics: m,
		ledger:  NewLedgerService(store, memory.NewLocker(), m, logger),
		queries: NewDocumentQueryService(store, logger),
	}
}

func (h *ledgerHarness) seedItem(t *testing.T, id string, stock, price float64) {
	t.Helper()
	item, err := domain.NewItem(id, domain.ItemDetails{Name: id + " item", UnitPrice: price}, stock)
	require.NoError(t, err)
	require.NoError(t, h.store.Items().Upsert(context.Background(), item))
}

func (h *ledgerHarness) stock(t *testing.T, id string) float64 {
	t.Helper()
	item, err := h.store.Items().Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item, "item %s", id)
	return item.Stock
}

func (h *ledgerHarness) assertNoDrift(t *testing.T) {
	t.Helper()
	drifts, err := h.ledger.VerifyStock(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func stockEvents(s *memory.Store, reason string) []*domain.StockAdjustedEvent {
	var out []*domain.StockAdjustedEvent
	for _, e := range s.Events() {
		if ev, ok := e.Event.(*domain.StockAdjustedEvent); ok && ev.Reason == reason {
			out = append(out, ev)
		}
	}
	return out
}

func purchaseOf(lines ...LineInput) PurchaseCommand {
	return PurchaseCommand{SupplierID: "Sup-0001", Items: lines}
}

func saleOf(lines ...LineInput) SaleCommand {
	return SaleCommand{ClientID: "Cli-0001", Items: lines}
}

func TestLedgerService_RecordPurchaseAddsStock(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 10, 1)

	dto, err := h.ledger.RecordPurchase(ctx, purchaseOf(
		LineInput{ItemID: "bolt", Quantity: 5, UnitPrice: 2},
		LineInput{ItemID: "ghost", Quantity: 3, UnitPrice: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, "PUR-0001", dto.ID)
	assert.Equal(t, "local", dto.Kind)
	require.Len(t, dto.Items, 2)
	assert.Equal(t, 10.0, dto.Items[0].Total)
	assert.Equal(t, "bolt item", dto.Items[0].ItemName)
	assert.Equal(t, 13.0, dto.GrandTotal)
	assert.Equal(t, 15.0, h.stock(t, "bolt"))

	events := stockEvents(h.store, domain.ReasonPurchaseRecorded)
	require.Len(t, events, 1)
	assert.Equal(t, "bolt", events[0].ItemID)
	assert.Equal(t, 10.0, events[0].PreviousStock)
	assert.Equal(t, 15.0, events[0].NewStock)
	assert.Equal(t, "PUR-0001", events[0].ReferenceID)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		h.metrics.StockMutations.WithLabelValues(testServiceName, "record_purchase", "success")))
	h.assertNoDrift(t)
}

func TestLedgerService_UnknownKindIsRecordedAsLocal(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 0, 1)

	cmd := purchaseOf(LineInput{ItemID: "bolt", Quantity: 4, UnitPrice: 1})
	cmd.Kind = "barter"
	cmd.Expenses = []ExpenseInput{{Description: "freight", Amount: 10}}
	dto, err := h.ledger.RecordPurchase(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, "local", dto.Kind)
	assert.Empty(t, dto.Expenses)
	assert.Equal(t, 4.0, h.stock(t, "bolt"))

	cmd.Items[0].Quantity = 6
	require.NoError(t, h.ledger.UpdatePurchase(ctx, dto.ID, cmd))
	assert.Equal(t, 6.0, h.stock(t, "bolt"))
	h.assertNoDrift(t)
}

func TestLedgerService_UpdatePurchaseAppliesNetDelta(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 10, 1)
	h.seedItem(t, "nut", 0, 1)

	dto, err := h.ledger.RecordPurchase(ctx, purchaseOf(LineInput{ItemID: "bolt", Quantity: 5, UnitPrice: 2}))
	require.NoError(t, err)
	require.Equal(t, 15.0, h.stock(t, "bolt"))

	require.NoError(t, h.ledger.UpdatePurchase(ctx, dto.ID, purchaseOf(LineInput{ItemID: "bolt", Quantity: 8, UnitPrice: 2})))
	assert.Equal(t, 18.0, h.stock(t, "bolt"))

	updates := stockEvents(h.store, domain.ReasonPurchaseUpdated)
	require.Len(t, updates, 1)
	assert.Equal(t, 3.0, updates[0].Delta)

	require.NoError(t, h.ledger.UpdatePurchase(ctx, dto.ID, purchaseOf(LineInput{ItemID: "nut", Quantity: 4, UnitPrice: 1})))
	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	assert.Equal(t, 4.0, h.stock(t, "nut"))

	saved, err := h.queries.GetPurchase(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.CreatedAt, saved.CreatedAt)
	assert.Equal(t, 4.0, saved.GrandTotal)
	h.assertNoDrift(t)
}

func TestLedgerService_DeletePurchaseRestoresExactStock(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 1, 1)

	dto, err := h.ledger.RecordPurchase(ctx, purchaseOf(
		LineInput{ItemID: "bolt", Quantity: 0.1, UnitPrice: 3},
		LineInput{ItemID: "bolt", Quantity: 0.2, UnitPrice: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, 1.3, h.stock(t, "bolt"))

	require.NoError(t, h.ledger.DeletePurchase(ctx, dto.ID))
	assert.Equal(t, 1.0, h.stock(t, "bolt"))

	_, err = h.queries.GetPurchase(ctx, dto.ID)
	assert.Error(t, err)
	h.assertNoDrift(t)
}

func TestLedgerService_SalesMirrorPurchases(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 10, 1)

	dto, err := h.ledger.RecordSale(ctx, saleOf(LineInput{ItemID: "bolt", Quantity: 4, UnitPrice: 3}))
	require.NoError(t, err)
	assert.Equal(t, "Sales-0001", dto.ID)
	assert.Equal(t, 12.0, dto.GrandTotal)
	assert.Equal(t, 6.0, h.stock(t, "bolt"))

	require.NoError(t, h.ledger.UpdateSale(ctx, dto.ID, saleOf(LineInput{ItemID: "bolt", Quantity: 7, UnitPrice: 3})))
	assert.Equal(t, 3.0, h.stock(t, "bolt"))

	require.NoError(t, h.ledger.DeleteSale(ctx, dto.ID))
	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	h.assertNoDrift(t)
}

func TestLedgerService_SaleMayOversell(t *testing.T) {
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 10, 1)

	_, err := h.ledger.RecordSale(context.Background(), saleOf(LineInput{ItemID: "bolt", Quantity: 15, UnitPrice: 1}))
	require.NoError(t, err)
	assert.Equal(t, -5.0, h.stock(t, "bolt"))
}

func TestLedgerService_UnknownDocumentsAreNoOps(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 10, 1)

	require.NoError(t, h.ledger.UpdatePurchase(ctx, "PUR-0404", purchaseOf(LineInput{ItemID: "bolt", Quantity: 5})))
	require.NoError(t, h.ledger.DeletePurchase(ctx, "PUR-0404"))
	require.NoError(t, h.ledger.UpdateSale(ctx, "Sales-0404", saleOf(LineInput{ItemID: "bolt", Quantity: 5})))
	require.NoError(t, h.ledger.DeleteSale(ctx, "Sales-0404"))
	require.NoError(t, h.ledger.ApplyPurchaseReturnToStock(ctx, "RET-0404"))
	require.NoError(t, h.ledger.DeletePurchaseReturn(ctx, "RET-0404"))

	ret, err := h.ledger.RecordPurchaseReturn(ctx, PurchaseReturnCommand{
		PurchaseID: "PUR-0404",
		Items:      []LineInput{{ItemID: "bolt", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Nil(t, ret)

	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	assert.Empty(t, h.store.Events())
}

func TestLedgerService_PurchaseReturnsAreClampedAndOptIn(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 0, 1)
	h.seedItem(t, "nut", 0, 1)

	purchase, err := h.ledger.RecordPurchase(ctx, purchaseOf(
		LineInput{ItemID: "bolt", Quantity: 10, UnitPrice: 2},
		LineInput{ItemID: "nut", Quantity: 4, UnitPrice: 1},
	))
	require.NoError(t, err)

	first, err := h.ledger.RecordPurchaseReturn(ctx, PurchaseReturnCommand{
		PurchaseID: purchase.ID,
		Items: []LineInput{
			{ItemID: "bolt", Quantity: 6, UnitPrice: 99},
			{ItemID: "nut", Quantity: 10},
			{ItemID: "ghost", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "RET-0001", first.ID)
	assert.Equal(t, "Sup-0001", first.SupplierID)
	require.Len(t, first.Items, 2)
	assert.Equal(t, 6.0, first.Items[0].Quantity)
	assert.Equal(t, 2.0, first.Items[0].UnitPrice)
	assert.Equal(t, 4.0, first.Items[1].Quantity)
	assert.Equal(t, 16.0, first.TotalCredit)
	assert.False(t, first.StockApplied)

	// recording never moves stock
	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	assert.Equal(t, 4.0, h.stock(t, "nut"))

	second, err := h.ledger.RecordPurchaseReturn(ctx, PurchaseReturnCommand{
		PurchaseID: purchase.ID,
		Items:      []LineInput{{ItemID: "bolt", Quantity: 6}},
	})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, 4.0, second.Items[0].Quantity)

	require.NoError(t, h.ledger.ApplyPurchaseReturnToStock(ctx, first.ID))
	require.NoError(t, h.ledger.ApplyPurchaseReturnToStock(ctx, first.ID))
	assert.Equal(t, 4.0, h.stock(t, "bolt"))
	assert.Equal(t, 0.0, h.stock(t, "nut"))
	assert.Len(t, stockEvents(h.store, domain.ReasonReturnApplied), 2)

	applied, err := h.queries.GetPurchaseReturn(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, applied.StockApplied)
	assert.NotNil(t, applied.StockAppliedAt)
	h.assertNoDrift(t)

	require.NoError(t, h.ledger.DeletePurchaseReturn(ctx, first.ID))
	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	assert.Equal(t, 4.0, h.stock(t, "nut"))

	require.NoError(t, h.ledger.DeletePurchaseReturn(ctx, second.ID))
	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	h.assertNoDrift(t)

	remaining, err := h.queries.ListPurchaseReturns(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestLedgerService_DeletePurchaseKeepsItsReturns(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 0, 1)

	purchase, err := h.ledger.RecordPurchase(ctx, purchaseOf(LineInput{ItemID: "bolt", Quantity: 5, UnitPrice: 1}))
	require.NoError(t, err)
	ret, err := h.ledger.RecordPurchaseReturn(ctx, PurchaseReturnCommand{
		PurchaseID: purchase.ID,
		Items:      []LineInput{{ItemID: "bolt", Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, h.ledger.DeletePurchase(ctx, purchase.ID))

	kept, err := h.queries.GetPurchaseReturn(ctx, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.ID, kept.PurchaseID)
}

func TestLedgerService_BulkUpdateKeepsHistoryConsistent(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 10, 1)
	h.seedItem(t, "nut", 3, 1)

	_, err := h.ledger.RecordPurchase(ctx, purchaseOf(LineInput{ItemID: "bolt", Quantity: 5, UnitPrice: 1}))
	require.NoError(t, err)

	require.NoError(t, h.ledger.BulkUpdateItemStock(ctx, BulkUpdateStockCommand{
		Entries: []StockEntry{
			{ItemID: "bolt", NewStock: 12},
			{ItemID: "nut", NewStock: 3},
			{ItemID: "ghost", NewStock: 7},
		},
		Actor: "admin",
	}))
	assert.Equal(t, 12.0, h.stock(t, "bolt"))
	assert.Equal(t, 3.0, h.stock(t, "nut"))

	bolt, err := h.store.Items().Get(ctx, "bolt")
	require.NoError(t, err)
	assert.Equal(t, -3.0, bolt.AdjustmentTotal)

	overwrites := stockEvents(h.store, domain.ReasonBulkOverwrite)
	require.Len(t, overwrites, 1, "unchanged items emit no event")
	h.assertNoDrift(t)

	_, err = h.ledger.RecordSale(ctx, saleOf(LineInput{ItemID: "bolt", Quantity: 2, UnitPrice: 1}))
	require.NoError(t, err)
	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	h.assertNoDrift(t)
}

func TestLedgerService_VerifyStockReportsDrift(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 10, 1)

	bolt, err := h.store.Items().Get(ctx, "bolt")
	require.NoError(t, err)
	bolt.Stock = 7
	require.NoError(t, h.store.Items().Upsert(ctx, bolt))

	drifts, err := h.ledger.VerifyStock(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, "bolt", drifts[0].ItemID)
	assert.Equal(t, 10.0, drifts[0].Expected)
	assert.Equal(t, -3.0, drifts[0].Drift)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.StockDrift))
}

func TestLedgerService_SequenceNeverReusesNumbers(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)

	var last *PurchaseDTO
	for i := 0; i < 3; i++ {
		dto, err := h.ledger.RecordPurchase(ctx, purchaseOf())
		require.NoError(t, err)
		last = dto
	}
	require.Equal(t, "PUR-0003", last.ID)
	require.NoError(t, h.ledger.DeletePurchase(ctx, last.ID))

	next, err := h.ledger.RecordPurchase(ctx, purchaseOf())
	require.NoError(t, err)
	assert.Equal(t, "PUR-0004", next.ID)
}

func TestLedgerService_ConcurrentSalesAreSerialized(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 100, 1)

	const writers = 50
	ids := make(chan string, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dto, err := h.ledger.RecordSale(ctx, saleOf(LineInput{ItemID: "bolt", Quantity: 1, UnitPrice: 1}))
			if assert.NoError(t, err) {
				ids <- dto.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, writers)
	assert.Equal(t, 50.0, h.stock(t, "bolt"))
	h.assertNoDrift(t)
}

// failingStore makes RecordEvents fail for one aggregate type
type failingStore struct {
	*memory.Store
	failOn string
}

func (f *failingStore) RecordEvents(ctx context.Context, aggregateType, aggregateID string, events ...domain.DomainEvent) error {
	if aggregateType == f.failOn {
		return errors.New("event log unavailable")
	}
	return f.Store.RecordEvents(ctx, aggregateType, aggregateID, events...)
}

func TestLedgerService_FailedWriteLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	base := memory.NewStore()
	store := &failingStore{Store: base, failOn: domain.AggregatePurchase}
	h := newLedgerHarnessWithStore(t, base)
	h.ledger = NewLedgerService(store, memory.NewLocker(), h.metrics, logging.NewNop())
	h.seedItem(t, "bolt", 10, 1)

	_, err := h.ledger.RecordPurchase(ctx, purchaseOf(LineInput{ItemID: "bolt", Quantity: 5, UnitPrice: 1}))
	require.Error(t, err)

	assert.Equal(t, 10.0, h.stock(t, "bolt"))
	purchases, err := base.Purchases().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, purchases)
	assert.Empty(t, base.Events())
	assert.Equal(t, 1.0, testutil.ToFloat64(
		h.metrics.StockMutations.WithLabelValues(testServiceName, "record_purchase", "error")))

	store.failOn = ""
	dto, err := h.ledger.RecordPurchase(ctx, purchaseOf(LineInput{ItemID: "bolt", Quantity: 5, UnitPrice: 1}))
	require.NoError(t, err)
	assert.Equal(t, "PUR-0001", dto.ID)
	assert.Equal(t, 15.0, h.stock(t, "bolt"))
}

func TestLedgerService_LockTimeoutFailsWrite(t *testing.T) {
	h := newLedgerHarness(t)
	locker := memory.NewLocker()
	h.ledger = NewLedgerService(h.store, locker, h.metrics, logging.NewNop())
	h.seedItem(t, "bolt", 10, 1)

	unlock, err := locker.Lock(context.Background(), StockLockKey)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.ledger.RecordSale(ctx, saleOf(LineInput{ItemID: "bolt", Quantity: 1}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10.0, h.stock(t, "bolt"))
}
