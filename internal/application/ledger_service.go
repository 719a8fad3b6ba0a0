package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// driftTolerance absorbs float64 round-off when comparing stock to its history
const driftTolerance = 1e-9

// LedgerService is the only writer of Item.Stock. Every stock change runs
// under the stock lock inside one store transaction, so concurrent documents
// never observe or produce a partial update.
type LedgerService struct {
	store   domain.Store
	locker  Locker
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	store domain.Store,
	locker Locker,
	m *metrics.Metrics,
	logger *logging.Logger,
) *LedgerService {
	return &LedgerService{
		store:   store,
		locker:  locker,
		metrics: m,
		logger:  logger.WithComponent("ledger"),
		tracer:  otel.Tracer("inventory-core/ledger"),
	}
}

// stockMutation describes a committed ledger write for logs and metrics
type stockMutation struct {
	referenceID  string
	itemsChanged int
}

// writeStock takes the stock lock, runs fn in a transaction and records the
// outcome. fn must do all of its reads and writes through the ctx it is given.
func (s *LedgerService) writeStock(ctx context.Context, operation string, fn func(ctx context.Context) (stockMutation, error)) error {
	ctx, span := s.tracer.Start(ctx, "ledger."+operation)
	defer span.End()

	start := time.Now()
	unlock, err := s.locker.Lock(ctx, StockLockKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock lock not acquired")
		s.logger.Error("Failed to acquire stock lock", "operation", operation, "error", err)
		return fmt.Errorf("failed to acquire stock lock: %w", err)
	}
	defer unlock()
	s.metrics.ObserveStockLockWait(time.Since(start))

	var result stockMutation
	err = s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := fn(ctx)
		if err != nil {
			return err
		}
		result = m
		return nil
	})

	duration := time.Since(start)
	s.metrics.RecordStockMutation(operation, result.itemsChanged, err == nil, duration)
	s.logger.StockMutation(ctx, operation, result.referenceID, result.itemsChanged, duration, err)

	span.SetAttributes(
		attribute.String("ledger.reference_id", result.referenceID),
		attribute.Int("ledger.items_changed", result.itemsChanged),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// applyDelta moves stock of every known item in delta. Unknown items are skipped.
func (s *LedgerService) applyDelta(ctx context.Context, delta domain.StockDelta, reason, referenceID string) (int, error) {
	changed := 0
	for _, itemID := range delta.ItemIDs() {
		item, err := s.store.Items().Get(ctx, itemID)
		if err != nil {
			return changed, fmt.Errorf("failed to load item %s: %w", itemID, err)
		}
		if item == nil {
			continue
		}

		previous := item.ApplyStockDelta(delta[itemID])
		if err := s.saveStockChange(ctx, item, previous, delta[itemID], reason, referenceID); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// overwriteStock sets absolute stock values. Entries are applied in order, so
// a later entry for the same item wins.
func (s *LedgerService) overwriteStock(ctx context.Context, entries []domain.StockOverwrite, reason, referenceID string) (int, error) {
	changed := 0
	for _, entry := range entries {
		item, err := s.store.Items().Get(ctx, entry.ItemID)
		if err != nil {
			return changed, fmt.Errorf("failed to load item %s: %w", entry.ItemID, err)
		}
		if item == nil {
			continue
		}

		previous := item.Stock
		delta := item.OverwriteStock(entry.NewStock)
		if delta == 0 {
			continue
		}
		if err := s.saveStockChange(ctx, item, previous, delta, reason, referenceID); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func (s *LedgerService) saveStockChange(ctx context.Context, item *domain.Item, previous, delta float64, reason, referenceID string) error {
	if err := s.store.Items().Upsert(ctx, item); err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.ID, err)
	}
	return s.store.RecordEvents(ctx, domain.AggregateItem, item.ID, &domain.StockAdjustedEvent{
		ItemID:        item.ID,
		ItemName:      item.Name,
		PreviousStock: previous,
		NewStock:      item.Stock,
		Delta:         delta,
		Reason:        reason,
		ReferenceID:   referenceID,
		AdjustedAt:    item.UpdatedAt,
	})
}

// nameLines copies current item names onto lines for printed documents
func (s *LedgerService) nameLines(ctx context.Context, lines []domain.TransactionItem) error {
	for i := range lines {
		if lines[i].ItemID == "" {
			continue
		}
		item, err := s.store.Items().Get(ctx, lines[i].ItemID)
		if err != nil {
			return fmt.Errorf("failed to load item %s: %w", lines[i].ItemID, err)
		}
		if item != nil {
			lines[i].ItemName = item.Name
		}
	}
	return nil
}

// RecordPurchase stores a new purchase and adds its quantities to stock
func (s *LedgerService) RecordPurchase(ctx context.Context, cmd PurchaseCommand) (*PurchaseDTO, error) {
	kind := domain.PurchaseKindOrLocal(cmd.Kind)

	var recorded *domain.Purchase
	err := s.writeStock(ctx, "record_purchase", func(ctx context.Context) (stockMutation, error) {
		id, err := nextID(ctx, s.store, s.store.Purchases(), domain.PurchaseIDPrefix)
		if err != nil {
			return stockMutation{}, err
		}

		purchase := buildPurchase(id, kind, cmd)
		if err := s.nameLines(ctx, purchase.Items); err != nil {
			return stockMutation{}, err
		}
		if err := s.store.Purchases().Upsert(ctx, purchase); err != nil {
			return stockMutation{}, fmt.Errorf("failed to save purchase: %w", err)
		}

		delta := domain.StockDelta{}
		delta.Apply(purchase.Items)
		changed, err := s.applyDelta(ctx, delta, domain.ReasonPurchaseRecorded, id)
		if err != nil {
			return stockMutation{}, err
		}

		if err := s.store.RecordEvents(ctx, domain.AggregatePurchase, id, &domain.PurchaseRecordedEvent{
			PurchaseID: id,
			SupplierID: purchase.SupplierID,
			Kind:       string(purchase.Kind),
			LineCount:  len(purchase.Items),
			GrandTotal: purchase.GrandTotal,
			RecordedAt: purchase.CreatedAt,
		}); err != nil {
			return stockMutation{}, err
		}

		recorded = purchase
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to record purchase", "supplierId", cmd.SupplierID, "error", err)
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	s.logger.Info("Recorded purchase", "purchaseId", recorded.ID, "lines", len(recorded.Items))
	return ToPurchaseDTO(recorded), nil
}

// UpdatePurchase replaces a purchase. Old quantities are reversed and new ones
// applied in the same transaction, so only the net change is ever visible.
// An unknown id is a no-op.
func (s *LedgerService) UpdatePurchase(ctx context.Context, id string, cmd PurchaseCommand) error {
	kind := domain.PurchaseKindOrLocal(cmd.Kind)

	err := s.writeStock(ctx, "update_purchase", func(ctx context.Context) (stockMutation, error) {
		old, err := s.store.Purchases().Get(ctx, id)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load purchase: %w", err)
		}
		if old == nil {
			return stockMutation{referenceID: id}, nil
		}

		updated := buildPurchase(id, kind, cmd)
		updated.CreatedAt = old.CreatedAt
		if err := s.nameLines(ctx, updated.Items); err != nil {
			return stockMutation{}, err
		}
		if err := s.store.Purchases().Upsert(ctx, updated); err != nil {
			return stockMutation{}, fmt.Errorf("failed to save purchase: %w", err)
		}

		delta := domain.StockDelta{}
		delta.Reverse(old.Items)
		delta.Apply(updated.Items)
		changed, err := s.applyDelta(ctx, delta, domain.ReasonPurchaseUpdated, id)
		if err != nil {
			return stockMutation{}, err
		}

		if err := s.store.RecordEvents(ctx, domain.AggregatePurchase, id, &domain.PurchaseUpdatedEvent{
			PurchaseID: id,
			LineCount:  len(updated.Items),
			GrandTotal: updated.GrandTotal,
			UpdatedAt:  updated.UpdatedAt,
		}); err != nil {
			return stockMutation{}, err
		}
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to update purchase", "purchaseId", id, "error", err)
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	return nil
}

// DeletePurchase removes a purchase and reverses its quantities. Returns
// recorded against it are left in place. An unknown id is a no-op.
func (s *LedgerService) DeletePurchase(ctx context.Context, id string) error {
	err := s.writeStock(ctx, "delete_purchase", func(ctx context.Context) (stockMutation, error) {
		old, err := s.store.Purchases().Get(ctx, id)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load purchase: %w", err)
		}
		if old == nil {
			return stockMutation{referenceID: id}, nil
		}

		delta := domain.StockDelta{}
		delta.Reverse(old.Items)
		changed, err := s.applyDelta(ctx, delta, domain.ReasonPurchaseDeleted, id)
		if err != nil {
			return stockMutation{}, err
		}

		if err := s.store.Purchases().Delete(ctx, id); err != nil {
			return stockMutation{}, fmt.Errorf("failed to delete purchase: %w", err)
		}
		if err := s.store.RecordEvents(ctx, domain.AggregatePurchase, id, &domain.PurchaseDeletedEvent{
			PurchaseID: id,
			DeletedAt:  time.Now().UTC(),
		}); err != nil {
			return stockMutation{}, err
		}
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to delete purchase", "purchaseId", id, "error", err)
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	return nil
}

// RecordSale stores a new sale and subtracts its quantities from stock.
// Stock may go negative; overselling is not blocked.
func (s *LedgerService) RecordSale(ctx context.Context, cmd SaleCommand) (*SaleDTO, error) {
	var recorded *domain.Sale
	err := s.writeStock(ctx, "record_sale", func(ctx context.Context) (stockMutation, error) {
		id, err := nextID(ctx, s.store, s.store.Sales(), domain.SaleIDPrefix)
		if err != nil {
			return stockMutation{}, err
		}

		sale := buildSale(id, cmd)
		if err := s.nameLines(ctx, sale.Items); err != nil {
			return stockMutation{}, err
		}
		if err := s.store.Sales().Upsert(ctx, sale); err != nil {
			return stockMutation{}, fmt.Errorf("failed to save sale: %w", err)
		}

		delta := domain.StockDelta{}
		delta.Reverse(sale.Items)
		changed, err := s.applyDelta(ctx, delta, domain.ReasonSaleRecorded, id)
		if err != nil {
			return stockMutation{}, err
		}

		if err := s.store.RecordEvents(ctx, domain.AggregateSale, id, &domain.SaleRecordedEvent{
			SaleID:     id,
			ClientID:   sale.ClientID,
			LineCount:  len(sale.Items),
			GrandTotal: sale.GrandTotal,
			RecordedAt: sale.CreatedAt,
		}); err != nil {
			return stockMutation{}, err
		}

		recorded = sale
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to record sale", "clientId", cmd.ClientID, "error", err)
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	s.logger.Info("Recorded sale", "saleId", recorded.ID, "lines", len(recorded.Items))
	return ToSaleDTO(recorded), nil
}

// UpdateSale replaces a sale, restoring old quantities and subtracting new
// ones atomically. An unknown id is a no-op.
func (s *LedgerService) UpdateSale(ctx context.Context, id string, cmd SaleCommand) error {
	err := s.writeStock(ctx, "update_sale", func(ctx context.Context) (stockMutation, error) {
		old, err := s.store.Sales().Get(ctx, id)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load sale: %w", err)
		}
		if old == nil {
			return stockMutation{referenceID: id}, nil
		}

		updated := buildSale(id, cmd)
		updated.CreatedAt = old.CreatedAt
		if err := s.nameLines(ctx, updated.Items); err != nil {
			return stockMutation{}, err
		}
		if err := s.store.Sales().Upsert(ctx, updated); err != nil {
			return stockMutation{}, fmt.Errorf("failed to save sale: %w", err)
		}

		delta := domain.StockDelta{}
		delta.Apply(old.Items)
		delta.Reverse(updated.Items)
		changed, err := s.applyDelta(ctx, delta, domain.ReasonSaleUpdated, id)
		if err != nil {
			return stockMutation{}, err
		}

		if err := s.store.RecordEvents(ctx, domain.AggregateSale, id, &domain.SaleUpdatedEvent{
			SaleID:     id,
			LineCount:  len(updated.Items),
			GrandTotal: updated.GrandTotal,
			UpdatedAt:  updated.UpdatedAt,
		}); err != nil {
			return stockMutation{}, err
		}
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to update sale", "saleId", id, "error", err)
		return fmt.Errorf("failed to update sale: %w", err)
	}
	return nil
}

// DeleteSale removes a sale and returns its quantities to stock. An unknown
// id is a no-op.
func (s *LedgerService) DeleteSale(ctx context.Context, id string) error {
	err := s.writeStock(ctx, "delete_sale", func(ctx context.Context) (stockMutation, error) {
		old, err := s.store.Sales().Get(ctx, id)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load sale: %w", err)
		}
		if old == nil {
			return stockMutation{referenceID: id}, nil
		}

		delta := domain.StockDelta{}
		delta.Apply(old.Items)
		changed, err := s.applyDelta(ctx, delta, domain.ReasonSaleDeleted, id)
		if err != nil {
			return stockMutation{}, err
		}

		if err := s.store.Sales().Delete(ctx, id); err != nil {
			return stockMutation{}, fmt.Errorf("failed to delete sale: %w", err)
		}
		if err := s.store.RecordEvents(ctx, domain.AggregateSale, id, &domain.SaleDeletedEvent{
			SaleID:    id,
			DeletedAt: time.Now().UTC(),
		}); err != nil {
			return stockMutation{}, err
		}
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to delete sale", "saleId", id, "error", err)
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}

// RecordPurchaseReturn stores a return against a purchase without touching
// stock. Requested quantities are clamped to what the purchase still allows
// after earlier returns. It returns nil when the purchase does not exist.
func (s *LedgerService) RecordPurchaseReturn(ctx context.Context, cmd PurchaseReturnCommand) (*PurchaseReturnDTO, error) {
	var recorded *domain.PurchaseReturn
	err := s.writeStock(ctx, "record_purchase_return", func(ctx context.Context) (stockMutation, error) {
		purchase, err := s.store.Purchases().Get(ctx, cmd.PurchaseID)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load purchase: %w", err)
		}
		if purchase == nil {
			return stockMutation{referenceID: cmd.PurchaseID}, nil
		}

		previous, err := returnsForPurchase(ctx, s.store, purchase.ID)
		if err != nil {
			return stockMutation{}, err
		}
		lines := domain.ClampReturnLines(purchase, previous, toTransactionItems(cmd.Items))

		id, err := nextID(ctx, s.store, s.store.PurchaseReturns(), domain.PurchaseReturnIDPrefix)
		if err != nil {
			return stockMutation{}, err
		}

		now := time.Now().UTC()
		ret := &domain.PurchaseReturn{
			ID:          id,
			PurchaseID:  purchase.ID,
			SupplierID:  purchase.SupplierID,
			Date:        documentDate(cmd.Date, now),
			Items:       lines,
			TotalCredit: domain.LinesSubtotal(lines),
			Note:        cmd.Note,
			CreatedAt:   now,
		}
		if err := s.store.PurchaseReturns().Upsert(ctx, ret); err != nil {
			return stockMutation{}, fmt.Errorf("failed to save purchase return: %w", err)
		}
		if err := s.store.RecordEvents(ctx, domain.AggregatePurchaseReturn, id, &domain.PurchaseReturnRecordedEvent{
			ReturnID:    id,
			PurchaseID:  purchase.ID,
			TotalCredit: ret.TotalCredit,
			RecordedAt:  now,
		}); err != nil {
			return stockMutation{}, err
		}

		recorded = ret
		return stockMutation{referenceID: id}, nil
	})
	if err != nil {
		s.logger.Error("Failed to record purchase return", "purchaseId", cmd.PurchaseID, "error", err)
		return nil, fmt.Errorf("failed to record purchase return: %w", err)
	}
	if recorded == nil {
		return nil, nil
	}

	s.logger.Info("Recorded purchase return", "returnId", recorded.ID, "purchaseId", recorded.PurchaseID)
	return ToPurchaseReturnDTO(recorded), nil
}

// ApplyPurchaseReturnToStock books a recorded return against stock. Applying
// the same return again, or an unknown return, changes nothing.
func (s *LedgerService) ApplyPurchaseReturnToStock(ctx context.Context, id string) error {
	err := s.writeStock(ctx, "apply_purchase_return", func(ctx context.Context) (stockMutation, error) {
		ret, err := s.store.PurchaseReturns().Get(ctx, id)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load purchase return: %w", err)
		}
		now := time.Now().UTC()
		if ret == nil || !ret.MarkStockApplied(now) {
			return stockMutation{referenceID: id}, nil
		}

		delta := domain.StockDelta{}
		delta.Reverse(ret.Items)
		changed, err := s.applyDelta(ctx, delta, domain.ReasonReturnApplied, id)
		if err != nil {
			return stockMutation{}, err
		}

		if err := s.store.PurchaseReturns().Upsert(ctx, ret); err != nil {
			return stockMutation{}, fmt.Errorf("failed to save purchase return: %w", err)
		}
		if err := s.store.RecordEvents(ctx, domain.AggregatePurchaseReturn, id, &domain.PurchaseReturnStockAppliedEvent{
			ReturnID:   id,
			PurchaseID: ret.PurchaseID,
			AppliedAt:  now,
		}); err != nil {
			return stockMutation{}, err
		}
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to apply purchase return", "returnId", id, "error", err)
		return fmt.Errorf("failed to apply purchase return: %w", err)
	}
	return nil
}

// DeletePurchaseReturn removes a return. If it had been applied to stock its
// quantities are added back. An unknown id is a no-op.
func (s *LedgerService) DeletePurchaseReturn(ctx context.Context, id string) error {
	err := s.writeStock(ctx, "delete_purchase_return", func(ctx context.Context) (stockMutation, error) {
		ret, err := s.store.PurchaseReturns().Get(ctx, id)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load purchase return: %w", err)
		}
		if ret == nil {
			return stockMutation{referenceID: id}, nil
		}

		changed := 0
		if ret.StockApplied {
			delta := domain.StockDelta{}
			delta.Apply(ret.Items)
			if changed, err = s.applyDelta(ctx, delta, domain.ReasonReturnDeleted, id); err != nil {
				return stockMutation{}, err
			}
		}

		if err := s.store.PurchaseReturns().Delete(ctx, id); err != nil {
			return stockMutation{}, fmt.Errorf("failed to delete purchase return: %w", err)
		}
		if err := s.store.RecordEvents(ctx, domain.AggregatePurchaseReturn, id, &domain.PurchaseReturnDeletedEvent{
			ReturnID:     id,
			StockApplied: ret.StockApplied,
			DeletedAt:    time.Now().UTC(),
		}); err != nil {
			return stockMutation{}, err
		}
		return stockMutation{referenceID: id, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to delete purchase return", "returnId", id, "error", err)
		return fmt.Errorf("failed to delete purchase return: %w", err)
	}
	return nil
}

// BulkUpdateItemStock overwrites stock with absolute values. The difference
// is booked into each item's AdjustmentTotal.
func (s *LedgerService) BulkUpdateItemStock(ctx context.Context, cmd BulkUpdateStockCommand) error {
	entries := make([]domain.StockOverwrite, 0, len(cmd.Entries))
	for _, e := range cmd.Entries {
		entries = append(entries, domain.StockOverwrite{ItemID: e.ItemID, NewStock: e.NewStock})
	}

	changed := 0
	err := s.writeStock(ctx, "bulk_update_stock", func(ctx context.Context) (stockMutation, error) {
		n, err := s.overwriteStock(ctx, entries, domain.ReasonBulkOverwrite, "")
		if err != nil {
			return stockMutation{}, err
		}
		changed = n
		return stockMutation{itemsChanged: n}, nil
	})
	if err != nil {
		s.logger.Error("Failed to bulk update stock", "entries", len(entries), "error", err)
		return fmt.Errorf("failed to bulk update stock: %w", err)
	}

	s.logger.Audit(ctx, "bulk_update_stock", "item", "", cmd.Actor, map[string]any{
		"entries":      len(entries),
		"itemsChanged": changed,
	})
	return nil
}

// VerifyStock recomputes every item's stock from its history
// (opening + purchases - sales - applied returns + adjustments) and reports
// the items whose stored stock differs.
func (s *LedgerService) VerifyStock(ctx context.Context) ([]StockDriftDTO, error) {
	var drifts []StockDriftDTO
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		items, err := s.store.Items().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		purchases, err := s.store.Purchases().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list purchases: %w", err)
		}
		sales, err := s.store.Sales().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sales: %w", err)
		}
		returns, err := s.store.PurchaseReturns().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list purchase returns: %w", err)
		}

		flows := domain.StockDelta{}
		for _, p := range purchases {
			flows.Apply(p.Items)
		}
		for _, sale := range sales {
			flows.Reverse(sale.Items)
		}
		for _, r := range returns {
			if r.StockApplied {
				flows.Reverse(r.Items)
			}
		}

		drifts = make([]StockDriftDTO, 0)
		for _, item := range items {
			expected := domain.SumAmounts(item.OpeningStock, flows[item.ID], item.AdjustmentTotal)
			drift := domain.SubtractQuantities(item.Stock, expected)
			if math.Abs(drift) <= driftTolerance {
				continue
			}
			drifts = append(drifts, StockDriftDTO{
				ItemID:   item.ID,
				ItemName: item.Name,
				Stock:    item.Stock,
				Expected: expected,
				Drift:    drift,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to verify stock", "error", err)
		return nil, fmt.Errorf("failed to verify stock: %w", err)
	}

	s.metrics.SetStockDrift(len(drifts))
	if len(drifts) > 0 {
		s.logger.Warn("Stock drift detected", "items", len(drifts))
	}
	return drifts, nil
}

func buildPurchase(id string, kind domain.PurchaseKind, cmd PurchaseCommand) *domain.Purchase {
	now := time.Now().UTC()
	p := &domain.Purchase{
		ID:            id,
		SupplierID:    cmd.SupplierID,
		Kind:          kind,
		Date:          documentDate(cmd.Date, now),
		Items:         toTransactionItems(cmd.Items),
		Expenses:      toExpenses(cmd.Expenses),
		PaymentTypeID: cmd.PaymentTypeID,
		CurrencyID:    cmd.CurrencyID,
		PaidAmount:    cmd.PaidAmount,
		Note:          cmd.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.Normalize()
	return p
}

func buildSale(id string, cmd SaleCommand) *domain.Sale {
	now := time.Now().UTC()
	sale := &domain.Sale{
		ID:            id,
		ClientID:      cmd.ClientID,
		Date:          documentDate(cmd.Date, now),
		Items:         toTransactionItems(cmd.Items),
		PaymentTypeID: cmd.PaymentTypeID,
		CurrencyID:    cmd.CurrencyID,
		PaidAmount:    cmd.PaidAmount,
		Note:          cmd.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	sale.Normalize()
	return sale
}

func documentDate(date, now time.Time) time.Time {
	if date.IsZero() {
		return now
	}
	return date.UTC()
}
