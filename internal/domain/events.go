package domain

import (
	"time"

	"github.com/ledgerline/inventory-core/pkg/cloudevents"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// Aggregate types used when recording events.
const (
	AggregateItem           = "Item"
	AggregatePurchase       = "Purchase"
	AggregateSale           = "Sale"
	AggregatePurchaseReturn = "PurchaseReturn"
	AggregateInventoryAudit = "InventoryAudit"
)

// Stock movement reasons.
const (
	ReasonPurchaseRecorded = "purchase_recorded"
	ReasonPurchaseUpdated  = "purchase_updated"
	ReasonPurchaseDeleted  = "purchase_deleted"
	ReasonSaleRecorded     = "sale_recorded"
	ReasonSaleUpdated      = "sale_updated"
	ReasonSaleDeleted      = "sale_deleted"
	ReasonReturnApplied    = "purchase_return_applied"
	ReasonReturnDeleted    = "purchase_return_deleted"
	ReasonBulkOverwrite    = "bulk_overwrite"
	ReasonAuditAdjustment  = "audit_adjustment"
)

// StockAdjustedEvent is published whenever the ledger changes an item's stock
type StockAdjustedEvent struct {
	ItemID        string    `json:"itemId"`
	ItemName      string    `json:"itemName"`
	PreviousStock float64   `json:"previousStock"`
	NewStock      float64   `json:"newStock"`
	Delta         float64   `json:"delta"`
	Reason        string    `json:"reason"`
	ReferenceID   string    `json:"referenceId,omitempty"`
	AdjustedAt    time.Time `json:"adjustedAt"`
}

func (e *StockAdjustedEvent) EventType() string     { return cloudevents.StockAdjusted }
func (e *StockAdjustedEvent) OccurredAt() time.Time { return e.AdjustedAt }

// PurchaseRecordedEvent is published when a purchase is created
type PurchaseRecordedEvent struct {
	PurchaseID string    `json:"purchaseId"`
	SupplierID string    `json:"supplierId"`
	Kind       string    `json:"kind"`
	LineCount  int       `json:"lineCount"`
	GrandTotal float64   `json:"grandTotal"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (e *PurchaseRecordedEvent) EventType() string     { return cloudevents.PurchaseRecorded }
func (e *PurchaseRecordedEvent) OccurredAt() time.Time { return e.RecordedAt }

// PurchaseUpdatedEvent is published when a purchase is replaced
type PurchaseUpdatedEvent struct {
	PurchaseID string    `json:"purchaseId"`
	LineCount  int       `json:"lineCount"`
	GrandTotal float64   `json:"grandTotal"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (e *PurchaseUpdatedEvent) EventType() string     { return cloudevents.PurchaseUpdated }
func (e *PurchaseUpdatedEvent) OccurredAt() time.Time { return e.UpdatedAt }

// PurchaseDeletedEvent is published when a purchase is removed
type PurchaseDeletedEvent struct {
	PurchaseID string    `json:"purchaseId"`
	DeletedAt  time.Time `json:"deletedAt"`
}

func (e *PurchaseDeletedEvent) EventType() string     { return cloudevents.PurchaseDeleted }
func (e *PurchaseDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// SaleRecordedEvent is published when a sale is created
type SaleRecordedEvent struct {
	SaleID     string    `json:"saleId"`
	ClientID   string    `json:"clientId"`
	LineCount  int       `json:"lineCount"`
	GrandTotal float64   `json:"grandTotal"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (e *SaleRecordedEvent) EventType() string     { return cloudevents.SaleRecorded }
func (e *SaleRecordedEvent) OccurredAt() time.Time { return e.RecordedAt }

// SaleUpdatedEvent is published when a sale is replaced
type SaleUpdatedEvent struct {
	SaleID     string    `json:"saleId"`
	LineCount  int       `json:"lineCount"`
	GrandTotal float64   `json:"grandTotal"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (e *SaleUpdatedEvent) EventType() string     { return cloudevents.SaleUpdated }
func (e *SaleUpdatedEvent) OccurredAt() time.Time { return e.UpdatedAt }

// SaleDeletedEvent is published when a sale is removed
type SaleDeletedEvent struct {
	SaleID    string    `json:"saleId"`
	DeletedAt time.Time `json:"deletedAt"`
}

func (e *SaleDeletedEvent) EventType() string     { return cloudevents.SaleDeleted }
func (e *SaleDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// PurchaseReturnRecordedEvent is published when a return is recorded
type PurchaseReturnRecordedEvent struct {
	ReturnID    string    `json:"returnId"`
	PurchaseID  string    `json:"purchaseId"`
	TotalCredit float64   `json:"totalCredit"`
	RecordedAt  time.Time `json:"recordedAt"`
}

func (e *PurchaseReturnRecordedEvent) EventType() string {
	return cloudevents.PurchaseReturnRecorded
}
func (e *PurchaseReturnRecordedEvent) OccurredAt() time.Time { return e.RecordedAt }

// PurchaseReturnStockAppliedEvent is published when a return is booked against stock
type PurchaseReturnStockAppliedEvent struct {
	ReturnID   string    `json:"returnId"`
	PurchaseID string    `json:"purchaseId"`
	AppliedAt  time.Time `json:"appliedAt"`
}

func (e *PurchaseReturnStockAppliedEvent) EventType() string {
	return cloudevents.PurchaseReturnStockApplied
}
func (e *PurchaseReturnStockAppliedEvent) OccurredAt() time.Time { return e.AppliedAt }

// PurchaseReturnDeletedEvent is published when a return is removed
type PurchaseReturnDeletedEvent struct {
	ReturnID     string    `json:"returnId"`
	StockApplied bool      `json:"stockApplied"`
	DeletedAt    time.Time `json:"deletedAt"`
}

func (e *PurchaseReturnDeletedEvent) EventType() string {
	return cloudevents.PurchaseReturnDeleted
}
func (e *PurchaseReturnDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// InventoryAuditCreatedEvent is published when a physical count is processed
type InventoryAuditCreatedEvent struct {
	AuditID     string    `json:"auditId"`
	RowCount    int       `json:"rowCount"`
	TotalImpact float64   `json:"totalImpact"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e *InventoryAuditCreatedEvent) EventType() string     { return cloudevents.AuditCreated }
func (e *InventoryAuditCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// InventoryAuditAdjustedEvent is published when an audit is committed to stock
type InventoryAuditAdjustedEvent struct {
	AuditID    string    `json:"auditId"`
	AdjustedBy string    `json:"adjustedBy"`
	RowCount   int       `json:"rowCount"`
	AdjustedAt time.Time `json:"adjustedAt"`
}

func (e *InventoryAuditAdjustedEvent) EventType() string     { return cloudevents.AuditAdjusted }
func (e *InventoryAuditAdjustedEvent) OccurredAt() time.Time { return e.AdjustedAt }
