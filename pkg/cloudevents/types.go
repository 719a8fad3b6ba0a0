package cloudevents

import (
	"time"
)

// EventType constants for inventory-core domain events
const (
	// Inventory events
	StockAdjusted = "erp.inventory.stock-adjusted"
	AuditCreated  = "erp.inventory.audit-created"
	AuditAdjusted = "erp.inventory.audit-adjusted"

	// Purchasing events
	PurchaseRecorded           = "erp.purchasing.purchase-recorded"
	PurchaseUpdated            = "erp.purchasing.purchase-updated"
	PurchaseDeleted            = "erp.purchasing.purchase-deleted"
	PurchaseReturnRecorded     = "erp.purchasing.purchase-return-recorded"
	PurchaseReturnStockApplied = "erp.purchasing.purchase-return-stock-applied"
	PurchaseReturnDeleted      = "erp.purchasing.purchase-return-deleted"

	// Sales events
	SaleRecorded = "erp.sales.sale-recorded"
	SaleUpdated  = "erp.sales.sale-updated"
	SaleDeleted  = "erp.sales.sale-deleted"
)

// SourceLedger is the source of every event the store writes to the outbox
const SourceLedger = "/erp/inventory-core/ledger"

// Event represents a CloudEvents v1.0 compliant event
type Event struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype"`
	Data            interface{}            `json:"data"`
	Extensions      map[string]interface{} `json:"-"`

	CorrelationID string `json:"erpcorrelationid,omitempty"`
	Actor         string `json:"erpactor,omitempty"`
	AggregateType string `json:"erpaggregatetype,omitempty"`
}
