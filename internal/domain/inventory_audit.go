package domain

import (
	"sort"
	"strings"
	"time"
)

// AuditStatus is the lifecycle state of an inventory audit.
type AuditStatus string

const (
	AuditStatusDraft    AuditStatus = "Draft"
	AuditStatusAdjusted AuditStatus = "Adjusted"
)

// PhysicalCount is one row of a physical stock count.
type PhysicalCount struct {
	ItemID      string  `json:"itemId"`
	PhysicalQty float64 `json:"physicalQty"`
}

// InventoryAuditItem compares the system stock snapshot with a physical count.
type InventoryAuditItem struct {
	ItemID      string  `json:"itemId" bson:"itemId"`
	ItemName    string  `json:"itemName" bson:"itemName"`
	SystemQty   float64 `json:"systemQty" bson:"systemQty"`
	PhysicalQty float64 `json:"physicalQty" bson:"physicalQty"`
	Difference  float64 `json:"difference" bson:"difference"`
	UnitPrice   float64 `json:"unitPrice" bson:"unitPrice"`
	ImpactValue float64 `json:"impactValue" bson:"impactValue"`
}

// InventoryAudit is a snapshot diff between system stock and a physical count.
// SystemQty and TotalImpact are fixed at creation.
type InventoryAudit struct {
	ID          string               `json:"id" bson:"_id"`
	Date        time.Time            `json:"date" bson:"date"`
	Status      AuditStatus          `json:"status" bson:"status"`
	Items       []InventoryAuditItem `json:"items" bson:"items"`
	TotalImpact float64              `json:"totalImpact" bson:"totalImpact"`
	CreatedBy   string               `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	AdjustedBy  string               `json:"adjustedBy,omitempty" bson:"adjustedBy,omitempty"`
	AdjustedAt  *time.Time           `json:"adjustedAt,omitempty" bson:"adjustedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
}

// NewInventoryAudit builds a Draft audit from physical counts against the
// current items. Counts for unknown items are dropped; repeated counts of the
// same item are summed. Rows are ordered by item name.
func NewInventoryAudit(id string, date time.Time, counts []PhysicalCount, items map[string]*Item, createdBy string) *InventoryAudit {
	physical := make(map[string]float64)
	order := make([]string, 0, len(counts))
	for _, count := range counts {
		if _, ok := items[count.ItemID]; !ok {
			continue
		}
		if _, seen := physical[count.ItemID]; !seen {
			order = append(order, count.ItemID)
		}
		physical[count.ItemID] = AddQuantities(physical[count.ItemID], count.PhysicalQty)
	}

	rows := make([]InventoryAuditItem, 0, len(order))
	impacts := make([]float64, 0, len(order))
	for _, itemID := range order {
		item := items[itemID]
		diff := SubtractQuantities(physical[itemID], item.Stock)
		impact := MultiplyAmounts(diff, item.UnitPrice)
		rows = append(rows, InventoryAuditItem{
			ItemID:      item.ID,
			ItemName:    item.Name,
			SystemQty:   item.Stock,
			PhysicalQty: physical[itemID],
			Difference:  diff,
			UnitPrice:   item.UnitPrice,
			ImpactValue: impact,
		})
		impacts = append(impacts, impact)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := strings.ToLower(rows[i].ItemName), strings.ToLower(rows[j].ItemName)
		if a != b {
			return a < b
		}
		return rows[i].ItemID < rows[j].ItemID
	})

	return &InventoryAudit{
		ID:          id,
		Date:        date,
		Status:      AuditStatusDraft,
		Items:       rows,
		TotalImpact: SumAmounts(impacts...),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
}

// IsAdjusted reports whether the audit has been committed to stock.
func (a *InventoryAudit) IsAdjusted() bool {
	return a.Status == AuditStatusAdjusted
}

// MarkAdjusted moves the audit to its terminal state.
func (a *InventoryAudit) MarkAdjusted(by string, at time.Time) error {
	if a.IsAdjusted() {
		return ErrAuditAlreadyAdjusted
	}
	a.Status = AuditStatusAdjusted
	a.AdjustedBy = by
	a.AdjustedAt = &at
	return nil
}

// StockOverwrites returns the physical counts as absolute stock values.
func (a *InventoryAudit) StockOverwrites() []StockOverwrite {
	out := make([]StockOverwrite, len(a.Items))
	for i, row := range a.Items {
		out[i] = StockOverwrite{ItemID: row.ItemID, NewStock: row.PhysicalQty}
	}
	return out
}

func (a *InventoryAudit) RecordID() string { return a.ID }

func (a *InventoryAudit) Clone() *InventoryAudit {
	c := *a
	c.Items = append([]InventoryAuditItem(nil), a.Items...)
	if a.AdjustedAt != nil {
		at := *a.AdjustedAt
		c.AdjustedAt = &at
	}
	return &c
}

// StockOverwrite sets an item's stock to an absolute value.
type StockOverwrite struct {
	ItemID   string  `json:"itemId"`
	NewStock float64 `json:"newStock"`
}
