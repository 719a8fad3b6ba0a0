package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditTestItems() map[string]*Item {
	return map[string]*Item{
		"item-1": {ID: "item-1", Name: "Widget", Stock: 10, UnitPrice: 2.5},
		"item-2": {ID: "item-2", Name: "anchor bolt", Stock: 4, UnitPrice: 1},
		"item-3": {ID: "item-3", Name: "Cable", Stock: 0, UnitPrice: 12},
	}
}

func TestNewInventoryAudit_SnapshotsDifferences(t *testing.T) {
	items := auditTestItems()
	counts := []PhysicalCount{
		{ItemID: "item-1", PhysicalQty: 7},
		{ItemID: "item-2", PhysicalQty: 6},
	}

	audit := NewInventoryAudit("INV-0001", time.Now(), counts, items, "u-1")

	assert.Equal(t, AuditStatusDraft, audit.Status)
	require.Len(t, audit.Items, 2)

	bolt := audit.Items[0]
	assert.Equal(t, "item-2", bolt.ItemID)
	assert.Equal(t, 4.0, bolt.SystemQty)
	assert.Equal(t, 2.0, bolt.Difference)
	assert.Equal(t, 2.0, bolt.ImpactValue)

	widget := audit.Items[1]
	assert.Equal(t, -3.0, widget.Difference)
	assert.Equal(t, -7.5, widget.ImpactValue)

	assert.Equal(t, -5.5, audit.TotalImpact)
}

func TestNewInventoryAudit_OrdersRowsByName(t *testing.T) {
	counts := []PhysicalCount{
		{ItemID: "item-1", PhysicalQty: 1},
		{ItemID: "item-3", PhysicalQty: 1},
		{ItemID: "item-2", PhysicalQty: 1},
	}

	audit := NewInventoryAudit("INV-0001", time.Now(), counts, auditTestItems(), "")

	names := make([]string, len(audit.Items))
	for i, row := range audit.Items {
		names[i] = row.ItemName
	}
	assert.Equal(t, []string{"anchor bolt", "Cable", "Widget"}, names)
}

func TestNewInventoryAudit_DropsUnknownAndSumsDuplicates(t *testing.T) {
	counts := []PhysicalCount{
		{ItemID: "missing", PhysicalQty: 3},
		{ItemID: "item-3", PhysicalQty: 1.25},
		{ItemID: "item-3", PhysicalQty: 0.75},
	}

	audit := NewInventoryAudit("INV-0002", time.Now(), counts, auditTestItems(), "")

	require.Len(t, audit.Items, 1)
	assert.Equal(t, 2.0, audit.Items[0].PhysicalQty)
	assert.Equal(t, 24.0, audit.TotalImpact)
}

func TestNewInventoryAudit_SnapshotSurvivesStockChanges(t *testing.T) {
	items := auditTestItems()
	audit := NewInventoryAudit("INV-0003", time.Now(), []PhysicalCount{{ItemID: "item-1", PhysicalQty: 8}}, items, "")

	items["item-1"].ApplyStockDelta(100)

	assert.Equal(t, 10.0, audit.Items[0].SystemQty)
	assert.Equal(t, -5.0, audit.TotalImpact)
}

func TestInventoryAudit_MarkAdjusted(t *testing.T) {
	audit := NewInventoryAudit("INV-0004", time.Now(), []PhysicalCount{{ItemID: "item-1", PhysicalQty: 1}}, auditTestItems(), "")
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, audit.MarkAdjusted("admin", at))
	assert.True(t, audit.IsAdjusted())
	assert.Equal(t, "admin", audit.AdjustedBy)
	require.NotNil(t, audit.AdjustedAt)
	assert.Equal(t, at, *audit.AdjustedAt)

	err := audit.MarkAdjusted("someone-else", at.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAuditAlreadyAdjusted)
	assert.Equal(t, "admin", audit.AdjustedBy)
}

func TestInventoryAudit_StockOverwrites(t *testing.T) {
	audit := NewInventoryAudit("INV-0005", time.Now(), []PhysicalCount{
		{ItemID: "item-1", PhysicalQty: 9},
		{ItemID: "item-2", PhysicalQty: 0},
	}, auditTestItems(), "")

	overwrites := audit.StockOverwrites()
	assert.ElementsMatch(t, []StockOverwrite{
		{ItemID: "item-1", NewStock: 9},
		{ItemID: "item-2", NewStock: 0},
	}, overwrites)
}

func TestInventoryAudit_CloneIsDeep(t *testing.T) {
	audit := NewInventoryAudit("INV-0006", time.Now(), []PhysicalCount{{ItemID: "item-1", PhysicalQty: 1}}, auditTestItems(), "")

	clone := audit.Clone()
	clone.Items[0].PhysicalQty = 99

	assert.Equal(t, 1.0, audit.Items[0].PhysicalQty)
}
