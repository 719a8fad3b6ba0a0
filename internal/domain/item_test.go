package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	tests := []struct {
		name    string
		details ItemDetails
		err     error
	}{
		{name: "valid", details: ItemDetails{Name: "Hammer", UnitPrice: 9.5}},
		{name: "missing name", details: ItemDetails{Name: " "}, err: ErrItemNameRequired},
		{name: "negative price", details: ItemDetails{Name: "Hammer", UnitPrice: -1}, err: ErrNegativeUnitPrice},
		{name: "negative factor", details: ItemDetails{Name: "Hammer", Units: UnitConversion{PurchaseToStorage: -2}}, err: ErrInvalidConversionFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewItem("item-1", tt.details, 12)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 12.0, item.Stock)
			assert.Equal(t, 12.0, item.OpeningStock)
		})
	}
}

func TestItem_StockChanges(t *testing.T) {
	item, err := NewItem("item-1", ItemDetails{Name: "Rope"}, 1.1)
	require.NoError(t, err)

	previous := item.ApplyStockDelta(2.2)
	assert.Equal(t, 1.1, previous)
	assert.Equal(t, 3.3, item.Stock)

	delta := item.OverwriteStock(3)
	assert.InDelta(t, -0.3, delta, 1e-12)
	assert.Equal(t, 3.0, item.Stock)
	assert.Equal(t, delta, item.AdjustmentTotal)
}

func TestItem_UpdateDetailsKeepsStock(t *testing.T) {
	item, err := NewItem("item-1", ItemDetails{Name: "Rope"}, 5)
	require.NoError(t, err)

	require.NoError(t, item.UpdateDetails(ItemDetails{Name: "Nylon rope", UnitPrice: 3}))
	assert.Equal(t, "Nylon rope", item.Name)
	assert.Equal(t, 5.0, item.Stock)
}

func TestUnitConversion_SellingUnitsPerPurchaseUnit(t *testing.T) {
	assert.Equal(t, 240.0, UnitConversion{PurchaseToStorage: 12, StorageToSelling: 20}.SellingUnitsPerPurchaseUnit())
	assert.Equal(t, 0.0, UnitConversion{PurchaseToStorage: 12}.SellingUnitsPerPurchaseUnit())
}

func TestPurchase_NormalizeDropsLocalExpenses(t *testing.T) {
	p := &Purchase{
		Kind:     PurchaseKindLocal,
		Items:    []TransactionItem{{ItemID: "a", Quantity: 2, UnitPrice: 5}},
		Expenses: []Expense{{Description: "freight", Amount: 7}},
	}
	p.Normalize()

	assert.Nil(t, p.Expenses)
	assert.Equal(t, 10.0, p.GrandTotal)

	imp := &Purchase{
		Kind:     PurchaseKindImport,
		Items:    []TransactionItem{{ItemID: "a", Quantity: 2, UnitPrice: 5}},
		Expenses: []Expense{{Description: "freight", Amount: 7}},
	}
	imp.Normalize()

	assert.Equal(t, 7.0, imp.ExpensesTotal)
	assert.Equal(t, 17.0, imp.GrandTotal)
}

func TestParsePurchaseKind(t *testing.T) {
	k, err := ParsePurchaseKind("")
	require.NoError(t, err)
	assert.Equal(t, PurchaseKindLocal, k)

	k, err = ParsePurchaseKind("IMPORT")
	require.NoError(t, err)
	assert.Equal(t, PurchaseKindImport, k)

	_, err = ParsePurchaseKind("consignment")
	assert.ErrorIs(t, err, ErrInvalidPurchaseKind)

	assert.Equal(t, PurchaseKindLocal, PurchaseKindOrLocal("consignment"))
	assert.Equal(t, PurchaseKindImport, PurchaseKindOrLocal(" Import "))
}
