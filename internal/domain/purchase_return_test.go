package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func returnTestPurchase() *Purchase {
	p := &Purchase{
		ID:         "PUR-0001",
		SupplierID: "Sup-0001",
		Items: []TransactionItem{
			{ItemID: "a", ItemName: "Alpha", Quantity: 10, UnitPrice: 4},
			{ItemID: "b", Quantity: 5, UnitPrice: 2},
			{ItemID: "a", Quantity: 10, UnitPrice: 6},
		},
	}
	p.Normalize()
	return p
}

func TestClampReturnLines(t *testing.T) {
	tests := []struct {
		name      string
		previous  []*PurchaseReturn
		requested []TransactionItem
		expected  map[string]float64
	}{
		{
			name:      "within purchased quantity",
			requested: []TransactionItem{{ItemID: "a", Quantity: 3}},
			expected:  map[string]float64{"a": 3},
		},
		{
			name:      "clamped to purchased quantity",
			requested: []TransactionItem{{ItemID: "b", Quantity: 50}},
			expected:  map[string]float64{"b": 5},
		},
		{
			name:      "negative and unknown lines dropped",
			requested: []TransactionItem{{ItemID: "b", Quantity: -1}, {ItemID: "zzz", Quantity: 1}},
			expected:  map[string]float64{},
		},
		{
			name: "earlier returns reduce the cap",
			previous: []*PurchaseReturn{
				{PurchaseID: "PUR-0001", Items: []TransactionItem{{ItemID: "a", Quantity: 18}}},
				{PurchaseID: "PUR-0002", Items: []TransactionItem{{ItemID: "a", Quantity: 18}}},
			},
			requested: []TransactionItem{{ItemID: "a", Quantity: 5}},
			expected:  map[string]float64{"a": 2},
		},
		{
			name:      "repeated lines share the cap",
			requested: []TransactionItem{{ItemID: "b", Quantity: 3}, {ItemID: "b", Quantity: 3}},
			expected:  map[string]float64{"b": 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := ClampReturnLines(returnTestPurchase(), tt.previous, tt.requested)

			got := map[string]float64{}
			for _, line := range lines {
				assert.Greater(t, line.Quantity, 0.0)
				got[line.ItemID] = AddQuantities(got[line.ItemID], line.Quantity)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClampReturnLines_PricesAtAveragePurchasePrice(t *testing.T) {
	lines := ClampReturnLines(returnTestPurchase(), nil, []TransactionItem{
		{ItemID: "a", Quantity: 2, UnitPrice: 1000},
	})

	require.Len(t, lines, 1)
	assert.Equal(t, 5.0, lines[0].UnitPrice)
	assert.Equal(t, 10.0, lines[0].Total)
	assert.Equal(t, "Alpha", lines[0].ItemName)
}

func TestPurchaseReturn_MarkStockApplied(t *testing.T) {
	ret := &PurchaseReturn{ID: "RET-0001"}
	at := time.Now().UTC()

	assert.True(t, ret.MarkStockApplied(at))
	assert.False(t, ret.MarkStockApplied(at.Add(time.Minute)))
	require.NotNil(t, ret.StockAppliedAt)
	assert.Equal(t, at, *ret.StockAppliedAt)
}

func TestSupplierBalance(t *testing.T) {
	purchases := []*Purchase{
		{ID: "PUR-0001", SupplierID: "Sup-0001", GrandTotal: 100, PaidAmount: 20},
		{ID: "PUR-0002", SupplierID: "Sup-0002", GrandTotal: 500},
	}
	returns := []*PurchaseReturn{{ID: "RET-0001", SupplierID: "Sup-0001", TotalCredit: 15}}
	vouchers := []*Voucher{
		{PartyType: PartyTypeSupplier, PartyID: "Sup-0001", Amount: 30},
		{PartyType: PartyTypeClient, PartyID: "Sup-0001", Amount: 1000},
	}

	assert.Equal(t, 35.0, SupplierBalance("Sup-0001", purchases, returns, vouchers))
}

func TestClientBalance(t *testing.T) {
	sales := []*Sale{{ClientID: "Cli-0001", GrandTotal: 80.4, PaidAmount: 0.4}}
	vouchers := []*Voucher{{PartyType: PartyTypeClient, PartyID: "Cli-0001", Amount: 50}}

	assert.Equal(t, 30.0, ClientBalance("Cli-0001", sales, vouchers))
}
