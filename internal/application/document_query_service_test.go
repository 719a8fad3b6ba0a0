package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ledgerline/inventory-core/pkg/errors"
)

func importPurchase() PurchaseCommand {
	return PurchaseCommand{
		SupplierID: "Sup-0001",
		Kind:       "import",
		Items: []LineInput{
			{ItemID: "bolt", Quantity: 10, UnitPrice: 5},
			{ItemID: "nut", Quantity: 5, UnitPrice: 30},
		},
		Expenses: []ExpenseInput{
			{Description: "freight", Amount: 25},
			{Description: "customs", Amount: 15},
		},
	}
}

func TestDocumentQueryService_PurchaseLandingCosts(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 0, 5)
	h.seedItem(t, "nut", 0, 30)

	purchase, err := h.ledger.RecordPurchase(ctx, importPurchase())
	require.NoError(t, err)
	assert.Equal(t, 240.0, purchase.GrandTotal)

	report, err := h.queries.PurchaseLandingCosts(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.ID, report.PurchaseID)
	assert.Equal(t, 40.0, report.ExpensesTotal)
	require.Len(t, report.Rows, 2)

	assert.Equal(t, "bolt item", report.Rows[0].ItemName)
	assert.InDelta(t, 10.0, report.Rows[0].AllocatedExpense, 1e-9)
	require.NotNil(t, report.Rows[0].LandingCostPerUnit)
	assert.InDelta(t, 6.0, *report.Rows[0].LandingCostPerUnit, 1e-9)

	assert.InDelta(t, 30.0, report.Rows[1].AllocatedExpense, 1e-9)
	require.NotNil(t, report.Rows[1].LandingCostPerUnit)
	assert.InDelta(t, 36.0, *report.Rows[1].LandingCostPerUnit, 1e-9)

	assert.Equal(t, 15.0, report.TotalQuantity)
	assert.InDelta(t, 240.0, report.TotalLandingValue, 1e-9)
}

func TestDocumentQueryService_LocalPurchaseDropsExpenses(t *testing.T) {
	ctx := context.Background()
	h := newLedgerHarness(t)
	h.seedItem(t, "bolt", 0, 5)
	h.seedItem(t, "nut", 0, 30)

	cmd := importPurchase()
	cmd.Kind = "local"
	purchase, err := h.ledger.RecordPurchase(ctx, cmd)
	require.NoError(t, err)
	assert.Empty(t, purchase.Expenses)
	assert.Equal(t, 200.0, purchase.GrandTotal)

	report, err := h.queries.PurchaseLandingCosts(ctx, purchase.ID)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 0.0, report.Rows[0].AllocatedExpense)
	assert.Equal(t, 50.0, report.Rows[0].TotalLandingCost)
}

func TestDocumentQueryService_UnknownPurchase(t *testing.T) {
	h := newLedgerHarness(t)

	_, err := h.queries.PurchaseLandingCosts(context.Background(), "PUR-0404")
	appErr, ok := pkgerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code)

	_, err = h.queries.GetSale(context.Background(), "SAL-0404")
	appErr, ok = pkgerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code)
}

func TestPreviewLandingCosts(t *testing.T) {
	report := PreviewLandingCosts(
		[]LineInput{{ItemID: "a", Quantity: 2, UnitPrice: 10}, {ItemID: "b", Quantity: 0, UnitPrice: 10}},
		[]ExpenseInput{{Description: "freight", Amount: 4}},
	)
	require.Len(t, report.Rows, 2)
	assert.Empty(t, report.PurchaseID)
	assert.InDelta(t, 4.0, report.Rows[0].AllocatedExpense, 1e-9)
	require.NotNil(t, report.Rows[0].LandingCostPerUnit)
	assert.InDelta(t, 12.0, *report.Rows[0].LandingCostPerUnit, 1e-9)
	assert.Nil(t, report.Rows[1].LandingCostPerUnit)

	empty := PreviewLandingCosts([]LineInput{{ItemID: "a", Quantity: 0, UnitPrice: 10}}, []ExpenseInput{{Amount: 4}})
	assert.Empty(t, empty.Rows)
}
