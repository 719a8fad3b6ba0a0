package application

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"

	"github.com/ledgerline/inventory-core/internal/domain"
)

func newReconciliationHarness(t *testing.T) (*ledgerHarness, *ReconciliationService) {
	t.Helper()
	h := newLedgerHarness(t)
	ctx := context.Background()

	widget, err := domain.NewItem("item-1", domain.ItemDetails{Name: "Widget", Barcode: "W-1", UnitPrice: 2.5}, 10)
	require.NoError(t, err)
	bolt, err := domain.NewItem("item-2", domain.ItemDetails{Name: "anchor bolt", Barcode: "AB-2", UnitPrice: 1}, 4)
	require.NoError(t, err)
	require.NoError(t, h.store.Items().Upsert(ctx, widget))
	require.NoError(t, h.store.Items().Upsert(ctx, bolt))

	return h, NewReconciliationService(h.store, h.ledger, h.metrics, logging.NewNop())
}

func physicalCount() CreateAuditCommand {
	return CreateAuditCommand{
		Rows: []CountRow{
			{ItemID: "item-1", PhysicalQty: 7},
			{Barcode: "AB-2", PhysicalQty: 6},
			{ItemID: "ghost", PhysicalQty: 1},
			{Barcode: "no-such-code", PhysicalQty: 3},
		},
		CreatedBy: "clerk",
	}
}

func TestReconciliationService_CreateAuditSnapshotsStock(t *testing.T) {
	ctx := context.Background()
	h, svc := newReconciliationHarness(t)

	audit, err := svc.CreateAuditFromPhysicalCount(ctx, physicalCount())
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", audit.ID)
	assert.Equal(t, string(domain.AuditStatusDraft), audit.Status)
	assert.Equal(t, "clerk", audit.CreatedBy)
	require.Len(t, audit.Items, 2)

	assert.Equal(t, "anchor bolt", audit.Items[0].ItemName)
	assert.Equal(t, 4.0, audit.Items[0].SystemQty)
	assert.Equal(t, 2.0, audit.Items[0].Difference)

	assert.Equal(t, "Widget", audit.Items[1].ItemName)
	assert.Equal(t, -3.0, audit.Items[1].Difference)
	assert.Equal(t, -7.5, audit.Items[1].ImpactValue)
	assert.Equal(t, -5.5, audit.TotalImpact)

	// creating an audit does not touch stock
	assert.Equal(t, 10.0, h.stock(t, "item-1"))
	assert.Equal(t, 4.0, h.stock(t, "item-2"))
}

func TestReconciliationService_ApplyOverwritesStock(t *testing.T) {
	ctx := context.Background()
	h, svc := newReconciliationHarness(t)

	audit, err := svc.CreateAuditFromPhysicalCount(ctx, physicalCount())
	require.NoError(t, err)

	applied, err := svc.AuthorizeAndApplyAudit(ctx, ApplyAuditCommand{AuditID: audit.ID, Actor: "boss"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.AuditStatusAdjusted), applied.Status)
	assert.Equal(t, "boss", applied.AdjustedBy)
	assert.NotNil(t, applied.AdjustedAt)
	assert.Equal(t, -5.5, applied.TotalImpact)

	assert.Equal(t, 7.0, h.stock(t, "item-1"))
	assert.Equal(t, 6.0, h.stock(t, "item-2"))
	assert.Len(t, stockEvents(h.store, domain.ReasonAuditAdjustment), 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.AuditsAdjusted))
	h.assertNoDrift(t)
}

func TestReconciliationService_ApplyUsesPhysicalCountNotSnapshot(t *testing.T) {
	ctx := context.Background()
	h, svc := newReconciliationHarness(t)

	audit, err := svc.CreateAuditFromPhysicalCount(ctx, physicalCount())
	require.NoError(t, err)

	_, err = h.ledger.RecordPurchase(ctx, purchaseOf(LineInput{ItemID: "item-1", Quantity: 5, UnitPrice: 1}))
	require.NoError(t, err)
	require.Equal(t, 15.0, h.stock(t, "item-1"))

	stored, err := svc.GetAudit(ctx, audit.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.Items[1].SystemQty)

	_, err = svc.AuthorizeAndApplyAudit(ctx, ApplyAuditCommand{AuditID: audit.ID, Actor: "boss"})
	require.NoError(t, err)
	assert.Equal(t, 7.0, h.stock(t, "item-1"))
	h.assertNoDrift(t)
}

func TestReconciliationService_ApplyTwiceChangesNothing(t *testing.T) {
	ctx := context.Background()
	h, svc := newReconciliationHarness(t)

	audit, err := svc.CreateAuditFromPhysicalCount(ctx, physicalCount())
	require.NoError(t, err)
	_, err = svc.AuthorizeAndApplyAudit(ctx, ApplyAuditCommand{AuditID: audit.ID, Actor: "boss"})
	require.NoError(t, err)

	_, err = h.ledger.RecordSale(ctx, saleOf(LineInput{ItemID: "item-1", Quantity: 1, UnitPrice: 1}))
	require.NoError(t, err)
	require.Equal(t, 6.0, h.stock(t, "item-1"))

	again, err := svc.AuthorizeAndApplyAudit(ctx, ApplyAuditCommand{AuditID: audit.ID, Actor: "someone else"})
	require.NoError(t, err)
	assert.Equal(t, "boss", again.AdjustedBy)
	assert.Equal(t, 6.0, h.stock(t, "item-1"))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.AuditsAdjusted))
}

func TestReconciliationService_ApplyUnknownAudit(t *testing.T) {
	h, svc := newReconciliationHarness(t)

	applied, err := svc.AuthorizeAndApplyAudit(context.Background(), ApplyAuditCommand{AuditID: "INV-0404"})
	require.NoError(t, err)
	assert.Nil(t, applied)
	assert.Equal(t, 10.0, h.stock(t, "item-1"))
}

func TestReconciliationService_DeleteOnlyDrafts(t *testing.T) {
	ctx := context.Background()
	_, svc := newReconciliationHarness(t)

	draft, err := svc.CreateAuditFromPhysicalCount(ctx, physicalCount())
	require.NoError(t, err)
	adjusted, err := svc.CreateAuditFromPhysicalCount(ctx, physicalCount())
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", adjusted.ID)
	_, err = svc.AuthorizeAndApplyAudit(ctx, ApplyAuditCommand{AuditID: adjusted.ID, Actor: "boss"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAudit(ctx, draft.ID))
	_, err = svc.GetAudit(ctx, draft.ID)
	appErr, ok := pkgerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code)

	err = svc.DeleteAudit(ctx, adjusted.ID)
	assert.ErrorIs(t, err, domain.ErrAuditAlreadyAdjusted)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.MapDomainError(err).Code)

	require.NoError(t, svc.DeleteAudit(ctx, "INV-0404"))

	audits, err := svc.ListAudits(ctx)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, adjusted.ID, audits[0].ID)
}
