package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"

	"github.com/ledgerline/inventory-core/internal/domain"
)

func newCatalogHarness(t *testing.T) (*ledgerHarness, *CatalogService) {
	t.Helper()
	h := newLedgerHarness(t)
	return h, NewCatalogService(h.store, logging.NewNop())
}

func requireAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := pkgerrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCatalogService_ItemLifecycle(t *testing.T) {
	ctx := context.Background()
	h, svc := newCatalogHarness(t)

	created, err := svc.CreateItem(ctx, CreateItemCommand{
		Name:         "  Hammer ",
		Barcode:      "HM-1",
		UnitPrice:    12.5,
		OpeningStock: 8,
		Units:        UnitsInput{PurchaseUnit: "box", StorageUnit: "pack", SellingUnit: "piece", PurchaseToStorage: 10, StorageToSelling: 24},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Hammer", created.Name)
	assert.Equal(t, 8.0, created.Stock)
	assert.Equal(t, 8.0, created.OpeningStock)
	assert.Equal(t, "8.000", created.StockDisplay)
	assert.Equal(t, "box", created.Units.PurchaseUnit)

	_, err = h.ledger.RecordSale(ctx, saleOf(LineInput{ItemID: created.ID, Quantity: 3, UnitPrice: 12.5}))
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, created.ID, UpdateItemCommand{Name: "Claw hammer", Barcode: "HM-1", UnitPrice: 14})
	require.NoError(t, err)
	assert.Equal(t, "Claw hammer", updated.Name)
	assert.Equal(t, 5.0, updated.Stock)

	found, err := svc.FindItemByBarcode(ctx, " HM-1 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	require.NoError(t, svc.DeleteItem(ctx, created.ID))
	_, err = svc.GetItem(ctx, created.ID)
	requireAppErrorCode(t, err, pkgerrors.CodeNotFound)

	// documents referring to a deleted item are kept
	sales, err := h.queries.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestCatalogService_ItemValidation(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogHarness(t)

	_, err := svc.CreateItem(ctx, CreateItemCommand{Name: " "})
	assert.ErrorIs(t, err, domain.ErrItemNameRequired)
	assert.Equal(t, pkgerrors.CodeValidationError, pkgerrors.MapDomainError(err).Code)

	_, err = svc.UpdateItem(ctx, "missing", UpdateItemCommand{Name: "x"})
	requireAppErrorCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.FindItemByBarcode(ctx, "")
	requireAppErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestCatalogService_ImportItems(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogHarness(t)

	_, err := svc.CreateItem(ctx, CreateItemCommand{Name: "Existing", Barcode: "B-1"})
	require.NoError(t, err)

	result, err := svc.ImportItems(ctx, []CreateItemCommand{
		{Name: "Duplicate", Barcode: "B-1"},
		{Name: "Fresh", Barcode: "B-2", OpeningStock: 4},
		{Name: "Fresh again", Barcode: "B-2"},
		{Name: "", Barcode: "B-3"},
		{Name: "No barcode"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 4")

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestCatalogService_PartiesUseSequentialIDs(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogHarness(t)

	first, err := svc.CreateSupplier(ctx, PartyCommand{Name: "Acme"})
	require.NoError(t, err)
	second, err := svc.CreateSupplier(ctx, PartyCommand{Name: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, "Sup-0001", first.ID)
	assert.Equal(t, "Sup-0002", second.ID)

	require.NoError(t, svc.DeleteSupplier(ctx, second.ID))
	third, err := svc.CreateSupplier(ctx, PartyCommand{Name: "Initech"})
	require.NoError(t, err)
	assert.Equal(t, "Sup-0003", third.ID)

	client, err := svc.CreateClient(ctx, PartyCommand{Name: "Walk-in", Phone: " 555 "})
	require.NoError(t, err)
	assert.Equal(t, "Cli-0001", client.ID)
	assert.Equal(t, "555", client.Phone)

	renamed, err := svc.UpdateSupplier(ctx, first.ID, PartyCommand{Name: "Acme Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", renamed.Name)
	assert.Equal(t, first.CreatedAt, renamed.CreatedAt)

	_, err = svc.UpdateClient(ctx, "Cli-0404", PartyCommand{Name: "x"})
	requireAppErrorCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.GetSupplier(ctx, second.ID)
	requireAppErrorCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.CreateClient(ctx, PartyCommand{Name: ""})
	assert.ErrorIs(t, err, domain.ErrPartyNameRequired)

	suppliers, err := svc.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Sup-0001", suppliers[0].ID)
}

func TestCatalogService_PartyBalances(t *testing.T) {
	ctx := context.Background()
	h, svc := newCatalogHarness(t)
	h.seedItem(t, "bolt", 0, 1)

	supplier, err := svc.CreateSupplier(ctx, PartyCommand{Name: "Acme"})
	require.NoError(t, err)
	client, err := svc.CreateClient(ctx, PartyCommand{Name: "Walk-in"})
	require.NoError(t, err)

	purchase, err := h.ledger.RecordPurchase(ctx, PurchaseCommand{
		SupplierID: supplier.ID,
		Items:      []LineInput{{ItemID: "bolt", Quantity: 10, UnitPrice: 5}},
		PaidAmount: 10,
	})
	require.NoError(t, err)
	_, err = h.ledger.RecordPurchaseReturn(ctx, PurchaseReturnCommand{
		PurchaseID: purchase.ID,
		Items:      []LineInput{{ItemID: "bolt", Quantity: 1}},
	})
	require.NoError(t, err)
	voucher, err := svc.CreateVoucher(ctx, VoucherCommand{PartyType: "supplier", PartyID: supplier.ID, Amount: 15})
	require.NoError(t, err)
	assert.Equal(t, "VOU-0001", voucher.ID)

	balance, err := svc.PartyBalance(ctx, "supplier", supplier.ID)
	require.NoError(t, err)
	// 50 - 10 paid - 5 credit - 15 voucher
	assert.Equal(t, 20.0, balance.Balance)

	_, err = h.ledger.RecordSale(ctx, SaleCommand{
		ClientID:   client.ID,
		Items:      []LineInput{{ItemID: "bolt", Quantity: 2, UnitPrice: 20}},
		PaidAmount: 5,
	})
	require.NoError(t, err)
	_, err = svc.CreateVoucher(ctx, VoucherCommand{PartyType: "client", PartyID: client.ID, Amount: 5})
	require.NoError(t, err)

	balance, err = svc.PartyBalance(ctx, "client", client.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance.Balance)

	_, err = svc.PartyBalance(ctx, "client", "Cli-0404")
	requireAppErrorCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.PartyBalance(ctx, "employee", client.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidPartyType)
}

func TestCatalogService_VoucherValidation(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogHarness(t)

	supplier, err := svc.CreateSupplier(ctx, PartyCommand{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.CreateVoucher(ctx, VoucherCommand{PartyType: "supplier", PartyID: supplier.ID, Amount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidVoucherAmount)

	_, err = svc.CreateVoucher(ctx, VoucherCommand{PartyType: "supplier", PartyID: "Sup-0404", Amount: 5})
	requireAppErrorCode(t, err, pkgerrors.CodeNotFound)

	vouchers, err := svc.ListVouchers(ctx)
	require.NoError(t, err)
	assert.Empty(t, vouchers)
}

func TestCatalogService_DefaultCurrencyIsUnique(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogHarness(t)

	usd, err := svc.CreateCurrency(ctx, CurrencyCommand{Code: "usd", Symbol: "$", Digits: 2, Rate: 1, IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, "USD", usd.Code)

	eur, err := svc.CreateCurrency(ctx, CurrencyCommand{Code: "EUR", Digits: 2, Rate: 0.9, IsDefault: true})
	require.NoError(t, err)

	currencies, err := svc.ListCurrencies(ctx)
	require.NoError(t, err)
	defaults := 0
	for _, c := range currencies {
		if c.IsDefault {
			defaults++
			assert.Equal(t, eur.ID, c.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	_, err = svc.UpdateCurrency(ctx, usd.ID, CurrencyCommand{Code: "USD", Digits: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrencyDigits)
	_, err = svc.CreateCurrency(ctx, CurrencyCommand{Code: " "})
	assert.ErrorIs(t, err, domain.ErrCurrencyCodeRequired)
}

func TestCatalogService_PaymentTypes(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogHarness(t)

	cash, err := svc.CreatePaymentType(ctx, PaymentTypeCommand{Name: "Cash"})
	require.NoError(t, err)
	renamed, err := svc.UpdatePaymentType(ctx, cash.ID, PaymentTypeCommand{Name: "Cash on delivery"})
	require.NoError(t, err)
	assert.Equal(t, "Cash on delivery", renamed.Name)

	_, err = svc.CreatePaymentType(ctx, PaymentTypeCommand{Name: ""})
	assert.ErrorIs(t, err, domain.ErrPaymentTypeNameRequired)

	require.NoError(t, svc.DeletePaymentType(ctx, cash.ID))
	types, err := svc.ListPaymentTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestCatalogService_SettingOptions(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogHarness(t)

	kg, err := svc.AddSettingOption(ctx, SettingOptionCommand{Category: "measure_unit", Name: "Kilogram", Symbol: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "measure_unit:kilogram", kg.ID)

	again, err := svc.AddSettingOption(ctx, SettingOptionCommand{Category: "measure_unit", Name: "kilogram", Symbol: "KG"})
	require.NoError(t, err)
	assert.Equal(t, "kg", again.Symbol)

	_, err = svc.AddSettingOption(ctx, SettingOptionCommand{Category: "brand", Name: "Acme"})
	require.NoError(t, err)
	_, err = svc.AddSettingOption(ctx, SettingOptionCommand{Category: "colour", Name: "Red"})
	assert.ErrorIs(t, err, domain.ErrUnknownSettingCategory)

	units, err := svc.ListSettingOptions(ctx, "measure_unit")
	require.NoError(t, err)
	require.Len(t, units, 1)

	// an id from another category is ignored
	require.NoError(t, svc.DeleteSettingOption(ctx, "brand", kg.ID))
	units, err = svc.ListSettingOptions(ctx, "measure_unit")
	require.NoError(t, err)
	assert.Len(t, units, 1)

	require.NoError(t, svc.DeleteSettingOption(ctx, "measure_unit", kg.ID))
	units, err = svc.ListSettingOptions(ctx, "measure_unit")
	require.NoError(t, err)
	assert.Empty(t, units)
}
