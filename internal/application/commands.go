package application

import "time"

// LineInput is one requested document line
type LineInput struct {
	ItemID    string
	Quantity  float64
	UnitPrice float64
}

// ExpenseInput is one shipment expense of an import purchase
type ExpenseInput struct {
	Description string
	Amount      float64
}

// PurchaseCommand carries the fields of a new or replacement purchase
type PurchaseCommand struct {
	SupplierID    string
	Kind          string
	Date          time.Time
	Items         []LineInput
	Expenses      []ExpenseInput
	PaymentTypeID string
	CurrencyID    string
	PaidAmount    float64
	Note          string
}

// SaleCommand carries the fields of a new or replacement sale
type SaleCommand struct {
	ClientID      string
	Date          time.Time
	Items         []LineInput
	PaymentTypeID string
	CurrencyID    string
	PaidAmount    float64
	Note          string
}

// PurchaseReturnCommand requests a return against an existing purchase.
// Quantities are clamped to what is still returnable.
type PurchaseReturnCommand struct {
	PurchaseID string
	Date       time.Time
	Items      []LineInput
	Note       string
}

// StockEntry sets one item's stock to an absolute value
type StockEntry struct {
	ItemID   string
	NewStock float64
}

// BulkUpdateStockCommand overwrites stock for every entry
type BulkUpdateStockCommand struct {
	Entries []StockEntry
	Actor   string
}

// CountRow is one physical count row. ItemID wins over Barcode when both are set.
type CountRow struct {
	ItemID      string
	Barcode     string
	PhysicalQty float64
}

// CreateAuditCommand processes a physical count into a Draft audit
type CreateAuditCommand struct {
	Date      time.Time
	Rows      []CountRow
	CreatedBy string
}

// ApplyAuditCommand commits a Draft audit to stock
type ApplyAuditCommand struct {
	AuditID string
	Actor   string
}

// UnitsInput carries unit-conversion metadata
type UnitsInput struct {
	PurchaseUnit      string
	StorageUnit       string
	SellingUnit       string
	PurchaseToStorage float64
	StorageToSelling  float64
}

// CreateItemCommand creates a catalog item
type CreateItemCommand struct {
	Name         string
	Barcode      string
	Category     string
	Brand        string
	UnitPrice    float64
	OpeningStock float64
	Units        UnitsInput
}

// UpdateItemCommand replaces an item's catalog fields. Stock is not editable here.
type UpdateItemCommand struct {
	Name      string
	Barcode   string
	Category  string
	Brand     string
	UnitPrice float64
	Units     UnitsInput
}

// PartyCommand creates or updates a supplier or client
type PartyCommand struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// VoucherCommand records a settlement against a party
type VoucherCommand struct {
	PartyType     string
	PartyID       string
	Date          time.Time
	Amount        float64
	PaymentTypeID string
	CurrencyID    string
	Note          string
}

// CurrencyCommand creates or updates a currency
type CurrencyCommand struct {
	Code      string
	Name      string
	Symbol    string
	Digits    int32
	Rate      float64
	IsDefault bool
}

// PaymentTypeCommand creates or updates a payment type
type PaymentTypeCommand struct {
	Name string
}

// SettingOptionCommand adds an option to a settings category
type SettingOptionCommand struct {
	Category string
	Name     string
	Symbol   string
	Parent   string
}
