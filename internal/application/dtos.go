package application

import "time"

// UnitsDTO represents unit-conversion metadata
type UnitsDTO struct {
	PurchaseUnit      string  `json:"purchaseUnit,omitempty"`
	StorageUnit       string  `json:"storageUnit,omitempty"`
	SellingUnit       string  `json:"sellingUnit,omitempty"`
	PurchaseToStorage float64 `json:"purchaseToStorage,omitempty"`
	StorageToSelling  float64 `json:"storageToSelling,omitempty"`
}

// ItemDTO represents a catalog item in responses
type ItemDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Barcode         string    `json:"barcode,omitempty"`
	Category        string    `json:"category,omitempty"`
	Brand           string    `json:"brand,omitempty"`
	UnitPrice       float64   `json:"unitPrice"`
	Stock           float64   `json:"stock"`
	StockDisplay    string    `json:"stockDisplay"`
	OpeningStock    float64   `json:"openingStock"`
	AdjustmentTotal float64   `json:"adjustmentTotal"`
	Units           UnitsDTO  `json:"units"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// LineDTO represents a document line
type LineDTO struct {
	ItemID    string  `json:"itemId"`
	ItemName  string  `json:"itemName,omitempty"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// ExpenseDTO represents a shipment expense
type ExpenseDTO struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// PurchaseDTO represents a purchase in responses
type PurchaseDTO struct {
	ID            string       `json:"id"`
	SupplierID    string       `json:"supplierId"`
	Kind          string       `json:"kind"`
	Date          time.Time    `json:"date"`
	Items         []LineDTO    `json:"items"`
	Expenses      []ExpenseDTO `json:"expenses,omitempty"`
	ItemsSubtotal float64      `json:"itemsSubtotal"`
	ExpensesTotal float64      `json:"expensesTotal"`
	GrandTotal    float64      `json:"grandTotal"`
	PaymentTypeID string       `json:"paymentTypeId,omitempty"`
	CurrencyID    string       `json:"currencyId,omitempty"`
	PaidAmount    float64      `json:"paidAmount"`
	Note          string       `json:"note,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// SaleDTO represents a sale in responses
type SaleDTO struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	Date          time.Time `json:"date"`
	Items         []LineDTO `json:"items"`
	GrandTotal    float64   `json:"grandTotal"`
	PaymentTypeID string    `json:"paymentTypeId,omitempty"`
	CurrencyID    string    `json:"currencyId,omitempty"`
	PaidAmount    float64   `json:"paidAmount"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PurchaseReturnDTO represents a purchase return in responses
type PurchaseReturnDTO struct {
	ID             string     `json:"id"`
	PurchaseID     string     `json:"purchaseId"`
	SupplierID     string     `json:"supplierId"`
	Date           time.Time  `json:"date"`
	Items          []LineDTO  `json:"items"`
	TotalCredit    float64    `json:"totalCredit"`
	StockApplied   bool       `json:"stockApplied"`
	StockAppliedAt *time.Time `json:"stockAppliedAt,omitempty"`
	Note           string     `json:"note,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// AuditRowDTO represents one row of an inventory audit
type AuditRowDTO struct {
	ItemID      string  `json:"itemId"`
	ItemName    string  `json:"itemName"`
	SystemQty   float64 `json:"systemQty"`
	PhysicalQty float64 `json:"physicalQty"`
	Difference  float64 `json:"difference"`
	UnitPrice   float64 `json:"unitPrice"`
	ImpactValue float64 `json:"impactValue"`
}

// AuditDTO represents an inventory audit in responses
type AuditDTO struct {
	ID          string        `json:"id"`
	Date        time.Time     `json:"date"`
	Status      string        `json:"status"`
	Items       []AuditRowDTO `json:"items"`
	TotalImpact float64       `json:"totalImpact"`
	CreatedBy   string        `json:"createdBy,omitempty"`
	AdjustedBy  string        `json:"adjustedBy,omitempty"`
	AdjustedAt  *time.Time    `json:"adjustedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// LandingCostRowDTO represents one allocated line
type LandingCostRowDTO struct {
	ItemID             string   `json:"itemId"`
	ItemName           string   `json:"itemName,omitempty"`
	Quantity           float64  `json:"quantity"`
	UnitPrice          float64  `json:"unitPrice"`
	Total              float64  `json:"total"`
	AllocatedExpense   float64  `json:"allocatedExpense"`
	TotalLandingCost   float64  `json:"totalLandingCost"`
	LandingCostPerUnit *float64 `json:"landingCostPerUnit,omitempty"`
}

// LandingCostReportDTO is the allocator output with its summary
type LandingCostReportDTO struct {
	PurchaseID        string              `json:"purchaseId,omitempty"`
	ExpensesTotal     float64             `json:"expensesTotal"`
	Rows              []LandingCostRowDTO `json:"rows"`
	TotalQuantity     float64             `json:"totalQuantity"`
	TotalLandingValue float64             `json:"totalLandingValue"`
}

// StockDriftDTO reports an item whose stock differs from its history
type StockDriftDTO struct {
	ItemID   string  `json:"itemId"`
	ItemName string  `json:"itemName"`
	Stock    float64 `json:"stock"`
	Expected float64 `json:"expected"`
	Drift    float64 `json:"drift"`
}

// PartyDTO represents a supplier or client
type PartyDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoucherDTO represents a settlement voucher
type VoucherDTO struct {
	ID            string    `json:"id"`
	PartyType     string    `json:"partyType"`
	PartyID       string    `json:"partyId"`
	Date          time.Time `json:"date"`
	Amount        float64   `json:"amount"`
	PaymentTypeID string    `json:"paymentTypeId,omitempty"`
	CurrencyID    string    `json:"currencyId,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BalanceDTO is a party's open balance
type BalanceDTO struct {
	PartyType string  `json:"partyType"`
	PartyID   string  `json:"partyId"`
	Balance   float64 `json:"balance"`
}

// CurrencyDTO represents a currency
type CurrencyDTO struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name,omitempty"`
	Symbol    string  `json:"symbol,omitempty"`
	Digits    int32   `json:"digits"`
	Rate      float64 `json:"rate"`
	IsDefault bool    `json:"isDefault"`
}

// PaymentTypeDTO represents a payment type
type PaymentTypeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SettingOptionDTO represents a settings option
type SettingOptionDTO struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol,omitempty"`
	Parent   string `json:"parent,omitempty"`
}

// ImportResultDTO summarizes a bulk item import
type ImportResultDTO struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
