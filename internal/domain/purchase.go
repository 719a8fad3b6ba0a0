package domain

import (
	"strings"
	"time"
)

// PurchaseKind distinguishes local purchases from imports carrying shipment expenses.
type PurchaseKind string

const (
	PurchaseKindLocal  PurchaseKind = "local"
	PurchaseKindImport PurchaseKind = "import"
)

// ParsePurchaseKind defaults an empty kind to local.
func ParsePurchaseKind(s string) (PurchaseKind, error) {
	switch PurchaseKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", PurchaseKindLocal:
		return PurchaseKindLocal, nil
	case PurchaseKindImport:
		return PurchaseKindImport, nil
	default:
		return "", ErrInvalidPurchaseKind
	}
}

// PurchaseKindOrLocal parses s, treating any unrecognized kind as local.
func PurchaseKindOrLocal(s string) PurchaseKind {
	if kind, err := ParsePurchaseKind(s); err == nil {
		return kind
	}
	return PurchaseKindLocal
}

// Expense is a shipment-level cost of an import purchase.
type Expense struct {
	Description string  `json:"description" bson:"description"`
	Amount      float64 `json:"amount" bson:"amount"`
}

// Purchase is a supplier invoice. Items and expenses are owned by value.
type Purchase struct {
	ID            string            `json:"id" bson:"_id"`
	SupplierID    string            `json:"supplierId" bson:"supplierId"`
	Kind          PurchaseKind      `json:"kind" bson:"kind"`
	Date          time.Time         `json:"date" bson:"date"`
	Items         []TransactionItem `json:"items" bson:"items"`
	Expenses      []Expense         `json:"expenses,omitempty" bson:"expenses,omitempty"`
	ItemsSubtotal float64           `json:"itemsSubtotal" bson:"itemsSubtotal"`
	ExpensesTotal float64           `json:"expensesTotal" bson:"expensesTotal"`
	GrandTotal    float64           `json:"grandTotal" bson:"grandTotal"`
	PaymentTypeID string            `json:"paymentTypeId,omitempty" bson:"paymentTypeId,omitempty"`
	CurrencyID    string            `json:"currencyId,omitempty" bson:"currencyId,omitempty"`
	PaidAmount    float64           `json:"paidAmount" bson:"paidAmount"`
	Note          string            `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt     time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Normalize copies and normalizes lines, drops expenses on local purchases
// and recomputes every total.
func (p *Purchase) Normalize() {
	if p.Kind == "" {
		p.Kind = PurchaseKindLocal
	}
	p.Items = NormalizeLines(p.Items)

	if p.Kind != PurchaseKindImport {
		p.Expenses = nil
	} else {
		p.Expenses = append([]Expense(nil), p.Expenses...)
	}

	p.ItemsSubtotal = LinesSubtotal(p.Items)
	p.ExpensesTotal = ExpensesTotal(p.Expenses)
	p.GrandTotal = AddQuantities(p.ItemsSubtotal, p.ExpensesTotal)
}

// OpenAmount is the part of the grand total not yet paid.
func (p *Purchase) OpenAmount() float64 {
	return SubtractQuantities(p.GrandTotal, p.PaidAmount)
}

// LandingCosts distributes the purchase expenses over its lines.
func (p *Purchase) LandingCosts() []LandingCostRow {
	return ComputeLandingCosts(p.Items, p.ExpensesTotal)
}

func (p *Purchase) RecordID() string { return p.ID }

func (p *Purchase) Clone() *Purchase {
	c := *p
	c.Items = append([]TransactionItem(nil), p.Items...)
	c.Expenses = append([]Expense(nil), p.Expenses...)
	return &c
}

// ExpensesTotal sums expense amounts.
func ExpensesTotal(expenses []Expense) float64 {
	amounts := make([]float64, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return SumAmounts(amounts...)
}
