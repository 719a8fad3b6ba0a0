package domain

import "time"

// Sale is a client invoice. Items are owned by value.
type Sale struct {
	ID            string            `json:"id" bson:"_id"`
	ClientID      string            `json:"clientId" bson:"clientId"`
	Date          time.Time         `json:"date" bson:"date"`
	Items         []TransactionItem `json:"items" bson:"items"`
	GrandTotal    float64           `json:"grandTotal" bson:"grandTotal"`
	PaymentTypeID string            `json:"paymentTypeId,omitempty" bson:"paymentTypeId,omitempty"`
	CurrencyID    string            `json:"currencyId,omitempty" bson:"currencyId,omitempty"`
	PaidAmount    float64           `json:"paidAmount" bson:"paidAmount"`
	Note          string            `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt     time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Normalize copies and normalizes lines and recomputes the grand total.
func (s *Sale) Normalize() {
	s.Items = NormalizeLines(s.Items)
	s.GrandTotal = LinesSubtotal(s.Items)
}

// OpenAmount is the part of the grand total not yet paid.
func (s *Sale) OpenAmount() float64 {
	return SubtractQuantities(s.GrandTotal, s.PaidAmount)
}

func (s *Sale) RecordID() string { return s.ID }

func (s *Sale) Clone() *Sale {
	c := *s
	c.Items = append([]TransactionItem(nil), s.Items...)
	return &c
}
