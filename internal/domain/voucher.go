package domain

import "time"

// Voucher settles part of a party's open balance.
type Voucher struct {
	ID            string    `json:"id" bson:"_id"`
	PartyType     PartyType `json:"partyType" bson:"partyType"`
	PartyID       string    `json:"partyId" bson:"partyId"`
	Date          time.Time `json:"date" bson:"date"`
	Amount        float64   `json:"amount" bson:"amount"`
	PaymentTypeID string    `json:"paymentTypeId,omitempty" bson:"paymentTypeId,omitempty"`
	CurrencyID    string    `json:"currencyId,omitempty" bson:"currencyId,omitempty"`
	Note          string    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// Validate checks the voucher fields.
func (v *Voucher) Validate() error {
	if v.PartyType != PartyTypeSupplier && v.PartyType != PartyTypeClient {
		return ErrInvalidPartyType
	}
	if v.PartyID == "" {
		return ErrPartyIDRequired
	}
	if v.Amount <= 0 {
		return ErrInvalidVoucherAmount
	}
	return nil
}

func (v *Voucher) RecordID() string { return v.ID }

func (v *Voucher) Clone() *Voucher {
	c := *v
	return &c
}

// SupplierBalance is what the business still owes a supplier: open purchase
// amounts less return credits and vouchers paid.
func SupplierBalance(supplierID string, purchases []*Purchase, returns []*PurchaseReturn, vouchers []*Voucher) float64 {
	var amounts []float64
	for _, p := range purchases {
		if p.SupplierID == supplierID {
			amounts = append(amounts, p.OpenAmount())
		}
	}
	for _, r := range returns {
		if r.SupplierID == supplierID {
			amounts = append(amounts, -r.TotalCredit)
		}
	}
	for _, v := range vouchers {
		if v.PartyType == PartyTypeSupplier && v.PartyID == supplierID {
			amounts = append(amounts, -v.Amount)
		}
	}
	return SumAmounts(amounts...)
}

// ClientBalance is what a client still owes the business.
func ClientBalance(clientID string, sales []*Sale, vouchers []*Voucher) float64 {
	var amounts []float64
	for _, s := range sales {
		if s.ClientID == clientID {
			amounts = append(amounts, s.OpenAmount())
		}
	}
	for _, v := range vouchers {
		if v.PartyType == PartyTypeClient && v.PartyID == clientID {
			amounts = append(amounts, -v.Amount)
		}
	}
	return SumAmounts(amounts...)
}
