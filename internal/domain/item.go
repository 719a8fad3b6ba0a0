package domain

import (
	"strings"
	"time"
)

// UnitConversion describes how an item is bought, stored and sold.
// The factors are display metadata; the ledger moves raw line quantities.
type UnitConversion struct {
	PurchaseUnit      string  `json:"purchaseUnit,omitempty" bson:"purchaseUnit,omitempty"`
	StorageUnit       string  `json:"storageUnit,omitempty" bson:"storageUnit,omitempty"`
	SellingUnit       string  `json:"sellingUnit,omitempty" bson:"sellingUnit,omitempty"`
	PurchaseToStorage float64 `json:"purchaseToStorage,omitempty" bson:"purchaseToStorage,omitempty"`
	StorageToSelling  float64 `json:"storageToSelling,omitempty" bson:"storageToSelling,omitempty"`
}

// SellingUnitsPerPurchaseUnit returns the combined factor, or 0 when either
// factor is unset.
func (u UnitConversion) SellingUnitsPerPurchaseUnit() float64 {
	if u.PurchaseToStorage == 0 || u.StorageToSelling == 0 {
		return 0
	}
	return MultiplyAmounts(u.PurchaseToStorage, u.StorageToSelling)
}

// Item is a catalog entry. Stock is written only by the quantity ledger.
type Item struct {
	ID              string         `json:"id" bson:"_id"`
	Name            string         `json:"name" bson:"name"`
	Barcode         string         `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Category        string         `json:"category,omitempty" bson:"category,omitempty"`
	Brand           string         `json:"brand,omitempty" bson:"brand,omitempty"`
	UnitPrice       float64        `json:"unitPrice" bson:"unitPrice"`
	Stock           float64        `json:"stock" bson:"stock"`
	OpeningStock    float64        `json:"openingStock" bson:"openingStock"`
	AdjustmentTotal float64        `json:"adjustmentTotal" bson:"adjustmentTotal"`
	Units           UnitConversion `json:"units" bson:"units"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// ItemDetails holds the catalog fields an operator may edit.
type ItemDetails struct {
	Name      string
	Barcode   string
	Category  string
	Brand     string
	UnitPrice float64
	Units     UnitConversion
}

// NewItem creates a catalog item whose stock starts at the opening stock.
func NewItem(id string, details ItemDetails, openingStock float64) (*Item, error) {
	if err := validateItemDetails(details); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Item{
		ID:           id,
		Name:         strings.TrimSpace(details.Name),
		Barcode:      strings.TrimSpace(details.Barcode),
		Category:     details.Category,
		Brand:        details.Brand,
		UnitPrice:    details.UnitPrice,
		Stock:        openingStock,
		OpeningStock: openingStock,
		Units:        details.Units,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateDetails replaces the editable catalog fields. Stock is untouched.
func (i *Item) UpdateDetails(details ItemDetails) error {
	if err := validateItemDetails(details); err != nil {
		return err
	}

	i.Name = strings.TrimSpace(details.Name)
	i.Barcode = strings.TrimSpace(details.Barcode)
	i.Category = details.Category
	i.Brand = details.Brand
	i.UnitPrice = details.UnitPrice
	i.Units = details.Units
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyStockDelta moves stock by delta and returns the previous value.
func (i *Item) ApplyStockDelta(delta float64) float64 {
	previous := i.Stock
	i.Stock = AddQuantities(i.Stock, delta)
	i.UpdatedAt = time.Now().UTC()
	return previous
}

// OverwriteStock sets stock to an absolute value. The difference is booked
// into AdjustmentTotal so the stock can still be derived from history.
func (i *Item) OverwriteStock(newStock float64) (delta float64) {
	delta = SubtractQuantities(newStock, i.Stock)
	i.Stock = newStock
	i.AdjustmentTotal = AddQuantities(i.AdjustmentTotal, delta)
	i.UpdatedAt = time.Now().UTC()
	return delta
}

func (i *Item) RecordID() string { return i.ID }

func (i *Item) Clone() *Item {
	c := *i
	return &c
}

func validateItemDetails(details ItemDetails) error {
	if strings.TrimSpace(details.Name) == "" {
		return ErrItemNameRequired
	}
	if details.UnitPrice < 0 {
		return ErrNegativeUnitPrice
	}
	if details.Units.PurchaseToStorage < 0 || details.Units.StorageToSelling < 0 {
		return ErrInvalidConversionFactor
	}
	return nil
}
