package domain

import (
	"strings"
	"time"
)

// Currency is a configured transaction currency.
type Currency struct {
	ID        string    `json:"id" bson:"_id"`
	Code      string    `json:"code" bson:"code"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Symbol    string    `json:"symbol,omitempty" bson:"symbol,omitempty"`
	Digits    int32     `json:"digits" bson:"digits"`
	Rate      float64   `json:"rate" bson:"rate"`
	IsDefault bool      `json:"isDefault" bson:"isDefault"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Validate checks the currency fields.
func (c *Currency) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return ErrCurrencyCodeRequired
	}
	if c.Digits < 0 || c.Digits > 8 {
		return ErrInvalidCurrencyDigits
	}
	if c.Rate < 0 {
		return ErrInvalidCurrencyRate
	}
	return nil
}

// Format renders an amount with the currency's digits.
func (c *Currency) Format(amount float64) string {
	s := FormatMoney(amount, c.Digits)
	if c.Symbol == "" {
		return s
	}
	return c.Symbol + " " + s
}

func (c *Currency) RecordID() string { return c.ID }

func (c *Currency) Clone() *Currency {
	cp := *c
	return &cp
}

// PaymentType is a configured means of payment.
type PaymentType struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Validate checks the payment type fields.
func (p *PaymentType) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrPaymentTypeNameRequired
	}
	return nil
}

func (p *PaymentType) RecordID() string { return p.ID }

func (p *PaymentType) Clone() *PaymentType {
	c := *p
	return &c
}

// SettingCategory names one of the closed set of catalog option lists.
type SettingCategory string

const (
	SettingMeasureUnit     SettingCategory = "measure_unit"
	SettingBrand           SettingCategory = "brand"
	SettingProductCategory SettingCategory = "category"
)

// SettingCategories lists every known category.
var SettingCategories = []SettingCategory{SettingMeasureUnit, SettingBrand, SettingProductCategory}

// ParseSettingCategory validates a category name.
func ParseSettingCategory(s string) (SettingCategory, error) {
	c := SettingCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SettingCategories {
		if c == known {
			return c, nil
		}
	}
	return "", ErrUnknownSettingCategory
}

// SettingOption is one entry of a settings list.
type SettingOption interface {
	Category() SettingCategory
	Key() string
	Validate() error
}

// MeasureUnit is a unit of measure such as "kg".
type MeasureUnit struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

func (m MeasureUnit) Category() SettingCategory { return SettingMeasureUnit }
func (m MeasureUnit) Key() string               { return optionKey(m.Name) }

func (m MeasureUnit) Validate() error {
	if optionKey(m.Name) == "" {
		return ErrSettingNameRequired
	}
	return nil
}

// Brand is a product brand.
type Brand struct {
	Name string `json:"name"`
}

func (b Brand) Category() SettingCategory { return SettingBrand }
func (b Brand) Key() string               { return optionKey(b.Name) }

func (b Brand) Validate() error {
	if optionKey(b.Name) == "" {
		return ErrSettingNameRequired
	}
	return nil
}

// ProductCategory groups items; Parent optionally names an enclosing category.
type ProductCategory struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

func (p ProductCategory) Category() SettingCategory { return SettingProductCategory }
func (p ProductCategory) Key() string               { return optionKey(p.Name) }

func (p ProductCategory) Validate() error {
	if optionKey(p.Name) == "" {
		return ErrSettingNameRequired
	}
	if p.Parent != "" && optionKey(p.Parent) == optionKey(p.Name) {
		return ErrInvalidCategoryParent
	}
	return nil
}

// NewSettingOption builds the variant for a category from its raw fields.
func NewSettingOption(category SettingCategory, name, symbol, parent string) (SettingOption, error) {
	var opt SettingOption
	switch category {
	case SettingMeasureUnit:
		opt = MeasureUnit{Name: strings.TrimSpace(name), Symbol: strings.TrimSpace(symbol)}
	case SettingBrand:
		opt = Brand{Name: strings.TrimSpace(name)}
	case SettingProductCategory:
		opt = ProductCategory{Name: strings.TrimSpace(name), Parent: strings.TrimSpace(parent)}
	default:
		return nil, ErrUnknownSettingCategory
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// SettingRecord is the persisted form of a SettingOption.
type SettingRecord struct {
	ID        string          `json:"id" bson:"_id"`
	Category  SettingCategory `json:"category" bson:"category"`
	Name      string          `json:"name" bson:"name"`
	Symbol    string          `json:"symbol,omitempty" bson:"symbol,omitempty"`
	Parent    string          `json:"parent,omitempty" bson:"parent,omitempty"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
}

// SettingRecordID is the stable id of an option within its category.
func SettingRecordID(category SettingCategory, key string) string {
	return string(category) + ":" + key
}

// NewSettingRecord flattens an option for storage.
func NewSettingRecord(opt SettingOption) *SettingRecord {
	rec := &SettingRecord{
		ID:        SettingRecordID(opt.Category(), opt.Key()),
		Category:  opt.Category(),
		CreatedAt: time.Now().UTC(),
	}
	switch o := opt.(type) {
	case MeasureUnit:
		rec.Name, rec.Symbol = o.Name, o.Symbol
	case Brand:
		rec.Name = o.Name
	case ProductCategory:
		rec.Name, rec.Parent = o.Name, o.Parent
	}
	return rec
}

// Option rebuilds the typed variant.
func (r *SettingRecord) Option() (SettingOption, error) {
	return NewSettingOption(r.Category, r.Name, r.Symbol, r.Parent)
}

func (r *SettingRecord) RecordID() string { return r.ID }

func (r *SettingRecord) Clone() *SettingRecord {
	c := *r
	return &c
}

func optionKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
