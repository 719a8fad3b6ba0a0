package domain

import "errors"

// Catalog errors
var (
	// ErrItemNameRequired is returned when an item has no name
	ErrItemNameRequired = errors.New("item name is required")

	// ErrNegativeUnitPrice is returned when an item price is below zero
	ErrNegativeUnitPrice = errors.New("invalid unit price: must not be negative")

	// ErrInvalidConversionFactor is returned when a unit conversion factor is negative
	ErrInvalidConversionFactor = errors.New("invalid unit conversion factor")

	// ErrPartyNameRequired is returned when a supplier or client has no name
	ErrPartyNameRequired = errors.New("party name is required")

	// ErrPartyIDRequired is returned when a document names no party
	ErrPartyIDRequired = errors.New("party id is required")

	// ErrInvalidPartyType is returned for a party type other than supplier or client
	ErrInvalidPartyType = errors.New("invalid party type")
)

// Document errors
var (
	ErrInvalidPurchaseKind  = errors.New("invalid purchase kind")
	ErrInvalidVoucherAmount = errors.New("invalid voucher amount: must be positive")

	// ErrAuditAlreadyAdjusted is returned when a committed audit would be changed
	ErrAuditAlreadyAdjusted = errors.New("inventory audit already adjusted")
)

// Settings errors
var (
	ErrUnknownSettingCategory  = errors.New("invalid setting category")
	ErrSettingNameRequired     = errors.New("setting name is required")
	ErrInvalidCategoryParent   = errors.New("invalid category parent")
	ErrCurrencyCodeRequired    = errors.New("currency code is required")
	ErrInvalidCurrencyDigits   = errors.New("invalid currency digits")
	ErrInvalidCurrencyRate     = errors.New("invalid currency rate")
	ErrPaymentTypeNameRequired = errors.New("payment type name is required")
)
