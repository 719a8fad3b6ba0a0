package application

import (
	pkgerrors "github.com/ledgerline/inventory-core/pkg/errors"

	"github.com/ledgerline/inventory-core/internal/domain"
)

func init() {
	pkgerrors.RegisterSentinel(domain.ErrAuditAlreadyAdjusted, pkgerrors.ErrConflict)

	for _, err := range []error{
		domain.ErrItemNameRequired,
		domain.ErrNegativeUnitPrice,
		domain.ErrInvalidConversionFactor,
		domain.ErrPartyNameRequired,
		domain.ErrPartyIDRequired,
		domain.ErrInvalidPartyType,
		domain.ErrInvalidPurchaseKind,
		domain.ErrInvalidVoucherAmount,
		domain.ErrUnknownSettingCategory,
		domain.ErrSettingNameRequired,
		domain.ErrInvalidCategoryParent,
		domain.ErrCurrencyCodeRequired,
		domain.ErrInvalidCurrencyDigits,
		domain.ErrInvalidCurrencyRate,
		domain.ErrPaymentTypeNameRequired,
	} {
		pkgerrors.RegisterSentinel(err, pkgerrors.ErrValidation)
	}
}
