package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/inventory-core/pkg/logging"

	"github.com/ledgerline/inventory-core/internal/application"
	"github.com/ledgerline/inventory-core/internal/infrastructure/memory"
)

func TestSeedReferenceData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	catalog := application.NewCatalogService(store, logging.NewNop())

	require.NoError(t, seedReferenceData(ctx, store, catalog, true, logging.NewNop()))
	currencies, err := catalog.ListCurrencies(ctx)
	require.NoError(t, err)
	assert.Empty(t, currencies, "dry run writes nothing")

	for i := 0; i < 2; i++ {
		require.NoError(t, seedReferenceData(ctx, store, catalog, false, logging.NewNop()))
	}

	currencies, err = catalog.ListCurrencies(ctx)
	require.NoError(t, err)
	require.Len(t, currencies, 1)
	assert.Equal(t, "USD", currencies[0].Code)
	assert.True(t, currencies[0].IsDefault)

	paymentTypes, err := catalog.ListPaymentTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, paymentTypes, len(seedPaymentTypes))

	units, err := catalog.ListSettingOptions(ctx, "measure_unit")
	require.NoError(t, err)
	assert.Len(t, units, 3)
}
