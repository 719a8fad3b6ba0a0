package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/inventory-core/internal/application"
)

func TestPrintReport(t *testing.T) {
	t.Run("no drift", func(t *testing.T) {
		var out bytes.Buffer
		printReport(&out, nil, 10)
		assert.Contains(t, out.String(), "OK: every item's stock matches its history")
	})

	t.Run("drift rows are truncated at the limit", func(t *testing.T) {
		drifts := []application.StockDriftDTO{
			{ItemID: "item-1", ItemName: "Bolt", Stock: 12, Expected: 10, Drift: 2},
			{ItemID: "item-2", ItemName: "Nut", Stock: 3, Expected: 5.5, Drift: -2.5},
			{ItemID: "item-3", ItemName: "Washer", Stock: 1, Expected: 0, Drift: 1},
		}

		var out bytes.Buffer
		printReport(&out, drifts, 2)

		report := out.String()
		assert.Contains(t, report, "DRIFT: 3 items differ from their history")
		assert.Contains(t, report, "item-1")
		assert.Contains(t, report, "item-2")
		assert.NotContains(t, report, "item-3")
		assert.Contains(t, report, "... 1 more")
	})
}

func TestTriggerOnCollapsesBursts(t *testing.T) {
	triggers := make(chan struct{}, 1)
	handler := triggerOn(triggers)

	for i := 0; i < 5; i++ {
		require.NoError(t, handler(context.Background(), nil))
	}

	assert.Len(t, triggers, 1)
	<-triggers
	assert.Len(t, triggers, 0)
}
