package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStockMutation(t *testing.T) {
	m := New(DefaultConfig("inventory-core"))

	m.RecordStockMutation("record_purchase", 2, true, 10*time.Millisecond)
	m.RecordStockMutation("record_purchase", 0, false, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockMutations.WithLabelValues("inventory-core", "record_purchase", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockMutations.WithLabelValues("inventory-core", "record_purchase", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StockItemsChanged.WithLabelValues("inventory-core", "record_purchase")))
}

func TestOutboxAndDriftGauges(t *testing.T) {
	m := New(DefaultConfig("inventory-core"))

	m.SetOutboxPending(7)
	m.SetStockDrift(3)
	m.RecordOutboxRetry()
	m.RecordAuditAdjusted()

	assert.Equal(t, 7.0, testutil.ToFloat64(m.OutboxPending))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StockDrift))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxRetries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditsAdjusted))
}
