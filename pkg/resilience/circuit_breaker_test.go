package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("resilience-test"))
	config := DefaultCircuitBreakerConfig("kafka-producer")
	config.FailureThreshold = 2
	cb := NewCircuitBreaker(config, m, logging.NewNop())

	boom := errors.New("broker down")
	for i := 0; i < 2; i++ {
		_, err := cb.Execute(context.Background(), func() (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("resilience-test", "kafka-producer")))

	called := false
	_, err := cb.Execute(context.Background(), func() (interface{}, error) {
		called = true
		return nil, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_PassesResults(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("mongodb"), nil, logging.NewNop())

	result, err := cb.Execute(context.Background(), func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, "mongodb", cb.Name())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cb.Execute(ctx, func() (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, context.Canceled)
}
