package idempotency

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"550e8400-e29b-41d4-a716-446655440000", nil},
		{"purchase_2024_01", nil},
		{"", ErrKeyRequired},
		{strings.Repeat("x", DefaultMaxKeyLength+1), ErrKeyTooLong},
		{"has space", ErrKeyInvalid},
		{"semi;colon", ErrKeyInvalid},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, ValidateKey(tt.key), tt.want, tt.key)
		if tt.want == nil {
			assert.NoError(t, ValidateKey(tt.key))
		}
	}
}

func TestComputeFingerprint(t *testing.T) {
	body := []byte(`{"supplierId":"Sup-0001"}`)
	base := ComputeFingerprint(http.MethodPost, "/api/v1/purchases", body)

	assert.Len(t, base, 64)
	assert.Equal(t, base, ComputeFingerprint(http.MethodPost, "/api/v1/purchases", body))
	assert.NotEqual(t, base, ComputeFingerprint(http.MethodPut, "/api/v1/purchases", body))
	assert.NotEqual(t, base, ComputeFingerprint(http.MethodPost, "/api/v1/sales", body))
	assert.NotEqual(t, base, ComputeFingerprint(http.MethodPost, "/api/v1/purchases", []byte(`{}`)))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "abc", NormalizeKey("  abc\t"))
	assert.Equal(t, "", NormalizeKey("   "))
}
