package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSequentialID(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		existing []string
		expected string
	}{
		{name: "first id", prefix: PurchaseIDPrefix, existing: nil, expected: "PUR-0001"},
		{name: "gap is not reused", prefix: PurchaseIDPrefix, existing: []string{"PUR-0001", "PUR-0003"}, expected: "PUR-0004"},
		{name: "unordered input", prefix: SaleIDPrefix, existing: []string{"Sales-0010", "Sales-0002"}, expected: "Sales-0011"},
		{name: "foreign ids ignored", prefix: AuditIDPrefix, existing: []string{"PUR-0009", "INV-0002", "INV-x"}, expected: "INV-0003"},
		{name: "grows past four digits", prefix: SupplierIDPrefix, existing: []string{"Sup-9999"}, expected: "Sup-10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextSequentialID(tt.prefix, tt.existing))
		})
	}
}

func TestParseSequentialID(t *testing.T) {
	n, ok := ParseSequentialID("PUR", "PUR-0042")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = ParseSequentialID("PUR", "PURX-0042")
	assert.False(t, ok)

	_, ok = ParseSequentialID("PUR", "PUR-")
	assert.False(t, ok)

	_, ok = ParseSequentialID("PUR", "PUR--3")
	assert.False(t, ok)
}

func TestFormatSequentialID(t *testing.T) {
	assert.Equal(t, "Sales-0001", FormatSequentialID(SaleIDPrefix, 1))
	assert.Equal(t, "INV-0120", FormatSequentialID(AuditIDPrefix, 120))
}
