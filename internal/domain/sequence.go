package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Document id prefixes. The formats appear on printed documents and exports.
const (
	PurchaseIDPrefix       = "PUR"
	SaleIDPrefix           = "Sales"
	AuditIDPrefix          = "INV"
	SupplierIDPrefix       = "Sup"
	ClientIDPrefix         = "Cli"
	PurchaseReturnIDPrefix = "RET"
	VoucherIDPrefix        = "VOU"
)

// FormatSequentialID renders prefix-NNNN with at least four digits.
func FormatSequentialID(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// ParseSequentialID extracts the numeric suffix of an id with the given prefix.
func ParseSequentialID(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MaxSequentialNumber returns the highest suffix among ids, or 0.
func MaxSequentialNumber(prefix string, ids []string) int {
	highest := 0
	for _, id := range ids {
		if n, ok := ParseSequentialID(prefix, id); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// NextSequentialID returns max(existing suffixes)+1 formatted with prefix.
// Gaps left by deletions are never filled.
func NextSequentialID(prefix string, ids []string) string {
	return FormatSequentialID(prefix, MaxSequentialNumber(prefix, ids)+1)
}
