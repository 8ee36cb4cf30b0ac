// =============================================================================
// Sales Aggregation - Shared Types
// =============================================================================
//
// This package contains types shared by the selector, validation and
// aggregator packages to avoid import cycles.
//
// =============================================================================

package types

import "github.com/shopspring/decimal"

// =============================================================================
// RECORD TYPES
// =============================================================================

// RecordFile is a discovered daily record file.
type RecordFile struct {
	// Name is the base file name, e.g. "00000001.rcd".
	Name string

	// Sequence is the integer value of the eight digit name prefix.
	Sequence int
}

// Record is the parsed body of one record file.
type Record struct {
	// File is the name of the record file the record was read from.
	File string

	// Codes holds one code per dimension, in dimension order.
	Codes []string

	// Amount is the sales amount of the record. Never negative.
	Amount decimal.Decimal
}
