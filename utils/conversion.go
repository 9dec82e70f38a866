package utils

import (
	"fmt"
	"math"
)

// SafeUint32ToInt32 safely converts uint32 to int32, returning an error if overflow would occur
func SafeUint32ToInt32(value uint32) (int32, error) {
	if value > math.MaxInt32 {
		return 0, fmt.Errorf("uint32 value %d exceeds int32 maximum %d", value, math.MaxInt32)
	}

	return int32(value), nil //nolint:gosec // Conversion is safe after overflow check
}

// SafeInt64ToUint32 safely converts int64 to uint32, returning an error for
// negative values or overflow. Used for CLI-provided ports and expiries.
func SafeInt64ToUint32(value int64) (uint32, error) {
	if value < 0 || value > math.MaxUint32 {
		return 0, fmt.Errorf("int64 value %d is outside the uint32 range", value)
	}

	return uint32(value), nil //nolint:gosec // Conversion is safe after range check
}

// SafeInt64ToUint64 safely converts int64 to uint64, returning an error for
// negative values.
func SafeInt64ToUint64(value int64) (uint64, error) {
	if value < 0 {
		return 0, fmt.Errorf("int64 value %d is negative", value)
	}

	return uint64(value), nil
}
