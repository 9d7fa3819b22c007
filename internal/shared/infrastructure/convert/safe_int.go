// Package convert provides overflow-safe integer conversions.
package convert

import "math"

// IntToUint32Clamped converts v to uint32, clamping negatives to zero and
// large values to math.MaxUint32.
func IntToUint32Clamped(v int) uint32 {
	if v < 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
