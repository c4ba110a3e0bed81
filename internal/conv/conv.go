// Package conv provides safe integer conversion helpers for the compiler.
//
// These functions perform bounds checking before narrowing integer
// conversions to prevent silent overflow. They panic on overflow since this
// indicates a programming error (a single regex or rule set large enough to
// overflow a 32-bit state count is not a case this core tries to recover
// from).
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
