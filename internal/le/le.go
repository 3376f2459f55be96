// Package le provides unaligned little-endian loads and stores,
// used by the bit readers to refill their accumulators without
// going through encoding/binary on platforms where that is safe.
package le

// Indexer is the set of integer types usable to index a byte slice
// in the Load/Store helpers.
type Indexer interface {
	int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64 | uintptr
}
