package zstd

import "fmt"

// DOption configures a Decoder.
type DOption func(*decoderOptions) error

type decoderOptions struct {
	lowMem             bool
	maxWindowSize      uint64
	maxDecodedSize     uint64
	verifyChecksum     bool
	rejectReservedBits bool
}

func (o *decoderOptions) setDefault() {
	*o = decoderOptions{
		lowMem:             true,
		maxWindowSize:      1 << 30,
		maxDecodedSize:     0,
		verifyChecksum:     true,
		rejectReservedBits: true,
	}
}

// WithLowmemDecoder sets whether to use a lower amount of memory, at the
// cost of possibly allocating more while running.
func WithLowmemDecoder(b bool) DOption {
	return func(o *decoderOptions) error { o.lowMem = b; return nil }
}

// WithDecoderMaxWindow sets the maximum window size a frame is allowed
// to declare. Frames asking for more are rejected instead of accepted
// and potentially exhausting memory.
func WithDecoderMaxWindow(n uint64) DOption {
	return func(o *decoderOptions) error {
		if n == 0 {
			return fmt.Errorf("WithDecoderMaxWindow: window size must be at least 1")
		}
		o.maxWindowSize = n
		return nil
	}
}

// WithDecoderMaxMemory sets a limit on the number of bytes DecodeAll will
// ever produce for a single input; exceeding it aborts the decode instead
// of growing the output slice without bound. 0 means no limit.
func WithDecoderMaxMemory(n uint64) DOption {
	return func(o *decoderOptions) error { o.maxDecodedSize = n; return nil }
}

// WithDecoderSkipChecksum controls whether the trailing xxh64 checksum (if
// present) is verified. Skipping it avoids hashing the output but means
// silent corruption in the tail of a frame would go undetected.
func WithDecoderSkipChecksum(skip bool) DOption {
	return func(o *decoderOptions) error { o.verifyChecksum = !skip; return nil }
}

// WithDecoderRejectReservedBits controls whether a nonzero reserved bit in
// the frame header descriptor is rejected with an Unsupported error.
// Defaults to true.
func WithDecoderRejectReservedBits(reject bool) DOption {
	return func(o *decoderOptions) error { o.rejectReservedBits = reject; return nil }
}
