package zstd

import (
	"io"

	"github.com/tinyzstd/tinyzstd/internal/le"
)

// bitReader reads a bitstream in reverse: the last byte of the input is
// consumed first. Sequence decoding interleaves three FSE state machines
// with raw extra-bits reads against a single bitReader of this kind, so
// it stays in the zstd package instead of sharing fse's.
type bitReader struct {
	in       []byte
	off      uint
	value    uint64
	bitsRead uint8
}

func (b *bitReader) init(in []byte) error {
	if len(in) < 1 {
		return io.ErrUnexpectedEOF
	}
	b.in = in
	b.off = uint(len(in))
	b.value = 0
	b.bitsRead = 64
	b.fill()
	b.fill()
	if b.bitsRead >= 64 {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// getBits returns n bits, 0 <= n <= 32, refilling if necessary. Offset
// codes can require up to 31 extra bits, so unlike fse's and huff0's
// bitReaders (which only ever pull table-log-sized chunks) this one
// returns a full uint32.
func (b *bitReader) getBits(n uint8) uint32 {
	if n == 0 {
		return 0
	}
	b.fill()
	const regMask = 64 - 1
	v := uint32(((b.value << (b.bitsRead & regMask)) >> 1) >> ((regMask - n) & regMask))
	b.bitsRead += n
	return v
}

// getBitsFast requires the caller to have refilled recently enough that n
// bits are actually available; used on the hot path once bitsRead is
// known to be small.
func (b *bitReader) getBitsFast(n uint8) uint32 {
	const regMask = 64 - 1
	v := uint32((b.value << (b.bitsRead & regMask)) >> (((regMask + 1) - n) & regMask))
	b.bitsRead += n
	return v
}

// fill ensures at least 32 bits are loaded into the accumulator.
func (b *bitReader) fill() {
	if b.bitsRead < 32 {
		return
	}
	if b.off >= 4 {
		b.off -= 4
		b.value = (b.value << 32) | uint64(le.Load32(b.in, b.off))
		b.bitsRead -= 32
		return
	}
	for b.off > 0 {
		b.off--
		b.value = (b.value << 8) | uint64(b.in[b.off])
		b.bitsRead -= 8
	}
}

// fillFast behaves like fill but skips the bitsRead<32 check; callers
// must not use it unless they know a refill is due.
func (b *bitReader) fillFast() {
	if b.off < 4 {
		b.fill()
		return
	}
	b.off -= 4
	b.value = (b.value << 32) | uint64(le.Load32(b.in, b.off))
	b.bitsRead -= 32
}

func (b *bitReader) finished() bool {
	return b.off == 0 && b.bitsRead >= 64
}

func (b *bitReader) overread() bool {
	return b.bitsRead > 64
}

func (b *bitReader) close() error {
	b.in = nil
	if b.overread() {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// skipPadding walks past the mandatory single "1" padding bit that
// terminates every zstd entropy bitstream, so the first real symbol
// starts byte-unaligned exactly where the encoder left it.
func (b *bitReader) skipPadding(maxSkip uint8) error {
	var skipped uint8
	for {
		bit := b.getBits(1)
		if bit == 1 {
			return nil
		}
		skipped++
		if skipped > maxSkip {
			return corruptionErr("could not find padding bit in entropy bitstream")
		}
	}
}
