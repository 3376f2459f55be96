package huff0

import (
	"errors"
	"io"

	"github.com/tinyzstd/tinyzstd/internal/le"
)

// bitReader reads a reverse bitstream, used to walk a Huffman-coded
// literals stream from its end towards its start. Kept separate from the
// fse package's own reverse bit reader: each entropy-coding primitive in
// this module owns the tight loop it runs in.
type bitReader struct {
	in       []byte
	off      uint
	value    uint64
	bitsRead uint8
}

func (b *bitReader) init(in []byte) error {
	if len(in) == 0 {
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

// peekBitsFast returns the next n bits without advancing the reader.
// Requires at least n valid bits to be loaded, i.e. a recent fill.
func (b *bitReader) peekBitsFast(n uint8) uint16 {
	const regMask = 64 - 1
	return uint16((b.value << (b.bitsRead & regMask)) >> (((regMask + 1) - n) & regMask))
}

func (b *bitReader) advance(n uint8) {
	b.bitsRead += n
}

// fill ensures at least 32 bits are loaded.
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

// fillFast is equivalent to fill but callers already know off >= 4.
func (b *bitReader) fillFast() {
	if b.bitsRead < 32 {
		return
	}
	b.off -= 4
	b.value = (b.value << 32) | uint64(le.Load32(b.in, b.off))
	b.bitsRead -= 32
}

func (b *bitReader) finished() bool {
	return b.off == 0 && b.bitsRead >= 64
}

func (b *bitReader) close() error {
	b.in = nil
	if b.bitsRead > 64 {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// skipPadding walks past the mandatory single "1" padding bit that
// terminates every zstd entropy bitstream, so the first real symbol is
// read from the bit position the encoder actually left it at.
func (b *bitReader) skipPadding(maxSkip uint8) error {
	var skipped uint8
	for {
		bit := b.peekBitsFast(1)
		b.advance(1)
		if bit == 1 {
			return nil
		}
		skipped++
		if skipped > maxSkip {
			return errors.New("huff0: could not find padding bit in content bitstream")
		}
	}
}
