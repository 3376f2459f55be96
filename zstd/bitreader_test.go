package zstd

import "testing"

func TestBitReaderInitRejectsEmptyInput(t *testing.T) {
	var br bitReader
	if err := br.init(nil); err == nil {
		t.Fatal("expected error initializing from empty input")
	}
}

// getBits must be able to return a full 31-bit value in one call, unlike
// fse's and huff0's bitReaders which never exceed a table log's width.
func TestBitReaderGetBitsWideRead(t *testing.T) {
	// Bit pattern, written MSB-first as the encoder would, with a single
	// trailing padding bit of 1.
	in := []byte{0xff, 0xff, 0xff, 0xff, 0x01}
	var br bitReader
	if err := br.init(in); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := br.skipPadding(8); err != nil {
		t.Fatalf("skipPadding: %v", err)
	}
	v := br.getBits(31)
	if v != (1<<31)-1 {
		t.Fatalf("getBits(31) = %#x, want %#x", v, uint32((1<<31)-1))
	}
}

func TestBitReaderGetBitsZeroIsNoop(t *testing.T) {
	var br bitReader
	if err := br.init([]byte{0x80}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := br.getBits(0); got != 0 {
		t.Fatalf("getBits(0) = %d, want 0", got)
	}
}

func TestBitReaderFinishedAfterExhausting(t *testing.T) {
	in := []byte{0b10000000}
	var br bitReader
	if err := br.init(in); err != nil {
		t.Fatalf("init: %v", err)
	}
	br.getBits(8)
	if !br.finished() {
		t.Fatal("expected finished() after consuming every bit")
	}
	if err := br.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBitReaderSkipPaddingFailsWithoutSentinel(t *testing.T) {
	var br bitReader
	if err := br.init([]byte{0x00, 0x00}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := br.skipPadding(4); err == nil {
		t.Fatal("expected error when no padding bit is found within maxSkip")
	}
}
