package main

import (
	"bytes"
	"testing"

	"github.com/tinyzstd/tinyzstd/zstd"
)

// minimalFrame builds the smallest single-segment, single-raw-block zstd
// frame carrying payload as its entire content, with no checksum.
func minimalFrame(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x28, 0xb5, 0x2f, 0xfd})
	buf.WriteByte(1 << 5)
	buf.WriteByte(byte(len(payload)))
	bh := uint32(1) | uint32(len(payload))<<3 // last=1, blockType=Raw(0)
	buf.WriteByte(byte(bh))
	buf.WriteByte(byte(bh >> 8))
	buf.WriteByte(byte(bh >> 16))
	buf.Write(payload)
	return buf.Bytes()
}

func TestCLIOptionsDecodeMinimalFrame(t *testing.T) {
	raw := minimalFrame([]byte("zstdcat smoke test"))
	var out bytes.Buffer
	opts := []zstd.DOption{
		zstd.WithDecoderMaxWindow(*maxWindow),
		zstd.WithDecoderSkipChecksum(*skipSum),
		zstd.WithDecoderRejectReservedBits(!*noReserved),
	}
	dec, err := zstd.NewDecoder(bytes.NewReader(raw), opts...)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	defer dec.Close()
	if _, err := dec.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if out.String() != "zstdcat smoke test" {
		t.Fatalf("out = %q", out.String())
	}
}

func TestExitErrNoopOnNilError(t *testing.T) {
	// exitErr must not call os.Exit when err is nil; if it did, the test
	// binary itself would be killed.
	exitErr(nil)
}
