package zstd

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/cespare/xxhash"
)

// buildMinimalFrame assembles the smallest single-segment, single-raw-block
// frame that carries payload as its entire content, optionally appending a
// correct (or, if wrongChecksum, deliberately wrong) trailing xxh64 digest.
func buildMinimalFrame(t *testing.T, payload []byte, withChecksum, wrongChecksum bool) []byte {
	t.Helper()
	if len(payload) >= 256 {
		t.Fatalf("buildMinimalFrame only supports single-byte content sizes, got %d", len(payload))
	}
	var buf bytes.Buffer
	buf.Write(frameMagic)

	fhd := byte(1 << 5) // single segment
	if withChecksum {
		fhd |= 1 << 2
	}
	buf.WriteByte(fhd)
	buf.WriteByte(byte(len(payload))) // 1-byte frame content size

	bh := uint32(1) | uint32(blockTypeRaw)<<1 | uint32(len(payload))<<3
	buf.WriteByte(byte(bh))
	buf.WriteByte(byte(bh >> 8))
	buf.WriteByte(byte(bh >> 16))
	buf.Write(payload)

	if withChecksum {
		h := xxhash.New()
		h.Write(payload)
		sum := h.Sum(nil)
		if wrongChecksum {
			sum[7] ^= 0xff
		}
		buf.Write([]byte{sum[7], sum[6], sum[5], sum[4]})
	}
	return buf.Bytes()
}

func TestFrameDecoderRoundTripMinimalRawFrame(t *testing.T) {
	payload := []byte("hi")
	raw := buildMinimalFrame(t, payload, false, false)

	var o decoderOptions
	o.setDefault()
	fd := newFrameDecoder(o)
	br := bufio.NewReader(bytes.NewReader(raw))
	if err := fd.readHeader(br); err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	buf := newDecodeBuffer(int(fd.windowSize))
	out, err := fd.decode(br, buf, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(out) != "hi" {
		t.Fatalf("out = %q, want %q", out, "hi")
	}
	if err := fd.checkChecksum(br); err != nil {
		t.Fatalf("checkChecksum: %v", err)
	}
}

func TestFrameDecoderChecksumVerifiedOnSuccess(t *testing.T) {
	payload := []byte("checksum-me")
	raw := buildMinimalFrame(t, payload, true, false)

	var o decoderOptions
	o.setDefault()
	fd := newFrameDecoder(o)
	br := bufio.NewReader(bytes.NewReader(raw))
	if err := fd.readHeader(br); err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	buf := newDecodeBuffer(int(fd.windowSize))
	if _, err := fd.decode(br, buf, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := fd.checkChecksum(br); err != nil {
		t.Fatalf("checkChecksum: %v", err)
	}
}

func TestFrameDecoderChecksumMismatchDetected(t *testing.T) {
	payload := []byte("checksum-me")
	raw := buildMinimalFrame(t, payload, true, true)

	var o decoderOptions
	o.setDefault()
	fd := newFrameDecoder(o)
	br := bufio.NewReader(bytes.NewReader(raw))
	if err := fd.readHeader(br); err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	buf := newDecodeBuffer(int(fd.windowSize))
	if _, err := fd.decode(br, buf, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	err := fd.checkChecksum(br)
	if err == nil {
		t.Fatal("expected checksum mismatch error")
	}
	if e, ok := err.(*Error); !ok || e.Kind != KindChecksumMismatch {
		t.Fatalf("err = %v (%T), want KindChecksumMismatch", err, err)
	}
}

func TestFrameDecoderRejectsBadMagic(t *testing.T) {
	raw := []byte{0, 0, 0, 0}
	var o decoderOptions
	o.setDefault()
	fd := newFrameDecoder(o)
	br := bufio.NewReader(bytes.NewReader(raw))
	if err := fd.readHeader(br); err == nil {
		t.Fatal("expected error for bad frame magic")
	}
}

func TestFrameDecoderSkipsSkippableFrame(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(skippableFrameMagic)
	buf.WriteByte(0x50) // low nibble selects which of the 16 skippable IDs
	buf.Write([]byte{3, 0, 0, 0})
	buf.Write([]byte{'x', 'y', 'z'})
	buf.Write(buildMinimalFrame(t, []byte("after"), false, false))

	var o decoderOptions
	o.setDefault()
	fd := newFrameDecoder(o)
	br := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	if err := fd.readHeader(br); err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	out, err := fd.decode(br, newDecodeBuffer(int(fd.windowSize)), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(out) != "after" {
		t.Fatalf("out = %q, want %q", out, "after")
	}
}

func TestFrameDecoderRejectsWindowSizeAboveConfiguredMax(t *testing.T) {
	payload := make([]byte, 0)
	_ = payload
	var buf bytes.Buffer
	buf.Write(frameMagic)
	// Not single-segment: use a window descriptor that requests a huge
	// window, with fcsFlag=0 (no explicit content size) and no single
	// segment bit, so readHeader actually parses the window descriptor.
	fhd := byte(0)
	buf.WriteByte(fhd)
	buf.WriteByte(0xFF) // windowLog = 10+31 = 41, well above any sane max

	var o decoderOptions
	o.setDefault()
	o.maxWindowSize = 1 << 20
	fd := newFrameDecoder(o)
	br := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	if err := fd.readHeader(br); err == nil {
		t.Fatal("expected error for window size exceeding the configured maximum")
	}
}
