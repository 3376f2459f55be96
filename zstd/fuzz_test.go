package zstd

import (
	"bytes"
	"testing"
)

// rawFrameSeed builds a minimal single-segment raw-block frame without the
// testing.TB-shaped helpers buildMinimalFrame needs, so fuzz seed corpus
// entries can be constructed directly.
func rawFrameSeed(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write(frameMagic)
	buf.WriteByte(1 << 5)
	buf.WriteByte(byte(len(payload)))
	bh := uint32(1) | uint32(blockTypeRaw)<<1 | uint32(len(payload))<<3
	buf.WriteByte(byte(bh))
	buf.WriteByte(byte(bh >> 8))
	buf.WriteByte(byte(bh >> 16))
	buf.Write(payload)
	return buf.Bytes()
}

// FuzzDecodeAll feeds arbitrary byte strings through the top-level decode
// entry point. It only asserts that the decoder never panics; malformed
// input is expected to return an error, not a specific one.
func FuzzDecodeAll(f *testing.F) {
	f.Add(rawFrameSeed([]byte("seed")))
	f.Add([]byte{0x28, 0xb5, 0x2f, 0xfd})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		dec, err := NewDecoder(nil)
		if err != nil {
			t.Fatalf("NewDecoder: %v", err)
		}
		defer dec.Close()
		_, _ = dec.DecodeAll(data, nil)
	})
}

func FuzzFSEReadNCount(f *testing.F) {
	f.Add(encodeNCountHeader(5, []int16{8, 8, 8, 8, -1}))
	f.Add([]byte{0, 0, 0, 0})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		var s fseDecoder
		var b byteBuf = data
		if err := s.readNCount(&b); err != nil {
			return
		}
		_ = s.buildDtable()
	})
}

func FuzzSequenceBitstream(f *testing.F) {
	f.Add([]byte{0x80, 0xAA, 0xAA})
	f.Add([]byte{0x01})

	f.Fuzz(func(t *testing.T, data []byte) {
		var br bitReader
		if err := br.init(data); err != nil {
			return
		}
		for i := 0; i < 8 && !br.finished(); i++ {
			br.fill()
			br.getBits(4)
		}
	})
}
