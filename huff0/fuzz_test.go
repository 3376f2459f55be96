package huff0

import "testing"

// FuzzReadTable exercises weight-table parsing (both the direct and the
// FSE-compressed encoding) against arbitrary input; it only checks for
// panics, since most random input is expected to be rejected as corrupt.
func FuzzReadTable(f *testing.F) {
	f.Add([]byte{129, 0x11})
	f.Add([]byte{0})
	f.Add([]byte{200, 1, 2, 3})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _, _ = ReadTable(data, nil)
	})
}

func FuzzDecompress1X(f *testing.F) {
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0x01})

	f.Fuzz(func(t *testing.T, data []byte) {
		var s Scratch
		s.dt.single = make([]dEntrySingle, 2)
		s.actualTableLog = 1
		s.MaxDecodedSize = 64
		_, _ = s.Decompress1X(data)
	})
}
