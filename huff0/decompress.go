package huff0

import (
	"errors"
	"fmt"

	"github.com/tinyzstd/tinyzstd/fse"
)

type dTable struct {
	single []dEntrySingle
}

type dEntrySingle struct {
	symbol uint8
	nBits  uint8
}

// ReadTable parses a Huffman weight table from the front of in and builds
// the decode table into s. It returns the unconsumed remainder of in.
//
// The table is encoded either directly (one nibble per weight, for small
// alphabets) or as its own FSE-compressed stream, mirroring the split used
// for zstd's literals-length/match-length/offset tables.
func ReadTable(in []byte, s *Scratch) (s2 *Scratch, remain []byte, err error) {
	s, err = s.prepare()
	if err != nil {
		return s, nil, err
	}
	if len(in) < 1 {
		return s, nil, errors.New("huff0: input too small for table")
	}
	iSize := in[0]
	in = in[1:]
	if iSize >= 128 {
		oSize := iSize - 127
		wantBytes := (int(oSize) + 1) / 2
		if wantBytes > len(in) {
			return s, nil, errors.New("huff0: input too small for direct weights")
		}
		for n := uint8(0); n < oSize; n += 2 {
			v := in[n/2]
			s.huffWeight[n] = v >> 4
			if n+1 < oSize {
				s.huffWeight[n+1] = v & 15
			}
		}
		s.symbolLen = uint16(oSize)
		in = in[wantBytes:]
	} else {
		if int(iSize) > len(in) {
			return s, nil, errors.New("huff0: input too small for FSE weights")
		}
		var fs fse.Scratch
		fs.DecompressLimit = maxSymbolValue
		out, err := fse.Decompress(in[:iSize], &fs)
		if err != nil {
			return s, nil, fmt.Errorf("huff0: decompressing weights: %w", err)
		}
		if len(out) > maxSymbolValue {
			return s, nil, errors.New("huff0: corrupt input, weight table too large")
		}
		copy(s.huffWeight[:], out)
		s.symbolLen = uint16(len(out))
		in = in[iSize:]
	}

	var rankStats [tableLogMax + 1]uint32
	weightTotal := uint32(0)
	for _, v := range s.huffWeight[:s.symbolLen] {
		if v > tableLogMax {
			return s, nil, ErrTableTooLarge
		}
		rankStats[v]++
		weightTotal += (uint32(1) << v) >> 1
	}
	if weightTotal == 0 {
		return s, nil, errors.New("huff0: corrupt input, weights sum to zero")
	}

	tableLog := highBits(weightTotal) + 1
	if tableLog > tableLogMax {
		return s, nil, ErrTableTooLarge
	}
	s.actualTableLog = uint8(tableLog)

	total := uint32(1) << tableLog
	rest := total - weightTotal
	verif := uint32(1) << highBits(rest)
	lastWeight := highBits(rest) + 1
	if verif != rest {
		return s, nil, errors.New("huff0: corrupt input, last weight not a power of two")
	}
	s.huffWeight[s.symbolLen] = uint8(lastWeight)
	s.symbolLen++
	rankStats[lastWeight]++

	if rankStats[1] < 2 || rankStats[1]&1 != 0 {
		return s, nil, errors.New("huff0: corrupt input, rank 1 count must be even and non-zero")
	}

	var nextRankStart uint32
	for n := uint8(1); n < s.actualTableLog+1; n++ {
		current := nextRankStart
		nextRankStart += rankStats[n] << (n - 1)
		rankStats[n] = current
	}

	tSize := 1 << s.actualTableLog
	if cap(s.dt.single) < tSize {
		s.dt.single = make([]dEntrySingle, tSize)
	}
	s.dt.single = s.dt.single[:tSize]

	for n, w := range s.huffWeight[:s.symbolLen] {
		if w == 0 {
			continue
		}
		length := (uint32(1) << w) >> 1
		d := dEntrySingle{symbol: uint8(n), nBits: s.actualTableLog + 1 - w}
		for u := rankStats[w]; u < rankStats[w]+length; u++ {
			s.dt.single[u] = d
		}
		rankStats[w] += length
	}
	return s, in, nil
}

// Decompress1X decodes a single Huffman-coded bitstream using the table
// previously built by ReadTable.
func (s *Scratch) Decompress1X(in []byte) ([]byte, error) {
	if len(s.dt.single) == 0 {
		return nil, errors.New("huff0: no table loaded")
	}
	var br bitReader
	if err := br.init(in); err != nil {
		return nil, err
	}
	if err := br.skipPadding(8); err != nil {
		return nil, err
	}
	out := s.Out[:0]
	limit := s.MaxDecodedSize
	if limit <= 0 {
		limit = BlockSizeMax
	}

	decode := func() byte {
		v := s.dt.single[br.peekBitsFast(s.actualTableLog)]
		br.advance(v.nBits)
		return v.symbol
	}

	for br.off >= 4 && len(out) < limit {
		br.fillFast()
		out = append(out, decode(), decode())
		if len(out) >= limit {
			break
		}
	}
	for !br.finished() && len(out) < limit {
		br.fill()
		out = append(out, decode())
	}
	if len(out) > limit {
		return nil, fmt.Errorf("huff0: decoded output exceeds limit of %d bytes", limit)
	}
	if err := br.close(); err != nil {
		return nil, err
	}
	s.Out = out
	return out, nil
}

// Decompress4X decodes the 4-stream layout zstd uses for literal sections
// above a minimum size: a 6-byte jump table followed by four independently
// bit-reversed streams, each decoded with Decompress1X and concatenated.
func (s *Scratch) Decompress4X(in []byte, maxDecodedSize int) ([]byte, error) {
	if len(in) < 6 {
		return nil, errors.New("huff0: input too small for 4X jump table")
	}
	jump1 := uint32(in[0]) | uint32(in[1])<<8
	jump2 := jump1 + uint32(in[2]) + uint32(in[3])<<8
	jump3 := jump2 + uint32(in[4]) + uint32(in[5])<<8
	in = in[6:]
	if uint32(len(in)) < jump3 {
		return nil, errors.New("huff0: corrupt 4X jump table, streams overrun input")
	}

	streams := [4][]byte{
		in[:jump1],
		in[jump1:jump2],
		in[jump2:jump3],
		in[jump3:],
	}

	quarter := (maxDecodedSize + 3) / 4
	out := make([]byte, 0, maxDecodedSize)
	for i, stream := range streams {
		limit := quarter
		if i == 3 {
			limit = maxDecodedSize - len(out)
		}
		s.MaxDecodedSize = limit
		s.Out = nil
		dec, err := s.Decompress1X(stream)
		if err != nil {
			return nil, fmt.Errorf("huff0: decoding stream %d: %w", i, err)
		}
		out = append(out, dec...)
	}
	return out, nil
}
