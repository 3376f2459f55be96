package fse

import (
	"errors"
	"fmt"
)

// readNCount parses the normalized distribution header described in the
// zstd compression format: a 4-bit accuracy log followed by a sequence of
// counts, with runs of zero counts compressed via a 2-bit repeat code.
// It fills s.norm/s.symbolLen/s.tableLog and advances b past the header.
func (s *Scratch) readNCount(b *byteReader) error {
	var (
		charnum   uint16
		previous0 bool
	)
	iend := b.remain()
	if iend < 4 {
		return errors.New("fse: input too small for ncount header")
	}
	bitStream := b.Uint32()
	nbBits := uint((bitStream & 0xF) + minTablelog)
	if nbBits > tablelogAbsoluteMax {
		return errors.New("fse: tableLog too large")
	}
	bitStream >>= 4
	bitCount := uint(4)

	s.tableLog = uint8(nbBits)
	remaining := int32((1 << nbBits) + 1)
	threshold := int32(1 << nbBits)
	gotTotal := int32(0)
	nbBits++

	for remaining > 1 {
		if previous0 {
			n0 := charnum
			for (bitStream & 0xFFFF) == 0xFFFF {
				n0 += 24
				if b.off < iend-5 {
					b.advance(2)
					bitStream = b.Uint32() >> bitCount
				} else {
					bitStream >>= 16
					bitCount += 16
				}
			}
			for (bitStream & 3) == 3 {
				n0 += 3
				bitStream >>= 2
				bitCount += 2
			}
			n0 += uint16(bitStream & 3)
			bitCount += 2
			if n0 > maxSymbolValue {
				return errors.New("fse: maxSymbolValue too small")
			}
			for charnum < n0 {
				s.norm[charnum&0xff] = 0
				charnum++
			}
			if b.off <= iend-7 || b.off+int(bitCount>>3) <= iend-4 {
				b.advance(bitCount >> 3)
				bitCount &= 7
				bitStream = b.Uint32() >> bitCount
			} else {
				bitStream >>= 2
			}
		}

		max := (2*threshold - 1) - remaining
		var count int32

		if (int32(bitStream) & (threshold - 1)) < max {
			count = int32(bitStream) & (threshold - 1)
			bitCount += nbBits - 1
		} else {
			count = int32(bitStream) & (2*threshold - 1)
			if count >= threshold {
				count -= max
			}
			bitCount += nbBits
		}

		count--
		if count < 0 {
			remaining += count
			gotTotal -= count
		} else {
			remaining -= count
			gotTotal += count
		}
		s.norm[charnum&0xff] = int16(count)
		charnum++
		previous0 = count == 0
		for remaining < threshold {
			nbBits--
			threshold >>= 1
		}
		if b.off <= iend-7 || b.off+int(bitCount>>3) <= iend-4 {
			b.advance(bitCount >> 3)
			bitCount &= 7
		} else {
			bitCount -= uint(8 * (iend - 4 - b.off))
			b.off = iend - 4
		}
		bitStream = b.Uint32() >> (bitCount & 31)
	}
	s.symbolLen = charnum

	if s.symbolLen <= 1 {
		return fmt.Errorf("fse: symbolLen (%d) too small", s.symbolLen)
	}
	if s.symbolLen > maxSymbolValue+1 {
		return fmt.Errorf("fse: symbolLen (%d) too big", s.symbolLen)
	}
	if remaining != 1 {
		return fmt.Errorf("fse: corrupt ncount header (remaining %d != 1)", remaining)
	}
	if bitCount > 32 {
		return fmt.Errorf("fse: corrupt ncount header (bitCount %d > 32)", bitCount)
	}
	if gotTotal != 1<<s.tableLog {
		return fmt.Errorf("fse: corrupt ncount header (total %d != %d)", gotTotal, 1<<s.tableLog)
	}
	b.advance(uint((bitCount + 7) >> 3))
	return nil
}

// Decompress decodes an FSE-compressed byte stream using the table parsed
// from its own embedded NCount header. It is used for decompressing
// Huffman literal weights; the zstd sequence decoder uses its own
// state-machine-fused FSE decoder instead, since it must interleave three
// independent symbol streams with extra-bits reads.
func Decompress(in []byte, s *Scratch) ([]byte, error) {
	s, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.readNCount(&s.br); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := s.buildDtable(); err != nil {
		return nil, err
	}

	var br bitReader
	if err := br.init(s.br.unread()); err != nil {
		return nil, err
	}

	const tableLogMaxSkip = 8
	skipped := 0
	for br.getBits(1) == 0 {
		skipped++
		if skipped > tableLogMaxSkip {
			return nil, errors.New("fse: could not find padding bit")
		}
	}

	state1 := decSymbol{}
	state2 := decSymbol{}
	br.fill()
	s1 := uint16(br.getBits(s.tableLog))
	br.fill()
	s2 := uint16(br.getBits(s.tableLog))
	state1 = s.decTable[s1]
	state2 = s.decTable[s2]

	limit := s.DecompressLimit
	if limit <= 0 {
		limit = 1 << 20
	}

	out := s.Out
	for {
		if len(out) >= limit {
			return nil, fmt.Errorf("fse: output exceeds limit of %d bytes", limit)
		}
		out = append(out, state1.symbol)
		br.fill()
		ns1 := state1.newState + br.getBitsFast(state1.nbBits)
		state1 = s.decTable[ns1]

		if br.finished() {
			out = append(out, state2.symbol)
			break
		}

		out = append(out, state2.symbol)
		br.fill()
		ns2 := state2.newState + br.getBitsFast(state2.nbBits)
		state2 = s.decTable[ns2]

		if br.finished() {
			out = append(out, state1.symbol)
			break
		}
	}
	if err := br.close(); err != nil {
		return nil, err
	}
	s.Out = out
	return out, nil
}
