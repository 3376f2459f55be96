package zstd

const (
	tablelogAbsoluteMax = 9

	maxMemoryUsage = 11

	maxTableLog    = maxMemoryUsage - 2
	maxTablesize   = 1 << maxTableLog
	maxTableMask   = (1 << maxTableLog) - 1
	minTablelog    = 5
	maxSymbolValue = 255
)

// fseDecoder holds the decode table for one of the three sequence symbol
// streams (literals length, match length, offset). It is reused across
// blocks within a frame whenever the block's compression mode is Repeat.
type fseDecoder struct {
	norm           [maxSymbolValue + 1]int16
	symbolLen      uint16
	actualTableLog uint8
	dt             [maxTablesize]decSymbol
	stateTable     [256]uint16
}

func tableStep(tableSize uint32) uint32 {
	return (tableSize >> 1) + (tableSize >> 3) + 3
}

// readNCount parses the normalized distribution header (a 4-bit accuracy
// log followed by the per-symbol counts, with runs of zero counts packed
// as 2-bit repeat codes) so buildDtable can lay out the decode table.
func (s *fseDecoder) readNCount(b *byteBuf) error {
	raw := *b
	if len(raw) < 4 {
		return corruptionErr("need at least 4 bytes for an FSE ncount header, have %d", len(raw))
	}
	var (
		charnum   uint16
		previous0 bool
	)
	bitStream := readLE32(raw, 0)
	off := 0
	iend := len(raw)

	nbBits := uint((bitStream & 0xF) + minTablelog)
	if nbBits > tablelogAbsoluteMax {
		return corruptionErr("fse tableLog %d exceeds maximum %d", nbBits, tablelogAbsoluteMax)
	}
	bitStream >>= 4
	bitCount := uint(4)

	s.actualTableLog = uint8(nbBits)
	remaining := int32((1 << nbBits) + 1)
	threshold := int32(1 << nbBits)
	gotTotal := int32(0)
	nbBits++

	for remaining > 1 {
		if previous0 {
			n0 := charnum
			for (bitStream & 0xFFFF) == 0xFFFF {
				n0 += 24
				if off < iend-5 {
					off += 2
					bitStream = readLE32(raw, off) >> bitCount
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
				return corruptionErr("fse maxSymbolValue too small (n0=%d)", n0)
			}
			for charnum < n0 {
				s.norm[charnum&0xff] = 0
				charnum++
			}
			if off <= iend-7 || off+int(bitCount>>3) <= iend-4 {
				off += int(bitCount >> 3)
				bitCount &= 7
				bitStream = readLE32(raw, off) >> bitCount
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
		if off <= iend-7 || off+int(bitCount>>3) <= iend-4 {
			off += int(bitCount >> 3)
			bitCount &= 7
		} else {
			bitCount -= uint(8 * (iend - 4 - off))
			off = iend - 4
		}
		bitStream = readLE32(raw, off) >> (bitCount & 31)
	}
	s.symbolLen = charnum

	if s.symbolLen <= 1 {
		return corruptionErr("fse symbolLen (%d) too small", s.symbolLen)
	}
	if s.symbolLen > maxSymbolValue+1 {
		return corruptionErr("fse symbolLen (%d) too big", s.symbolLen)
	}
	if remaining != 1 {
		return corruptionErr("fse ncount corrupt (remaining %d != 1)", remaining)
	}
	if bitCount > 32 {
		return corruptionErr("fse ncount corrupt (bitCount %d > 32)", bitCount)
	}
	if gotTotal != 1<<s.actualTableLog {
		return corruptionErr("fse ncount corrupt (total %d != %d)", gotTotal, 1<<s.actualTableLog)
	}
	consumed := off + int((bitCount+7)>>3)
	return b.skipN(consumed)
}

func readLE32(b []byte, off int) uint32 {
	var tmp [4]byte
	n := copy(tmp[:], b[off:])
	_ = n
	return uint32(tmp[0]) | uint32(tmp[1])<<8 | uint32(tmp[2])<<16 | uint32(tmp[3])<<24
}

// decSymbol is one decode-table slot: the next state's base, how many raw
// bits to add to it, the output symbol, and (via transform) the
// baseline/extra-bits pair needed to turn that symbol into a literals
// length, match length, or offset value.
type decSymbol struct {
	newState uint16
	symbol   uint8
	nbBits   uint8
	baseline uint32
	addBits  uint8
}

// buildDtable constructs the decoding table from the normalized counts
// previously parsed by readNCount (or hardcoded for a predefined table).
func (s *fseDecoder) buildDtable() error {
	tableSize := uint32(1) << s.actualTableLog
	highThreshold := tableSize - 1
	symbolNext := s.stateTable[:256]

	for i, v := range s.norm[:s.symbolLen] {
		if v == -1 {
			s.dt[highThreshold].symbol = uint8(i)
			highThreshold--
			symbolNext[i] = 1
		} else {
			symbolNext[i] = uint16(v)
		}
	}

	tableMask := tableSize - 1
	step := tableStep(tableSize)
	position := uint32(0)
	for ss, v := range s.norm[:s.symbolLen] {
		for i := 0; i < int(v); i++ {
			s.dt[position].symbol = uint8(ss)
			position = (position + step) & tableMask
			for position > highThreshold {
				position = (position + step) & tableMask
			}
		}
	}
	if position != 0 {
		return corruptionErr("fse table build did not cover every slot")
	}

	tsz := uint16(tableSize)
	for u := uint32(0); u < tableSize; u++ {
		symbol := s.dt[u].symbol
		nextState := symbolNext[symbol]
		symbolNext[symbol] = nextState + 1
		nBits := s.actualTableLog - uint8(highBits32(uint32(nextState)))
		s.dt[u].nbBits = nBits
		newState := (nextState << nBits) - tsz
		s.dt[u].newState = newState
	}
	return nil
}

// transform attaches the (baseline, extra-bits) pair each symbol code
// maps to, so fseState.next can return a ready-to-use value contribution
// instead of a bare code.
func (s *fseDecoder) transform(table []baseOffset) error {
	tableSize := uint16(1) << s.actualTableLog
	for u := uint16(0); u < tableSize; u++ {
		sym := s.dt[u].symbol
		if int(sym) >= len(table) {
			return corruptionErr("fse: symbol %d has no base/extra-bits entry", sym)
		}
		s.dt[u].baseline = table[sym].baseLine
		s.dt[u].addBits = table[sym].addBits
	}
	return nil
}

func highBits32(val uint32) uint32 {
	n := uint32(0)
	for val > 1 {
		val >>= 1
		n++
	}
	return n
}

// fseState drives one of the three interleaved sequence decoders.
type fseState struct {
	state uint16
	dt    []decSymbol
}

func (d *fseState) init(br *bitReader, tableLog uint8, dt []decSymbol) {
	d.dt = dt
	d.state = uint16(br.getBits(tableLog))
}

// next returns the decode-table entry for the current state and advances
// the state machine by consuming nbBits from br.
func (d *fseState) next(br *bitReader) decSymbol {
	e := d.dt[d.state&maxTableMask]
	lowBits := br.getBits(e.nbBits)
	d.state = e.newState + uint16(lowBits)
	return e
}

func (d *fseState) nextFast(br *bitReader) decSymbol {
	e := d.dt[d.state&maxTableMask]
	lowBits := br.getBitsFast(e.nbBits)
	d.state = e.newState + uint16(lowBits)
	return e
}
