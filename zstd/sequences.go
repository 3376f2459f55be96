package zstd

// seqCompressionMode selects where a sequence symbol stream's FSE table
// comes from.
type seqCompressionMode uint8

const (
	seqModePredefined seqCompressionMode = iota
	seqModeRLE
	seqModeFSECompressed
	seqModeRepeat
)

const (
	llMaxLog = 9
	mlMaxLog = 9
	ofMaxLog = 8
)

// sequence is one decoded (literalsLength, matchLength, offsetCode)
// triple, still in "wire" form: offsetCode needs resolving against the
// recent-offsets history before it is a byte distance (see executor.go).
type sequence struct {
	literalLen uint32
	matchLen   uint32
	offsetCode uint32
}

// sequenceDecoders owns the three FSE decoders across the lifetime of a
// frame, since a block whose compression mode is Repeat reuses whatever
// table the previous compressed block with sequences last built.
type sequenceDecoders struct {
	ll, ml, of     fseDecoder
	llRLE, mlRLE, ofRLE byte
	llMode, mlMode, ofMode seqCompressionMode
}

func parseSequencesHeader(b *byteBuf) (numSequences int, modes byte, err error) {
	first, err := b.readByte()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case first == 0:
		return 0, 0, nil
	case first < 128:
		numSequences = int(first)
	case first < 255:
		second, err := b.readByte()
		if err != nil {
			return 0, 0, err
		}
		numSequences = (int(first)-128)<<8 + int(second)
	default:
		lo, err := b.readByte()
		if err != nil {
			return 0, 0, err
		}
		hi, err := b.readByte()
		if err != nil {
			return 0, 0, err
		}
		numSequences = int(lo) + int(hi)<<8 + 0x7F00
	}
	modes, err = b.readByte()
	if err != nil {
		return 0, 0, err
	}
	return numSequences, modes, nil
}

// decodeMode extracts one 2-bit compression-mode field from the
// Symbol_Compression_Modes byte: bits [7:6] select the literals-length
// mode, [5:4] the offset mode, [3:2] the match-length mode, and [1:0] are
// reserved (must be zero).
func decodeMode(modesByte byte, shift uint) seqCompressionMode {
	return seqCompressionMode((modesByte >> shift) & 3)
}

// prepareTable materializes the decode table selected for one of the
// three symbol streams, consuming from b whatever the mode requires.
func (s *sequenceDecoders) prepareTable(which int, mode seqCompressionMode, maxLog uint8, b *byteBuf) error {
	var dec *fseDecoder
	var rle *byte
	switch which {
	case 0:
		dec, rle = &s.ll, &s.llRLE
	case 1:
		dec, rle = &s.ml, &s.mlRLE
	case 2:
		dec, rle = &s.of, &s.ofRLE
	}

	switch mode {
	case seqModePredefined:
		*dec = fsePredef[which]
	case seqModeRLE:
		v, err := b.readByte()
		if err != nil {
			return err
		}
		*rle = v
		dec.symbolLen = 1
		dec.actualTableLog = 0
		dec.norm[v] = 1
	case seqModeFSECompressed:
		if err := dec.readNCount(b); err != nil {
			return err
		}
		if dec.actualTableLog > maxLog {
			return corruptionErr("fse table log %d exceeds maximum %d for this stream", dec.actualTableLog, maxLog)
		}
		if err := dec.buildDtable(); err != nil {
			return err
		}
		if err := dec.transform(symbolTableX[which]); err != nil {
			return err
		}
	case seqModeRepeat:
		if dec.symbolLen == 0 {
			return corruptionErr("repeat mode requested before any table was built")
		}
	}
	if mode == seqModePredefined {
		// fsePredef entries are already transformed; nothing else to do.
	}
	return nil
}

// decodeSequences parses the sequences section's three FSE tables (if
// any) and then walks the interleaved reverse bitstream, producing one
// sequence struct per entry. numSequences == 0 is valid and yields nil.
func decodeSequences(b *byteBuf, modesByte byte, numSequences int, s *sequenceDecoders) ([]sequence, error) {
	if numSequences == 0 {
		return nil, nil
	}
	llMode := decodeMode(modesByte, 6)
	ofMode := decodeMode(modesByte, 4)
	mlMode := decodeMode(modesByte, 2)
	if modesByte&3 != 0 {
		return nil, corruptionErr("sequences compression-modes byte has nonzero reserved bits")
	}

	if err := s.prepareTable(0, llMode, llMaxLog, b); err != nil {
		return nil, err
	}
	if err := s.prepareTable(2, ofMode, ofMaxLog, b); err != nil {
		return nil, err
	}
	if err := s.prepareTable(1, mlMode, mlMaxLog, b); err != nil {
		return nil, err
	}
	s.llMode, s.mlMode, s.ofMode = llMode, mlMode, ofMode

	rest := b.remain()
	var br bitReader
	if err := br.init(rest); err != nil {
		return nil, corruptionErr("initializing sequences bitstream: %v", err)
	}
	if err := br.skipPadding(8); err != nil {
		return nil, err
	}

	var llState, mlState, ofState fseState
	llState.init(&br, tableLogOf(s, 0), s.dt(0))
	ofState.init(&br, tableLogOf(s, 2), s.dt(2))
	mlState.init(&br, tableLogOf(s, 1), s.dt(1))

	seqs := make([]sequence, 0, numSequences)
	for i := 0; i < numSequences; i++ {
		last := i == numSequences-1

		llEntry := entryFor(s, 0, &llState)
		ofEntry := entryFor(s, 2, &ofState)
		mlEntry := entryFor(s, 1, &mlState)

		// Extra bits MUST be read in this order: offset, match length,
		// literals length.
		offsetVal := uint32(br.getBits(ofEntry.addBits)) + ofEntry.baseline
		matchVal := uint32(br.getBits(mlEntry.addBits)) + mlEntry.baseline
		litVal := uint32(br.getBits(llEntry.addBits)) + llEntry.baseline

		seqs = append(seqs, sequence{literalLen: litVal, matchLen: matchVal, offsetCode: offsetVal})

		if !last {
			if s.llMode != seqModeRLE {
				llState.next(&br)
			}
			if s.mlMode != seqModeRLE {
				mlState.next(&br)
			}
			if s.ofMode != seqModeRLE {
				ofState.next(&br)
			}
			br.fill()
		}
	}
	if !br.finished() {
		return nil, corruptionErr("sequences bitstream has %d unused bits", 64-br.bitsRead)
	}
	if err := br.close(); err != nil {
		return nil, corruptionErr("sequences bitstream overread: %v", err)
	}
	return seqs, nil
}

func tableLogOf(s *sequenceDecoders, which int) uint8 {
	switch which {
	case 0:
		return s.ll.actualTableLog
	case 1:
		return s.ml.actualTableLog
	default:
		return s.of.actualTableLog
	}
}

func (s *sequenceDecoders) dt(which int) []decSymbol {
	switch which {
	case 0:
		return s.ll.dt[:1<<s.ll.actualTableLog]
	case 1:
		return s.ml.dt[:1<<s.ml.actualTableLog]
	default:
		return s.of.dt[:1<<s.of.actualTableLog]
	}
}

// entryFor returns the decode-table entry for the current state of an
// RLE-mode stream (which never advances) or a real FSE stream.
func entryFor(s *sequenceDecoders, which int, st *fseState) decSymbol {
	mode := s.llMode
	rle := s.llRLE
	table := symbolTableX[0]
	if which == 1 {
		mode, rle, table = s.mlMode, s.mlRLE, symbolTableX[1]
	} else if which == 2 {
		mode, rle, table = s.ofMode, s.ofRLE, symbolTableX[2]
	}
	if mode == seqModeRLE {
		return decSymbol{symbol: rle, baseline: table[rle].baseLine, addBits: table[rle].addBits}
	}
	return st.dt[st.state&maxTableMask]
}
