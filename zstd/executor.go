package zstd

// recentOffsets is the 3-entry repeat-offset history a frame carries
// across all of its blocks, seeded to {1,4,8} at the start of the frame
// and updated by every sequence that uses it.
type recentOffsets struct {
	v [3]uint32
}

func (r *recentOffsets) reset() {
	r.v = [3]uint32{1, 4, 8}
}

// resolve turns a sequence's wire-format offset code into an actual byte
// distance, updating the repeat-offset history as it goes. offsetCode
// values above 3 are explicit new offsets (offsetCode-3); 1, 2 and 3
// select one of the three most recently used offsets, with the special
// case that a literalsLength of zero bumps the selected index by one
// since "repeat the last offset with no literals in between" would
// otherwise be a no-op matching the previous sequence's match.
func (r *recentOffsets) resolve(offsetCode uint32, literalsLength uint32) (uint32, error) {
	if offsetCode > 3 {
		offset := offsetCode - 3
		r.v[2] = r.v[1]
		r.v[1] = r.v[0]
		r.v[0] = offset
		return offset, nil
	}

	idx := offsetCode
	if literalsLength == 0 {
		idx++
	}

	var offset uint32
	switch idx {
	case 1:
		offset = r.v[0]
	case 2:
		offset = r.v[1]
		r.v[1] = r.v[0]
		r.v[0] = offset
	case 3:
		offset = r.v[2]
		r.v[2] = r.v[1]
		r.v[1] = r.v[0]
		r.v[0] = offset
	case 4:
		if r.v[0] == 0 {
			return 0, corruptionErr("repeat-offset underflow: Repeated_Offset1 is already zero")
		}
		offset = r.v[0] - 1
		r.v[2] = r.v[1]
		r.v[1] = r.v[0]
		r.v[0] = offset
	default:
		return 0, corruptionErr("impossible repeat-offset index %d", idx)
	}
	if offset == 0 {
		return 0, corruptionErr("resolved sequence offset is zero")
	}
	return offset, nil
}

// executeSequences walks the decoded sequence list, copying literals
// verbatim and expanding matches against buf's sliding window, then
// flushes any literals left over after the last sequence (zstd allows
// trailing literal bytes with no match following them).
func executeSequences(buf *decodeBuffer, literals []byte, seqs []sequence, rep *recentOffsets) error {
	litPos := 0
	for i, seq := range seqs {
		if uint64(litPos)+uint64(seq.literalLen) > uint64(len(literals)) {
			return corruptionErr("sequence %d wants %d literal bytes, only %d remain", i, seq.literalLen, len(literals)-litPos)
		}
		if seq.literalLen > 0 {
			buf.push(literals[litPos : litPos+int(seq.literalLen)])
			litPos += int(seq.literalLen)
		}

		offset, err := rep.resolve(seq.offsetCode, seq.literalLen)
		if err != nil {
			return err
		}
		if seq.matchLen > 0 {
			if err := buf.repeat(offset, seq.matchLen); err != nil {
				return err
			}
		}
	}
	if litPos < len(literals) {
		buf.push(literals[litPos:])
	}
	return nil
}
