package zstd

type blockType uint8

const (
	blockTypeRaw blockType = iota
	blockTypeRLE
	blockTypeCompressed
	blockTypeReserved

	// maxCompressedBlockSize is the largest compressed block payload zstd
	// allows (128KB).
	maxCompressedBlockSize = 128 << 10

	// maxBlockSize is the largest a block may decompress to.
	maxBlockSize = (1 << 21) - 1
)

// blockHeader is the 3-byte header in front of every block.
type blockHeader struct {
	last bool
	typ  blockType
	size int // RLE byte count, or compressed/raw payload length
}

func parseBlockHeaderBytes(raw [3]byte) blockHeader {
	bh := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16
	return blockHeader{
		last: bh&1 != 0,
		typ:  blockType((bh >> 1) & 3),
		size: int(bh >> 3),
	}
}

func readBlockHeader(b *byteBuf) (blockHeader, error) {
	raw, err := b.readN(3)
	if err != nil {
		return blockHeader{}, err
	}
	h := parseBlockHeaderBytes([3]byte{raw[0], raw[1], raw[2]})
	if h.typ == blockTypeReserved {
		return h, corruptionErr("reserved block type encountered")
	}
	return h, nil
}

// decodeBlock reads one block from b (frame-relative byte cursor),
// decodes it against the frame's window and history, and appends the
// produced bytes to out.
func decodeBlock(b *byteBuf, h blockHeader, hist *history, out *decodeBuffer, windowSize uint64) error {
	switch h.typ {
	case blockTypeRaw:
		payload, err := b.readN(h.size)
		if err != nil {
			return err
		}
		out.push(payload)
		return nil

	case blockTypeRLE:
		payload, err := b.readN(1)
		if err != nil {
			return err
		}
		buf := make([]byte, h.size)
		for i := range buf {
			buf[i] = payload[0]
		}
		out.push(buf)
		return nil

	case blockTypeCompressed:
		if h.size > maxCompressedBlockSize || uint64(h.size) > windowSize+maxBlockSize {
			return corruptionErr("compressed block size %d too big for window", h.size)
		}
		payload, err := b.readN(h.size)
		if err != nil {
			return err
		}
		var inner byteBuf = payload
		literals, err := decodeLiteralsSection(&inner, hist)
		if err != nil {
			return err
		}
		numSeqs, modes, err := parseSequencesHeader(&inner)
		if err != nil {
			return err
		}
		seqs, err := decodeSequences(&inner, modes, numSeqs, &hist.seq)
		if err != nil {
			return err
		}
		return executeSequences(out, literals, seqs, &hist.recent)

	default:
		return corruptionErr("reserved block type encountered")
	}
}
