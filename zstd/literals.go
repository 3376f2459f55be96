package zstd

import (
	"github.com/tinyzstd/tinyzstd/huff0"
)

type literalsBlockType uint8

const (
	literalsBlockRaw literalsBlockType = iota
	literalsBlockRLE
	literalsBlockCompressed
	literalsBlockTreeless
)

// decodeLiteralsSection parses the literals section at the front of b and
// returns the decoded literal byte stream, leaving b positioned at the
// start of the sequences section. h carries the Huffman table across
// blocks within a frame, since a Treeless section reuses whichever table
// the most recent Compressed section in the frame built.
func decodeLiteralsSection(b *byteBuf, h *history) ([]byte, error) {
	first, err := b.readByte()
	if err != nil {
		return nil, err
	}
	blockType := literalsBlockType(first & 3)
	sizeFormat := (first >> 2) & 3

	switch blockType {
	case literalsBlockRaw, literalsBlockRLE:
		var regenSize int
		switch sizeFormat {
		case 0, 2:
			regenSize = int(first >> 3)
		case 1:
			b1, err := b.readByte()
			if err != nil {
				return nil, err
			}
			regenSize = int(first>>4) | int(b1)<<4
		case 3:
			rest, err := b.readN(2)
			if err != nil {
				return nil, err
			}
			regenSize = int(first>>4) | int(rest[0])<<4 | int(rest[1])<<12
		}
		if regenSize > maxBlockSize {
			return nil, corruptionErr("literals regenerated size %d exceeds maximum block size", regenSize)
		}
		if blockType == literalsBlockRaw {
			return b.readN(regenSize)
		}
		rleByte, err := b.readByte()
		if err != nil {
			return nil, err
		}
		out := make([]byte, regenSize)
		for i := range out {
			out[i] = rleByte
		}
		return out, nil

	case literalsBlockCompressed, literalsBlockTreeless:
		var regenSize, compSize int
		var fourStreams bool
		switch sizeFormat {
		case 0:
			rest, err := b.readN(2)
			if err != nil {
				return nil, err
			}
			regenSize = int(first>>4) | int(rest[0]&0x3f)<<4
			compSize = int(rest[0]>>6) | int(rest[1])<<2
			fourStreams = false
		case 1:
			rest, err := b.readN(2)
			if err != nil {
				return nil, err
			}
			regenSize = int(first>>4) | int(rest[0]&0x3f)<<4
			compSize = int(rest[0]>>6) | int(rest[1])<<2
			fourStreams = true
		case 2:
			rest, err := b.readN(3)
			if err != nil {
				return nil, err
			}
			regenSize = int(first>>4) | int(rest[0])<<4 | int(rest[1]&3)<<12
			compSize = int(rest[1]>>2) | int(rest[2])<<6
			fourStreams = true
		case 3:
			rest, err := b.readN(4)
			if err != nil {
				return nil, err
			}
			regenSize = int(first>>4) | int(rest[0])<<4 | int(rest[1]&0x3f)<<12
			compSize = int(rest[1]>>6) | int(rest[2])<<2 | int(rest[3])<<10
			fourStreams = true
		}
		if regenSize > maxBlockSize {
			return nil, corruptionErr("literals regenerated size %d exceeds maximum block size", regenSize)
		}
		if compSize > maxBlockSize {
			return nil, corruptionErr("literals compressed size %d exceeds maximum block size", compSize)
		}
		payload, err := b.readN(compSize)
		if err != nil {
			return nil, err
		}

		if blockType == literalsBlockCompressed {
			s, remain, err := huff0.ReadTable(payload, &h.huff)
			if err != nil {
				return nil, corruptionErr("decoding literals huffman table: %v", err)
			}
			h.huff = *s
			h.huffSet = true
			payload = remain
		} else if !h.huffSet {
			return nil, corruptionErr("treeless literals section with no huffman table carried over")
		}

		h.huff.MaxDecodedSize = regenSize
		h.huff.Out = nil
		var out []byte
		if fourStreams {
			out, err = h.huff.Decompress4X(payload, regenSize)
		} else {
			out, err = h.huff.Decompress1X(payload)
		}
		if err != nil {
			return nil, corruptionErr("decoding huffman-coded literals: %v", err)
		}
		return out, nil
	}
	return nil, corruptionErr("unknown literals block type %d", blockType)
}
