package zstd

import (
	"bufio"
	"bytes"
	"hash"
	"io"

	"github.com/cespare/xxhash"
)

const minWindowSize = 1 << 10

var (
	frameMagic          = []byte{0x28, 0xb5, 0x2f, 0xfd}
	skippableFrameMagic = []byte{0x18, 0x4d, 0x2a}
)

// frameDecoder drives one zstd frame to completion: header, then blocks in
// order, then (if present) the trailing checksum. It owns the history that
// its blocks share; the decodeBuffer their output accumulates into is
// supplied by the caller of decode.
type frameDecoder struct {
	o decoderOptions

	windowSize       uint64
	dictionaryID     uint32
	frameContentSize uint64
	haveContentSize  bool
	hasCheckSum      bool
	singleSegment    bool

	crc  hash.Hash64
	hist history
	tmp  [8]byte
}

func newFrameDecoder(o decoderOptions) *frameDecoder {
	return &frameDecoder{o: o}
}

// readHeader consumes magic numbers (skipping any skippable frames first)
// and the frame header, returning io.EOF if br has nothing left to read.
func (d *frameDecoder) readHeader(br *bufio.Reader) error {
	d.hasCheckSum = false
	d.windowSize = 0
	d.haveContentSize = false

	for {
		_, err := io.ReadFull(br, d.tmp[:4])
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return truncatedErr("reading frame magic: %v", err)
			}
			return err
		}
		if !bytes.Equal(d.tmp[:3], skippableFrameMagic) || d.tmp[3]&0xf0 != 0x50 {
			break
		}
		if _, err := io.ReadFull(br, d.tmp[:4]); err != nil {
			return truncatedErr("reading skippable frame size: %v", err)
		}
		n := uint32(d.tmp[0]) | uint32(d.tmp[1])<<8 | uint32(d.tmp[2])<<16 | uint32(d.tmp[3])<<24
		if _, err := io.CopyN(io.Discard, br, int64(n)); err != nil {
			return truncatedErr("discarding skippable frame: %v", err)
		}
	}
	if !bytes.Equal(d.tmp[:4], frameMagic) {
		return corruptionErr("frame magic mismatch, got %x", d.tmp[:4])
	}

	fhd, err := br.ReadByte()
	if err != nil {
		return truncatedErr("reading frame header descriptor: %v", err)
	}
	d.singleSegment = fhd&(1<<5) != 0

	d.windowSize = 0
	if !d.singleSegment {
		wd, err := br.ReadByte()
		if err != nil {
			return truncatedErr("reading window descriptor: %v", err)
		}
		windowLog := 10 + (wd >> 3)
		windowBase := uint64(1) << windowLog
		windowAdd := (windowBase / 8) * uint64(wd&0x7)
		d.windowSize = windowBase + windowAdd
	}

	d.dictionaryID = 0
	if size := fhd & 3; size != 0 {
		if size == 3 {
			size = 4
		}
		if _, err := io.ReadFull(br, d.tmp[:size]); err != nil {
			return truncatedErr("reading dictionary id: %v", err)
		}
		switch size {
		case 1:
			d.dictionaryID = uint32(d.tmp[0])
		case 2:
			d.dictionaryID = uint32(d.tmp[0]) | uint32(d.tmp[1])<<8
		case 4:
			d.dictionaryID = uint32(d.tmp[0]) | uint32(d.tmp[1])<<8 | uint32(d.tmp[2])<<16 | uint32(d.tmp[3])<<24
		}
		if d.dictionaryID != 0 {
			return unsupportedErr("dictionary id %d not supported", d.dictionaryID)
		}
	}

	var fcsSize int
	switch v := fhd >> 6; v {
	case 0:
		if d.singleSegment {
			fcsSize = 1
		}
	default:
		fcsSize = 1 << v
	}
	d.frameContentSize = 0
	d.haveContentSize = fcsSize > 0
	if fcsSize > 0 {
		if _, err := io.ReadFull(br, d.tmp[:fcsSize]); err != nil {
			return truncatedErr("reading frame content size: %v", err)
		}
		switch fcsSize {
		case 1:
			d.frameContentSize = uint64(d.tmp[0])
		case 2:
			d.frameContentSize = uint64(d.tmp[0]) | uint64(d.tmp[1])<<8 + 256
		case 4:
			d.frameContentSize = uint64(d.tmp[0]) | uint64(d.tmp[1])<<8 | uint64(d.tmp[2])<<16 | uint64(d.tmp[3])<<24
		case 8:
			lo := uint64(d.tmp[0]) | uint64(d.tmp[1])<<8 | uint64(d.tmp[2])<<16 | uint64(d.tmp[3])<<24
			hi := uint64(d.tmp[4]) | uint64(d.tmp[5])<<8 | uint64(d.tmp[6])<<16 | uint64(d.tmp[7])<<24
			d.frameContentSize = lo | hi<<32
		}
	}

	d.hasCheckSum = fhd&(1<<2) != 0
	if d.o.rejectReservedBits && fhd&(1<<3) != 0 {
		return unsupportedErr("reserved frame header bit set")
	}
	if d.hasCheckSum {
		if d.crc == nil {
			d.crc = xxhash.New()
		}
		d.crc.Reset()
	}

	if d.windowSize == 0 && d.singleSegment {
		d.windowSize = d.frameContentSize
		if d.windowSize < minWindowSize {
			d.windowSize = minWindowSize
		}
	}
	if d.windowSize > d.o.maxWindowSize {
		return unsupportedErr("window size %d exceeds configured maximum %d", d.windowSize, d.o.maxWindowSize)
	}
	if d.windowSize < minWindowSize {
		return corruptionErr("window size %d below minimum %d", d.windowSize, minWindowSize)
	}

	d.hist.reset()
	return nil
}

// decode reads every block of the frame (whose header has already been
// consumed by readHeader), appending newly produced bytes to dst as it
// goes so the checksum (if any) sees exactly the bytes the caller does.
func (d *frameDecoder) decode(br *bufio.Reader, out *decodeBuffer, dst []byte) ([]byte, error) {
	var hdr [3]byte
	for {
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			return dst, truncatedErr("reading block header: %v", err)
		}
		h := parseBlockHeaderBytes(hdr)
		if h.typ == blockTypeReserved {
			return dst, corruptionErr("reserved block type encountered")
		}
		if h.typ == blockTypeCompressed && (h.size > maxCompressedBlockSize || uint64(h.size) > d.windowSize+maxBlockSize) {
			return dst, corruptionErr("compressed block size %d too big", h.size)
		}

		readSize := h.size
		if h.typ == blockTypeRLE {
			readSize = 1
		}
		payload := make([]byte, readSize)
		if _, err := io.ReadFull(br, payload); err != nil {
			return dst, truncatedErr("reading block payload: %v", err)
		}

		var pb byteBuf = payload
		if err := decodeBlock(&pb, h, &d.hist, out, d.windowSize); err != nil {
			return dst, err
		}

		before := len(dst)
		dst = out.drainAll(dst)
		if d.hasCheckSum && d.o.verifyChecksum {
			if _, err := d.crc.Write(dst[before:]); err != nil {
				return dst, sinkErr(err)
			}
		}

		if h.last {
			return dst, nil
		}
	}
}

func (d *frameDecoder) checkChecksum(br *bufio.Reader) error {
	if !d.hasCheckSum {
		return nil
	}
	var want [4]byte
	if _, err := io.ReadFull(br, want[:]); err != nil {
		return truncatedErr("reading checksum trailer: %v", err)
	}
	if !d.o.verifyChecksum {
		return nil
	}
	got := d.crc.Sum(nil)
	// xxh64 stores the digest's low 32 bits, little-endian.
	if got[7] != want[0] || got[6] != want[1] || got[5] != want[2] || got[4] != want[3] {
		return checksumErr("frame checksum mismatch")
	}
	return nil
}
