package zstd

import "github.com/tinyzstd/tinyzstd/huff0"

// history is the scratch state a single frame's blocks share: the
// repeat-offset table, the three sequence FSE decoders (reused whenever
// a block's compression mode is Repeat), and the Huffman table built by
// the last Compressed literals section (reused by any later Treeless
// section in the same frame).
type history struct {
	recent  recentOffsets
	seq     sequenceDecoders
	huff    huff0.Scratch
	huffSet bool
}

func (h *history) reset() {
	h.recent.reset()
	h.seq = sequenceDecoders{}
	h.huff = huff0.Scratch{}
	h.huffSet = false
}
