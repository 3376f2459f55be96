package zstd

// decodeBuffer is the sliding window backing a single frame's output: a
// ring buffer sized to the frame's window, plus counters tracking how
// much has ever been produced and how much of that has been drained to
// the caller's Sink.
type decodeBuffer struct {
	ring       *ringBuffer
	windowSize int
	totalOut   uint64
	drained    uint64
}

func newDecodeBuffer(windowSize int) *decodeBuffer {
	capNeeded := windowSize + maxBlockSize
	if capNeeded < 1024 {
		capNeeded = 1024
	}
	return &decodeBuffer{
		ring:       newRingBuffer(capNeeded),
		windowSize: windowSize,
	}
}

func (d *decodeBuffer) reset(windowSize int) {
	d.windowSize = windowSize
	need := windowSize + maxBlockSize
	if need < 1024 {
		need = 1024
	}
	if d.ring == nil || d.ring.capacity() < need {
		d.ring = newRingBuffer(need)
	} else {
		d.ring.head = 0
		d.ring.tail = 0
	}
	d.totalOut = 0
	d.drained = 0
}

// push appends literal bytes produced verbatim (not via a match copy).
func (d *decodeBuffer) push(b []byte) {
	d.ring.push(b)
	d.totalOut += uint64(len(b))
	d.trimToWindow()
}

// repeat executes a sequence match: copy length bytes starting offset
// bytes back from the current write position. offset may be smaller than
// length, in which case the copy self-overlaps and reproduces a
// run of the trailing bytes (see ringBuffer.extendFromWithin).
func (d *decodeBuffer) repeat(offset uint32, length uint32) error {
	if uint64(offset) > uint64(d.windowSize) {
		return corruptionErr("match offset %d exceeds window size (%d bytes)", offset, d.windowSize)
	}
	if uint64(offset) > uint64(d.ring.len()) {
		return corruptionErr("match offset %d exceeds available history (%d bytes)", offset, d.ring.len())
	}
	d.ring.extendFromWithin(uint64(offset), int(length))
	d.totalOut += uint64(length)
	d.trimToWindow()
	return nil
}

// trimToWindow drops bytes that have fallen out of the window and have
// already been handed to the Sink, bounding memory use for long streams.
func (d *decodeBuffer) trimToWindow() {
	live := d.ring.len()
	maxLive := d.windowSize + maxBlockSize
	if live <= maxLive {
		return
	}
	excess := live - maxLive
	undrained := d.ring.len() - int(d.totalOut-d.drained)
	if excess > undrained {
		// never drop bytes the caller hasn't seen yet.
		excess = undrained
	}
	if excess > 0 {
		d.ring.dropFirst(excess)
	}
}

// drainAll moves every byte produced so far that hasn't yet been handed
// to the Sink into dst, in order, and marks it drained.
func (d *decodeBuffer) drainAll(dst []byte) []byte {
	pending := int(d.totalOut - d.drained)
	if pending <= 0 {
		return dst
	}
	n := d.ring.len()
	start := n - pending
	if start < 0 {
		start = 0
	}
	for i := start; i < n; i++ {
		dst = append(dst, d.ring.get(uint64(i)))
	}
	d.drained = d.totalOut
	return dst
}
