package zstd

import "testing"

func TestDecodeBufferPushAndDrainAll(t *testing.T) {
	d := newDecodeBuffer(1024)
	d.push([]byte("hello "))
	d.push([]byte("world"))
	out := d.drainAll(nil)
	if string(out) != "hello world" {
		t.Fatalf("drainAll = %q, want %q", out, "hello world")
	}
	// a second drain with nothing new produced must yield nothing more.
	if out2 := d.drainAll(nil); len(out2) != 0 {
		t.Fatalf("second drainAll = %q, want empty", out2)
	}
}

func TestDecodeBufferRepeatSelfOverlap(t *testing.T) {
	d := newDecodeBuffer(1024)
	d.push([]byte("a"))
	if err := d.repeat(1, 5); err != nil {
		t.Fatalf("repeat: %v", err)
	}
	out := d.drainAll(nil)
	if string(out) != "aaaaaa" {
		t.Fatalf("drainAll = %q, want %q", out, "aaaaaa")
	}
}

func TestDecodeBufferRepeatRejectsOffsetBeyondHistory(t *testing.T) {
	d := newDecodeBuffer(1024)
	d.push([]byte("ab"))
	if err := d.repeat(3, 2); err == nil {
		t.Fatal("expected error for offset beyond available history")
	}
}

// trimToWindow deliberately keeps up to windowSize+maxBlockSize live bytes
// so a block in progress never loses its own history mid-block. That means
// ring.len() can legitimately exceed windowSize by nearly maxBlockSize, and
// repeat must reject an offset that fits within the live ring but reaches
// past the frame's actual window, not just past the ring's current content.
func TestDecodeBufferRepeatRejectsOffsetBeyondWindowSize(t *testing.T) {
	const windowSize = 16
	d := newDecodeBuffer(windowSize)
	undrained := make([]byte, 1000)
	d.push(undrained)
	if d.ring.len() <= windowSize {
		t.Fatalf("ring.len() = %d, want > windowSize (%d) for this test to be meaningful", d.ring.len(), windowSize)
	}
	offset := uint32(500) // within ring.len() (1000) but beyond windowSize (16)
	if err := d.repeat(offset, 2); err == nil {
		t.Fatal("expected error for offset beyond the frame's window size, even though it is within the live ring")
	}
}

func TestDecodeBufferResetReusesRingWhenBigEnough(t *testing.T) {
	d := newDecodeBuffer(1 << 20)
	ring := d.ring
	d.push([]byte("xyz"))
	d.reset(1024)
	if d.ring != ring {
		t.Fatal("reset should reuse the existing ring when it's already big enough")
	}
	if d.ring.len() != 0 {
		t.Fatalf("ring.len() after reset = %d, want 0", d.ring.len())
	}
	if d.totalOut != 0 || d.drained != 0 {
		t.Fatalf("counters not reset: totalOut=%d drained=%d", d.totalOut, d.drained)
	}
}

func TestDecodeBufferTrimToWindowKeepsUndrainedBytes(t *testing.T) {
	d := newDecodeBuffer(4)
	big := make([]byte, maxBlockSize*3)
	for i := range big {
		big[i] = byte(i)
	}
	d.push(big)
	out := d.drainAll(nil)
	if len(out) != len(big) {
		t.Fatalf("drainAll returned %d bytes, want %d", len(out), len(big))
	}
	for i := range out {
		if out[i] != big[i] {
			t.Fatalf("byte %d = %d, want %d", i, out[i], big[i])
		}
	}
}
