package zstd

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// ErrDecoderClosed is returned if the Decoder is used after Close.
var ErrDecoderClosed = errors.New("decoder used after Close")

// Decoder decodes a zstandard stream synchronously: it never starts a
// goroutine and every call blocks until it has produced or consumed the
// bytes it promised.
type Decoder struct {
	o     decoderOptions
	frame *frameDecoder
	buf   *decodeBuffer
	br    *bufio.Reader

	pending []byte
	err     error
}

// NewDecoder creates a Decoder ready to read from r. r may be nil, in
// which case Reset must be called before the first Read.
func NewDecoder(r io.Reader, opts ...DOption) (*Decoder, error) {
	var o decoderOptions
	o.setDefault()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	d := &Decoder{o: o, frame: newFrameDecoder(o)}
	if r != nil {
		if err := d.Reset(r); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Reset discards any buffered state and starts reading from r.
func (d *Decoder) Reset(r io.Reader) error {
	if d.err == ErrDecoderClosed {
		return d.err
	}
	if br, ok := r.(*bufio.Reader); ok {
		d.br = br
	} else if d.o.lowMem {
		d.br = bufio.NewReader(r)
	} else {
		d.br = bufio.NewReaderSize(r, maxCompressedBlockSize)
	}
	d.pending = d.pending[:0]
	d.err = nil
	return nil
}

// Read implements io.Reader, decoding one frame at a time internally and
// handing out bytes as they become available. Concatenated frames are
// decoded back to back, matching the zstd CLI's behavior for multi-frame
// streams.
func (d *Decoder) Read(p []byte) (int, error) {
	for len(d.pending) == 0 {
		if d.err != nil {
			return 0, d.err
		}
		if err := d.nextFrame(); err != nil {
			d.err = err
			return 0, err
		}
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *Decoder) nextFrame() error {
	if err := d.frame.readHeader(d.br); err != nil {
		return err
	}
	if d.buf == nil {
		d.buf = newDecodeBuffer(int(d.frame.windowSize))
	} else {
		d.buf.reset(int(d.frame.windowSize))
	}
	out, err := d.frame.decode(d.br, d.buf, nil)
	if err != nil {
		return err
	}
	if err := d.frame.checkChecksum(d.br); err != nil {
		return err
	}
	d.pending = out
	return nil
}

// WriteTo decodes everything remaining in the stream to w.
func (d *Decoder) WriteTo(w io.Writer) (int64, error) {
	var n int64
	buf := make([]byte, 64<<10)
	for {
		rn, err := d.Read(buf)
		if rn > 0 {
			wn, werr := w.Write(buf[:rn])
			n += int64(wn)
			if werr != nil {
				return n, sinkErr(werr)
			}
		}
		if err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
	}
}

// DecodeAll decodes the entirety of input, which may contain one or more
// concatenated frames, appending the result to dst.
func (d *Decoder) DecodeAll(input, dst []byte) ([]byte, error) {
	if d.err == ErrDecoderClosed {
		return dst, d.err
	}
	br := bufio.NewReaderSize(bytes.NewReader(input), maxCompressedBlockSize)
	f := newFrameDecoder(d.o)
	if cap(dst)-len(dst) == 0 {
		dst = append(dst, make([]byte, 0, len(input))...)[:len(dst)]
	}
	var buf *decodeBuffer
	for {
		err := f.readHeader(br)
		if err == io.EOF {
			return dst, nil
		}
		if err != nil {
			return dst, err
		}
		if d.o.maxDecodedSize > 0 && f.haveContentSize && f.frameContentSize > d.o.maxDecodedSize {
			return dst, unsupportedErr("frame content size %d exceeds configured limit of %d bytes", f.frameContentSize, d.o.maxDecodedSize)
		}
		if buf == nil {
			buf = newDecodeBuffer(int(f.windowSize))
		} else {
			buf.reset(int(f.windowSize))
		}
		dst, err = f.decode(br, buf, dst)
		if err != nil {
			return dst, err
		}
		if err := f.checkChecksum(br); err != nil {
			return dst, err
		}
		if d.o.maxDecodedSize > 0 && uint64(len(dst)) > d.o.maxDecodedSize {
			return dst, unsupportedErr("decoded size exceeds configured limit of %d bytes", d.o.maxDecodedSize)
		}
	}
}

// Close releases the Decoder. It is not usable afterwards.
func (d *Decoder) Close() error {
	if d.err == ErrDecoderClosed {
		return d.err
	}
	d.err = ErrDecoderClosed
	d.br = nil
	d.pending = nil
	return nil
}
