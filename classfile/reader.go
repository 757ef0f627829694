// Package classfile decodes the big-endian .class container TeenyJVM
// accepts into an in-memory constant pool and method table.
package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader consumes big-endian u1/u2/u4 fields from a byte source, tracking
// a read cursor so attribute parsing can skip unknown attributes by length.
//
// Errors are sticky: once a read fails every subsequent read is a no-op
// that returns the same error, so callers building up a multi-field struct
// don't need to check err after every single field (the shape is borrowed
// from the pack's zserge/tojvm loader). The final error is still surfaced
// explicitly through Err, never panicked.
type Reader struct {
	r   io.ReadSeeker
	err error
}

// NewReader wraps r for big-endian structured reads.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered by any read on this Reader.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) bytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = fmt.Errorf("reached end of class file prematurely: %w", err)
	}
	return buf
}

// U1 reads one unsigned byte.
func (r *Reader) U1() uint8 {
	return r.bytes(1)[0]
}

// U2 reads a big-endian 16-bit unsigned value.
func (r *Reader) U2() uint16 {
	return binary.BigEndian.Uint16(r.bytes(2))
}

// U4 reads a big-endian 32-bit unsigned value.
func (r *Reader) U4() uint32 {
	return binary.BigEndian.Uint32(r.bytes(4))
}

// Bytes reads n raw bytes verbatim.
func (r *Reader) Bytes(n int) []byte {
	return r.bytes(n)
}

// Tell returns the current cursor offset from the start of the stream.
func (r *Reader) Tell() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.r.Seek(0, io.SeekCurrent)
}

// Seek repositions the cursor to an absolute offset from the start of the
// stream, used to skip past attributes whose declared length we don't
// otherwise need to parse.
func (r *Reader) Seek(offset int64) {
	if r.err != nil {
		return
	}
	if _, err := r.r.Seek(offset, io.SeekStart); err != nil {
		r.err = fmt.Errorf("seeking class file: %w", err)
	}
}
