package classfile

import (
	"bytes"
	"testing"
)

func TestReaderBasicFields(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0xCA, 0xFE, 0xBA, 0xBE}
	r := NewReader(bytes.NewReader(raw))

	if got := r.U1(); got != 0x01 {
		t.Fatalf("U1() = %#x, want 0x01", got)
	}
	if got := r.U2(); got != 0x0203 {
		t.Fatalf("U2() = %#x, want 0x0203", got)
	}
	if got := r.U4(); got != 0xCAFEBABE {
		t.Fatalf("U4() = %#x, want 0xCAFEBABE", got)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestReaderStickyError(t *testing.T) {
	raw := []byte{0x01}
	r := NewReader(bytes.NewReader(raw))

	r.U1() // consumes the only byte
	r.U4() // past end of stream
	if r.Err() == nil {
		t.Fatal("Err(): want error after reading past end of stream")
	}

	// Further reads must not panic and must preserve the first error.
	first := r.Err()
	r.U2()
	if r.Err() != first {
		t.Fatalf("Err() changed after sticky error: got %v, want %v", r.Err(), first)
	}
}

func TestReaderSeekSkipsAttributeBytes(t *testing.T) {
	raw := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	r := NewReader(bytes.NewReader(raw))

	r.U1() // 0xAA
	pos, err := r.Tell()
	if err != nil {
		t.Fatalf("Tell: %v", err)
	}
	r.Seek(pos + 2) // skip 0xBB, 0xCC
	if got := r.U1(); got != 0xDD {
		t.Fatalf("U1() after Seek = %#x, want 0xDD", got)
	}
}
