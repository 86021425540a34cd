package bitio

import (
	"bytes"
	"testing"
)

func TestWriteReadBitsRoundTrip(t *testing.T) {
	widths := []uint{1, 3, 7, 8, 13, 21, 32}
	vals := []uint64{0, 1, 5, 127, 255, 1 << 20, (1 << 21) - 1}

	w := NewWriter()
	for i, nb := range widths {
		w.WriteBits(vals[i]&((1<<nb)-1), nb)
	}
	w.Flush()

	r := NewReader(w.Bytes())
	for i, nb := range widths {
		got := r.PeekBits(nb)
		r.Advance(nb)
		want := vals[i] & ((1 << nb) - 1)
		if got != want {
			t.Fatalf("field %d: got %d, want %d", i, got, want)
		}
	}
}

func TestWriteRawAfterFlush(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x5, 3)
	w.Flush()
	w.WriteRaw([]byte{0xAA, 0xBB})

	want := []byte{0x05, 0xAA, 0xBB}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got %x, want %x", w.Bytes(), want)
	}
}

func TestFlushToDrainsOnlyCompleteBytes(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0xFF, 8)
	w.WriteBits(0x3, 3) // partial second byte, 3 bits pending

	var out bytes.Buffer
	if err := w.FlushTo(&out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), []byte{0xFF}) {
		t.Fatalf("got %x, want a single complete byte", out.Bytes())
	}
	if len(w.Bytes()) != 0 {
		t.Fatalf("FlushTo left %d drained bytes behind", len(w.Bytes()))
	}

	w.Flush()
	if err := w.FlushTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 2 {
		t.Fatalf("after final Flush, got %d bytes, want 2", out.Len())
	}
}

func TestAlignByteAndReadRaw(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x1, 1)
	w.Flush()
	w.WriteRaw([]byte{0x11, 0x22, 0x33})

	r := NewReader(w.Bytes())
	r.Advance(1)
	r.AlignByte()
	if r.Pos != 1 || r.Bit != 0 {
		t.Fatalf("AlignByte left cursor at (%d,%d), want (1,0)", r.Pos, r.Bit)
	}
	raw := r.ReadRaw(3)
	if !bytes.Equal(raw, []byte{0x11, 0x22, 0x33}) {
		t.Fatalf("got %x", raw)
	}
	if r.HasNext() {
		t.Fatal("HasNext true after reading every byte")
	}
}

func TestPeekBitsZeroPadsPastEnd(t *testing.T) {
	r := NewReader([]byte{0xFF})
	r.Advance(4)
	got := r.PeekBits(8)
	if got != 0x0F {
		t.Fatalf("got %#x, want 0x0f (top 4 bits zero-padded)", got)
	}
}
