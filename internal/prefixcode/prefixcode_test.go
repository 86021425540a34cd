package prefixcode

import (
	"testing"

	"github.com/dwerner/segcodec/internal/bitio"
)

func buildRoundTrip(t *testing.T, uses []uint64) ([]*Leaf, *Table) {
	t.Helper()
	leaves := make([]*Leaf, len(uses))
	for i, u := range uses {
		leaves[i] = NewLeaf(uint64(i), u, uint64(i))
	}
	ordered := Build(leaves)
	if err := AssignCanonicalCodes(ordered); err != nil {
		t.Fatalf("AssignCanonicalCodes: %v", err)
	}
	tbl, err := BuildTable(ordered)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	return ordered, tbl
}

func TestCanonicalRoundTrip(t *testing.T) {
	uses := []uint64{1, 1, 2, 5, 20, 0, 0, 3}
	ordered, tbl := buildRoundTrip(t, uses)

	w := bitio.NewWriter()
	for _, lf := range ordered {
		w.WriteBits(lf.Code, uint(lf.Depth))
	}
	w.Flush()

	r := bitio.NewReader(w.Bytes())
	for _, lf := range ordered {
		got := tbl.Decode(r)
		if got != lf.Sym {
			t.Fatalf("decoded sym %d, want %d", got, lf.Sym)
		}
	}
}

func TestSingleLeafGetsOneBitCode(t *testing.T) {
	ordered, tbl := buildRoundTrip(t, []uint64{42})
	if ordered[0].Depth != 1 {
		t.Fatalf("depth %d, want 1", ordered[0].Depth)
	}
	w := bitio.NewWriter()
	w.WriteBits(ordered[0].Code, 1)
	w.Flush()
	r := bitio.NewReader(w.Bytes())
	if got := tbl.Decode(r); got != ordered[0].Sym {
		t.Fatalf("got %d, want %d", got, ordered[0].Sym)
	}
}

func TestEmptyLeafSetDecodesNothing(t *testing.T) {
	ordered := Build(nil)
	if len(ordered) != 0 {
		t.Fatalf("expected no leaves, got %d", len(ordered))
	}
	if err := AssignCanonicalCodes(nil); err != nil {
		t.Fatalf("AssignCanonicalCodes(nil): %v", err)
	}
	tbl, err := BuildTable(nil)
	if err != nil {
		t.Fatalf("BuildTable(nil): %v", err)
	}
	if tbl.bits != 0 || len(tbl.entries) != 0 {
		t.Fatalf("expected a zero-value table for an empty alphabet")
	}
}

func TestDecodeUnknownCodePanics(t *testing.T) {
	// A hand-built table with an unassigned slot: any stream that peeks
	// into it has no corresponding leaf.
	tbl := &Table{bits: 1, entries: []tableEntry{{depth: 0}, {value: 7, depth: 1}}}

	defer func() {
		if recover() != ErrUnknownCode {
			t.Fatal("expected a panic of ErrUnknownCode for an unassigned slot")
		}
	}()
	r := bitio.NewReader([]byte{0x00})
	tbl.Decode(r)
}

func TestDeepTreeChainsThroughSubTables(t *testing.T) {
	// 20 leaves with geometrically increasing weight push the Huffman tree
	// past a single 9-bit chunk, exercising BuildTable's escape/sub-table
	// path.
	uses := make([]uint64, 20)
	for i := range uses {
		uses[i] = uint64(1) << uint(i)
	}
	ordered, tbl := buildRoundTrip(t, uses)

	var maxDepth uint8
	for _, lf := range ordered {
		if lf.Depth > maxDepth {
			maxDepth = lf.Depth
		}
	}
	if maxDepth <= chunkBits {
		t.Fatalf("test setup didn't produce a code deeper than one chunk (got %d)", maxDepth)
	}

	w := bitio.NewWriter()
	for _, lf := range ordered {
		w.WriteBits(lf.Code, uint(lf.Depth))
	}
	w.Flush()
	r := bitio.NewReader(w.Bytes())
	for _, lf := range ordered {
		if got := tbl.Decode(r); got != lf.Sym {
			t.Fatalf("decoded sym %d, want %d", got, lf.Sym)
		}
	}
}
