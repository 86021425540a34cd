package prefixcode

import "github.com/dwerner/segcodec/internal/bitio"

// chunkBits is the CONDENSE_PATTERN_TABLE_BIT_THRESHOLD: the common case
// decodes one symbol per table read of this many bits; codes deeper than
// this chain through additional tables of the same width.
const chunkBits = 9

// Table is a condensed canonical-Huffman decode table.
type Table struct {
	bits    uint8
	entries []tableEntry
}

type tableEntry struct {
	value uint64
	depth uint8 // bits this slot resolves, when sub == nil
	sub   *Table
}

type codeRecord struct {
	value     uint64
	code      uint64
	remaining uint8
}

// BuildTable constructs a condensed decode table from entries whose Depth
// and Code are already populated (see AssignCanonicalCodes). Depths greater
// than the format's loop-guard bound are rejected.
func BuildTable(entries []*Leaf) (*Table, error) {
	if len(entries) == 0 {
		return &Table{}, nil
	}
	recs := make([]codeRecord, len(entries))
	for i, e := range entries {
		if e.Depth == 0 || e.Depth > maxDepth {
			return nil, ErrFormat
		}
		recs[i] = codeRecord{value: e.Sym, code: e.Code, remaining: e.Depth}
	}
	return buildLevel(recs), nil
}

func buildLevel(recs []codeRecord) *Table {
	maxRem := uint8(0)
	for _, r := range recs {
		if r.remaining > maxRem {
			maxRem = r.remaining
		}
	}
	lvl := maxRem
	if lvl > chunkBits {
		lvl = chunkBits
	}
	t := &Table{bits: lvl, entries: make([]tableEntry, 1<<lvl)}
	mask := uint64(1)<<lvl - 1

	var escapeOrder []uint64
	escapes := make(map[uint64][]codeRecord)
	for _, r := range recs {
		prefix := r.code & mask
		if r.remaining <= lvl {
			step := uint64(1) << r.remaining
			for i := prefix; i < uint64(len(t.entries)); i += step {
				t.entries[i] = tableEntry{value: r.value, depth: r.remaining}
			}
		} else {
			if _, ok := escapes[prefix]; !ok {
				escapeOrder = append(escapeOrder, prefix)
			}
			escapes[prefix] = append(escapes[prefix], codeRecord{
				value:     r.value,
				code:      r.code >> lvl,
				remaining: r.remaining - lvl,
			})
		}
	}
	for _, prefix := range escapeOrder {
		t.entries[prefix] = tableEntry{sub: buildLevel(escapes[prefix]), depth: lvl}
	}
	return t
}

// Decode reads one symbol from r, returning the leaf's original Sym. It
// panics with ErrUnknownCode if the stream holds a bit pattern with no
// corresponding leaf (truncated or corrupt payload).
func (t *Table) Decode(r *bitio.Reader) uint64 {
	cur := t
	for {
		peek := r.PeekBits(uint(cur.bits))
		e := cur.entries[peek]
		if e.sub != nil {
			r.Advance(uint(cur.bits))
			cur = e.sub
			continue
		}
		if e.depth == 0 {
			panic(ErrUnknownCode)
		}
		r.Advance(uint(e.depth))
		return e.value
	}
}
