package seg

import (
	"encoding/binary"

	"github.com/dwerner/segcodec/internal/prefixcode"
)

// Decompressor opens a finalized .seg file read-only. Its Huffman tables
// are immutable after construction and may be shared across goroutines;
// each Getter created from it holds independent cursor state (spec
// section 5).
type Decompressor struct {
	mm *mappedFile

	wordsCount      uint64
	emptyWordsCount uint64

	patternTable *prefixcode.Table
	patternBytes [][]byte // file-order index -> pattern bytes

	positionTable *prefixcode.Table

	payloadOffset int
}

// Open memory-maps path and parses its header and both Huffman
// dictionaries (spec section 4.11).
func Open(path string) (*Decompressor, error) {
	mm, err := mmapOpen(path)
	if err != nil {
		return nil, err
	}
	d, err := parseHeader(mm.Data)
	if err != nil {
		mm.Close()
		return nil, err
	}
	d.mm = mm
	return d, nil
}

// Close unmaps the underlying file. Every Getter created from this
// Decompressor becomes invalid; the caller must not use them afterward.
func (d *Decompressor) Close() error {
	return d.mm.Close()
}

// Count returns the number of words recorded in the file.
func (d *Decompressor) Count() uint64 { return d.wordsCount }

// EmptyWordsCount returns the number of zero-length words recorded in the
// file.
func (d *Decompressor) EmptyWordsCount() uint64 { return d.emptyWordsCount }

// Size returns the total size in bytes of the mapped file (original_source
// decompress.rs file-size bookkeeping, supplemented per SPEC_FULL.md).
func (d *Decompressor) Size() int64 { return int64(len(d.mm.Data)) }

func parseHeader(data []byte) (*Decompressor, error) {
	if len(data) < 24 {
		return nil, ErrFormat
	}
	wordsCount := binary.BigEndian.Uint64(data[0:8])
	emptyWordsCount := binary.BigEndian.Uint64(data[8:16])
	patDictSize := binary.BigEndian.Uint64(data[16:24])

	off := 24
	if uint64(off)+patDictSize > uint64(len(data)) {
		return nil, ErrFormat
	}
	patternBytes, patternLeaves, err := parsePatternDict(data[off : off+int(patDictSize)])
	if err != nil {
		return nil, err
	}
	off += int(patDictSize)

	if off+8 > len(data) {
		return nil, ErrFormat
	}
	posDictSize := binary.BigEndian.Uint64(data[off : off+8])
	off += 8
	if uint64(off)+posDictSize > uint64(len(data)) {
		return nil, ErrFormat
	}
	positionLeaves, err := parsePositionDict(data[off : off+int(posDictSize)])
	if err != nil {
		return nil, err
	}
	off += int(posDictSize)

	if err := prefixcode.AssignCanonicalCodes(patternLeaves); err != nil {
		return nil, ErrFormat
	}
	patternTable, err := prefixcode.BuildTable(patternLeaves)
	if err != nil {
		return nil, ErrFormat
	}
	if err := prefixcode.AssignCanonicalCodes(positionLeaves); err != nil {
		return nil, ErrFormat
	}
	positionTable, err := prefixcode.BuildTable(positionLeaves)
	if err != nil {
		return nil, ErrFormat
	}

	d := &Decompressor{
		wordsCount:      wordsCount,
		emptyWordsCount: emptyWordsCount,
		patternTable:    patternTable,
		patternBytes:    patternBytes,
		positionTable:   positionTable,
		payloadOffset:   off,
	}
	if err := d.verifyWordCounts(data); err != nil {
		return nil, err
	}
	return d, nil
}

// verifyWordCounts is the quick consistency scan original_source's
// decompress.rs runs on a freshly opened file before trusting its header:
// walk every word's position/pattern codes to their terminator, without
// materializing pattern bytes, and confirm the payload actually contains
// exactly wordsCount words and that emptyWordsCount of them are
// zero-length. A header lying about either count either runs the scan past
// a real terminator into the trailing zero-padding (surfacing as a
// mismatched empty count or a decode error) or short of the declared word
// count, both rejected as ErrFormat.
func (d *Decompressor) verifyWordCounts(data []byte) error {
	g := &Getter{d: d}
	g.r.Data = data
	g.r.Pos = d.payloadOffset

	var empty uint64
	for i := uint64(0); i < d.wordsCount; i++ {
		_, length, err := g.decodeWord(false)
		if err != nil {
			return classify(err)
		}
		if length == 0 {
			empty++
		}
	}
	if empty != d.emptyWordsCount {
		return ErrFormat
	}
	return nil
}

// parsePatternDict parses a sequence of {uvarint depth; uvarint len; len
// bytes pattern} entries in file order, per spec section 6.1, rejecting any
// depth above the format's loop-guard bound (spec section 4.11).
func parsePatternDict(buf []byte) (patternBytes [][]byte, leaves []*prefixcode.Leaf, err error) {
	p := 0
	idx := uint64(0)
	for p < len(buf) {
		depth, nn := binary.Uvarint(buf[p:])
		if nn <= 0 || depth == 0 || depth > 50 {
			return nil, nil, ErrFormat
		}
		p += nn
		length, nn := binary.Uvarint(buf[p:])
		if nn <= 0 {
			return nil, nil, ErrFormat
		}
		p += nn
		if p+int(length) > len(buf) {
			return nil, nil, ErrFormat
		}
		pat := buf[p : p+int(length)]
		p += int(length)

		patternBytes = append(patternBytes, pat)
		leaves = append(leaves, &prefixcode.Leaf{Sym: idx, Depth: uint8(depth)})
		idx++
	}
	return patternBytes, leaves, nil
}

// parsePositionDict parses {uvarint depth; uvarint pos_value} entries in
// file order.
func parsePositionDict(buf []byte) ([]*prefixcode.Leaf, error) {
	var leaves []*prefixcode.Leaf
	p := 0
	for p < len(buf) {
		depth, nn := binary.Uvarint(buf[p:])
		if nn <= 0 || depth == 0 || depth > 50 {
			return nil, ErrFormat
		}
		p += nn
		posVal, nn := binary.Uvarint(buf[p:])
		if nn <= 0 {
			return nil, ErrFormat
		}
		p += nn
		leaves = append(leaves, &prefixcode.Leaf{Sym: posVal, Depth: uint8(depth)})
	}
	return leaves, nil
}
