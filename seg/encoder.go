package seg

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/dwerner/segcodec/internal/bitio"
	"github.com/dwerner/segcodec/internal/patterndict"
	"github.com/dwerner/segcodec/internal/prefixcode"
)

// huffmanCodes holds one finished canonical Huffman code: the leaves in
// final on-disk order (for header serialization) and a Sym-indexed lookup
// for the hot encode loop.
type huffmanCodes struct {
	ordered []*prefixcode.Leaf
	bySym   map[uint64]*prefixcode.Leaf
}

func buildHuffman(leaves []*prefixcode.Leaf) (*huffmanCodes, error) {
	ordered := prefixcode.Build(leaves)
	if err := prefixcode.AssignCanonicalCodes(ordered); err != nil {
		return nil, err
	}
	bySym := make(map[uint64]*prefixcode.Leaf, len(ordered))
	for _, lf := range ordered {
		bySym[lf.Sym] = lf
	}
	return &huffmanCodes{ordered: ordered, bySym: bySym}, nil
}

// runFinalEncode builds both Huffman codes from the pass-1 statistics,
// writes the file header (spec section 4.10/6.1), then streams the
// intermediate file through pass two (spec section 4.9) into outputPath.
func runFinalEncode(intermediatePath, outputPath string, dict *patterndict.Dictionary, res *intermediateResult) error {
	patternLeaves := make([]*prefixcode.Leaf, dict.Len())
	for i := range dict.Patterns {
		patternLeaves[i] = prefixcode.NewLeaf(uint64(i), res.PatternUses[i], uint64(i))
	}
	patternCodes, err := buildHuffman(patternLeaves)
	if err != nil {
		return err
	}

	posLeaves := make([]*prefixcode.Leaf, 0, len(res.PosMap))
	for pos, uses := range res.PosMap {
		posLeaves = append(posLeaves, prefixcode.NewLeaf(pos, uses, pos))
	}
	posCodes, err := buildHuffman(posLeaves)
	if err != nil {
		return err
	}

	patternDictBytes := serializePatternDict(patternCodes.ordered, dict.Patterns)
	posDictBytes := serializePositionDict(posCodes.ordered)

	tmpPath := outputPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return ErrIO
	}
	w := bufio.NewWriter(out)

	if err := writeHeader(w, res.WordsCount, res.EmptyWordsCount, patternDictBytes, posDictBytes); err != nil {
		out.Close()
		return ErrIO
	}

	if err := encodePayload(w, intermediatePath, dict, patternCodes, posCodes); err != nil {
		out.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return ErrIO
	}
	if err := out.Close(); err != nil {
		return ErrIO
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return ErrIO
	}
	return nil
}

func writeHeader(w io.Writer, wordsCount, emptyWordsCount uint64, patternDict, posDict []byte) error {
	var hdr [24]byte
	binary.BigEndian.PutUint64(hdr[0:8], wordsCount)
	binary.BigEndian.PutUint64(hdr[8:16], emptyWordsCount)
	binary.BigEndian.PutUint64(hdr[16:24], uint64(len(patternDict)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(patternDict); err != nil {
		return err
	}
	var sz [8]byte
	binary.BigEndian.PutUint64(sz[:], uint64(len(posDict)))
	if _, err := w.Write(sz[:]); err != nil {
		return err
	}
	_, err := w.Write(posDict)
	return err
}

// serializePatternDict writes, for each pattern leaf in final on-disk
// order: varint(depth), varint(len(pattern)), pattern bytes.
func serializePatternDict(ordered []*prefixcode.Leaf, patterns [][]byte) []byte {
	var buf []byte
	var tmp [binary.MaxVarintLen64]byte
	for _, lf := range ordered {
		n := binary.PutUvarint(tmp[:], uint64(lf.Depth))
		buf = append(buf, tmp[:n]...)
		pat := patterns[lf.Sym]
		n = binary.PutUvarint(tmp[:], uint64(len(pat)))
		buf = append(buf, tmp[:n]...)
		buf = append(buf, pat...)
	}
	return buf
}

// serializePositionDict writes, for each position leaf in final on-disk
// order: varint(depth), varint(pos_value).
func serializePositionDict(ordered []*prefixcode.Leaf) []byte {
	var buf []byte
	var tmp [binary.MaxVarintLen64]byte
	for _, lf := range ordered {
		n := binary.PutUvarint(tmp[:], uint64(lf.Depth))
		buf = append(buf, tmp[:n]...)
		n = binary.PutUvarint(tmp[:], lf.Sym)
		buf = append(buf, tmp[:n]...)
	}
	return buf
}

// encodePayload implements spec section 4.9: re-reads the intermediate file
// and emits the bit-packed payload, splicing in raw uncovered bytes at byte
// boundaries.
func encodePayload(out io.Writer, intermediatePath string, dict *patterndict.Dictionary, patternCodes, posCodes *huffmanCodes) error {
	in, err := os.Open(intermediatePath)
	if err != nil {
		return ErrIO
	}
	defer in.Close()
	r := bufio.NewReader(in)

	bw := bitio.NewWriter()
	emitPos := func(sym uint64) error {
		lf, ok := posCodes.bySym[sym]
		if !ok {
			return ErrUnknownCode
		}
		bw.WriteBits(lf.Code, uint(lf.Depth))
		return nil
	}
	emitPattern := func(sym uint64) error {
		lf, ok := patternCodes.bySym[sym]
		if !ok {
			return ErrUnknownCode
		}
		bw.WriteBits(lf.Code, uint(lf.Depth))
		return nil
	}

	for {
		l, err := binary.ReadUvarint(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return ErrFormat
		}
		if err := emitPos(l + 1); err != nil {
			return err
		}
		if l == 0 {
			if err := emitPos(0); err != nil {
				return err
			}
			if err := bw.FlushTo(out); err != nil {
				return ErrIO
			}
			continue
		}

		pNum, err := binary.ReadUvarint(r)
		if err != nil {
			return ErrFormat
		}
		uncovered := int(l)
		var lastPos uint64
		for i := uint64(0); i < pNum; i++ {
			pos, err := binary.ReadUvarint(r)
			if err != nil {
				return ErrFormat
			}
			var rel uint64
			if i == 0 {
				rel = pos + 1
			} else {
				rel = pos - lastPos + 1
			}
			lastPos = pos
			if err := emitPos(rel); err != nil {
				return err
			}
			codeIdx, err := binary.ReadUvarint(r)
			if err != nil {
				return ErrFormat
			}
			if err := emitPattern(codeIdx); err != nil {
				return err
			}
			if int(codeIdx) >= len(dict.Patterns) {
				return ErrFormat
			}
			uncovered -= len(dict.Patterns[codeIdx])
		}
		if err := emitPos(0); err != nil {
			return err
		}
		if uncovered > 0 {
			bw.Flush()
			if err := bw.FlushTo(out); err != nil {
				return ErrIO
			}
			if _, err := io.CopyN(out, r, int64(uncovered)); err != nil {
				return ErrIO
			}
		} else if err := bw.FlushTo(out); err != nil {
			return ErrIO
		}
	}
	bw.Flush()
	return bw.FlushTo(out)
}
