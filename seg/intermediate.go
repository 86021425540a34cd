package seg

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/dwerner/segcodec/internal/cover"
	"github.com/dwerner/segcodec/internal/patterndict"
	"github.com/dwerner/segcodec/internal/patricia"
	"github.com/dwerner/segcodec/internal/rawwords"
)

// intermediateResult carries the frequency statistics the final encoder
// needs to build both canonical Huffman codes (spec section 4.7), collected
// as a byproduct of the pass-1 intermediate write (spec section 4.8).
type intermediateResult struct {
	WordsCount      uint64
	EmptyWordsCount uint64
	// InputBytes sums the length of every submitted word, for Stats().
	InputBytes uint64
	// PosMap accumulates occurrences of every position-code value used
	// across the corpus: word-length codes (L+1), inter-pattern deltas
	// (rel = Δ+1), and the per-word terminator (0).
	PosMap map[uint64]uint64
	// PatternUses[i] counts how many times dictionary pattern i was chosen
	// by the cover DP across the whole corpus.
	PatternUses []uint64
}

// runIntermediatePass streams the raw-words spill file into the
// varint-framed intermediate file, running the patricia match finder and
// optimal cover over every compressible word (spec sections 4.5-4.6, 4.8).
func runIntermediatePass(rawWordsPath, intermediatePath string, dict *patterndict.Dictionary) (*intermediateResult, error) {
	out, err := os.Create(intermediatePath)
	if err != nil {
		return nil, ErrIO
	}
	w := bufio.NewWriter(out)

	trie := patricia.Build(dict.Patterns)
	finder := patricia.NewFinder(trie)

	res := &intermediateResult{
		PosMap:      make(map[uint64]uint64),
		PatternUses: make([]uint64, dict.Len()),
	}

	var varintBuf [binary.MaxVarintLen64]byte
	putVarint := func(v uint64) error {
		n := binary.PutUvarint(varintBuf[:], v)
		_, err := w.Write(varintBuf[:n])
		return err
	}

	visitErr := rawwords.ForEach(rawWordsPath, func(word []byte, uncompressed bool) error {
		res.WordsCount++
		res.InputBytes += uint64(len(word))
		if err := putVarint(uint64(len(word))); err != nil {
			return err
		}
		if len(word) == 0 {
			res.EmptyWordsCount++
			res.PosMap[1]++
			res.PosMap[0]++
			return nil
		}

		var chosen []cover.Match
		if !uncompressed {
			matches := finder.FindAll(word)
			if len(matches) > 0 {
				chosen = cover.Cover(word, matches, dict.Scores)
			}
		}
		if err := writeCoverRecord(putVarint, w, word, chosen); err != nil {
			return err
		}

		var lastPos uint64
		for i, m := range chosen {
			res.PatternUses[m.PatternIdx]++
			var rel uint64
			if i == 0 {
				rel = uint64(m.Start) + 1
			} else {
				rel = uint64(m.Start) - lastPos + 1
			}
			lastPos = uint64(m.Start)
			res.PosMap[rel]++
		}
		res.PosMap[uint64(len(word))+1]++
		res.PosMap[0]++
		return nil
	})
	if visitErr != nil {
		out.Close()
		return nil, translateRawwordsErr(visitErr)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return nil, ErrIO
	}
	if err := out.Close(); err != nil {
		return nil, ErrIO
	}
	return res, nil
}

// writeCoverRecord writes one word's cover output, per spec section 4.6:
// varint(pattern count), then (varint start, varint pattern index) per
// chosen match in ascending Start order, then every uncovered byte range
// concatenated in left-to-right order. Zero chosen matches (no matches
// found, or the word was submitted via add_uncompressed_word) degenerates
// to varint(0) followed by the whole raw word — the same bytes either way,
// so pass two never needs to distinguish the two cases.
func writeCoverRecord(putVarint func(uint64) error, w io.Writer, word []byte, chosen []cover.Match) error {
	if err := putVarint(uint64(len(chosen))); err != nil {
		return err
	}
	for _, m := range chosen {
		if err := putVarint(uint64(m.Start)); err != nil {
			return err
		}
		if err := putVarint(uint64(m.PatternIdx)); err != nil {
			return err
		}
	}
	pos := 0
	for _, m := range chosen {
		if m.Start > pos {
			if _, err := w.Write(word[pos:m.Start]); err != nil {
				return err
			}
		}
		pos = m.End
	}
	if pos < len(word) {
		if _, err := w.Write(word[pos:]); err != nil {
			return err
		}
	}
	return nil
}
