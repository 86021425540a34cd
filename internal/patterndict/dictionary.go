// Package patterndict accumulates scored pattern candidates from the miner
// across every superstring and reduces them to the final, capped dictionary
// (format section 4.4).
package patterndict

import (
	"bytes"
	"sort"

	"github.com/dwerner/segcodec/internal/patternminer"
)

// Dictionary is the final, ordered, immutable pattern list. A pattern's
// position in Patterns is its stable index for the rest of the codec (the
// intermediate stream and the patricia trie both key off this index).
type Dictionary struct {
	Patterns [][]byte
	Scores   []uint64
}

func (d *Dictionary) Len() int { return len(d.Patterns) }

// Builder merges candidates emitted across superstrings, summing scores for
// byte-identical patterns.
type Builder struct {
	index map[string]int
	words [][]byte
	score []uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Add merges a batch of candidates from one superstring into the running
// totals.
func (b *Builder) Add(candidates []patternminer.Candidate) {
	for _, c := range candidates {
		key := string(c.Pattern)
		if i, ok := b.index[key]; ok {
			b.score[i] += c.Score
			continue
		}
		b.index[key] = len(b.words)
		b.words = append(b.words, c.Pattern)
		b.score = append(b.score, c.Score)
	}
}

// Build sorts the merged candidates by (score desc, word asc), then
// truncates to at most maxPatterns entries, additionally stopping once the
// running sum of accepted scores exceeds softLimit (but always keeping at
// least the single highest-scored pattern so the dictionary is never
// spuriously empty when softLimit is set too low). See SPEC_FULL.md section
// 4.4 for why this soft-limit interpretation was chosen.
func Build(b *Builder, maxPatterns int, softLimit uint64) *Dictionary {
	type entry struct {
		word  []byte
		score uint64
	}
	entries := make([]entry, len(b.words))
	for i := range b.words {
		entries[i] = entry{b.words[i], b.score[i]}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return bytes.Compare(entries[i].word, entries[j].word) < 0
	})

	d := &Dictionary{}
	var running uint64
	for _, e := range entries {
		if maxPatterns > 0 && len(d.Patterns) >= maxPatterns {
			break
		}
		if len(d.Patterns) > 0 && running > softLimit {
			break
		}
		d.Patterns = append(d.Patterns, e.word)
		d.Scores = append(d.Scores, e.score)
		running += e.score
	}
	return d
}
