// Package patricia indexes dictionary patterns for the optimal-cover DP
// (format section 4.5): given a word, it returns every (start, end,
// pattern) occurrence of any dictionary pattern inside it, not merely the
// longest match at each start.
package patricia

// Trie is a byte trie over the dictionary's patterns. Despite the package
// name (matching the format's own terminology), it is not path-compressed:
// pattern lengths are bounded (max_pattern_len, default 128) and the
// dictionary is capped (max_dict_patterns), so a plain trie's extra nodes
// cost little next to the simplicity of a direct byte-by-byte walk.
type Trie struct {
	root *node
}

type node struct {
	children   map[byte]*node
	patternIdx int // -1 if this node does not terminate a pattern
}

func newNode() *node {
	return &node{patternIdx: -1}
}

// Build indexes patterns, keyed by their position in the slice (their
// stable dictionary index).
func Build(patterns [][]byte) *Trie {
	t := &Trie{root: newNode()}
	for idx, p := range patterns {
		cur := t.root
		for _, b := range p {
			next, ok := cur.children[b]
			if !ok {
				next = newNode()
				if cur.children == nil {
					cur.children = make(map[byte]*node)
				}
				cur.children[b] = next
			}
			cur = next
		}
		cur.patternIdx = idx
	}
	return t
}

// Match is one occurrence of a dictionary pattern inside a word: the
// pattern at PatternIdx occupies word[Start:End].
type Match struct {
	Start, End, PatternIdx int
}

// Finder walks a Trie against successive words, reusing its scratch buffer
// (format section 4.5: "cleared and reused across words").
type Finder struct {
	trie *Trie
	buf  []Match
}

// NewFinder returns a Finder bound to trie.
func NewFinder(trie *Trie) *Finder {
	return &Finder{trie: trie}
}

// FindAll returns every dictionary pattern occurrence in word, ascending by
// Start and, for matches sharing a Start, descending by End (longest
// first). The returned slice is only valid until the next call to FindAll.
func (f *Finder) FindAll(word []byte) []Match {
	f.buf = f.buf[:0]
	for s := 0; s < len(word); s++ {
		groupStart := len(f.buf)
		cur := f.trie.root
		for e := s; e < len(word) && cur.children != nil; e++ {
			next, ok := cur.children[word[e]]
			if !ok {
				break
			}
			cur = next
			if cur.patternIdx >= 0 {
				f.buf = append(f.buf, Match{Start: s, End: e + 1, PatternIdx: cur.patternIdx})
			}
		}
		reverseMatches(f.buf[groupStart:])
	}
	return f.buf
}

func reverseMatches(m []Match) {
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}
