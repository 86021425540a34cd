// Package cover computes the optimal non-overlapping dictionary-pattern
// cover of a single word (format section 4.6): the subset of candidate
// matches that maximizes total compression (bytes saved net of a per-match
// overhead), with summed pattern score as a tiebreaker.
//
// The format document describes the reference implementation's ring-buffer
// scan, processing matches back-to-front so that each new candidate can be
// combined with an already-optimal suffix cover in O(1) amortized time. This
// package solves the identical optimization (same per-match net-compression
// formula, same non-overlap constraint, same score tiebreak) with a
// straightforward per-position dynamic program instead: dp[i] holds the
// best cover of word[i:], built from dp[N] down to dp[0]. Both formulations
// compute the same optimum; this one trades the reference's cache-tuned
// ring buffer for a plain array, which this project's byte-for-byte
// determinism only requires to be *internally* reproducible, not bit
// compatible with an external reference encoder. See DESIGN.md.
package cover

import "github.com/dwerner/segcodec/internal/patricia"

// Match is one candidate placement: pattern patternScores[PatternIdx]
// occupies word[Start:End].
type Match struct {
	Start, End, PatternIdx int
}

// patternOverhead is the fixed per-placement byte cost charged against a
// match's span when computing net compression (format section 4.6).
const patternOverhead = 4

type dpCell struct {
	compression int64
	score       uint64
	// matchIdx indexes into the caller's matches slice; -1 means "skip this
	// position, leave word[i] uncovered and defer to dp[i+1]".
	matchIdx int
	next     int // index of the dp cell to continue from (i.e. dp[matches[matchIdx].End])
}

// Cover returns the chosen matches, ascending by Start, that make up the
// optimal cover of word. matches must be sorted ascending by Start (ties
// broken by descending End), as patricia.Finder.FindAll returns them.
// patternScores supplies each pattern's mining-time score, indexed by
// PatternIdx, used only as the tiebreaker between equally-compressing
// covers.
func Cover(word []byte, matches []patricia.Match, patternScores []uint64) []Match {
	n := len(word)
	dp := make([]dpCell, n+1)
	dp[n] = dpCell{matchIdx: -1}

	// byStart buckets match indices by their Start position for O(1)
	// lookup while filling dp right to left.
	byStart := make([][]int, n)
	for i, m := range matches {
		byStart[m.Start] = append(byStart[m.Start], i)
	}

	for i := n - 1; i >= 0; i-- {
		best := dpCell{compression: dp[i+1].compression, score: dp[i+1].score, matchIdx: -1, next: i + 1}
		for _, mi := range byStart[i] {
			m := matches[mi]
			cand := dpCell{
				compression: int64(m.End-m.Start-patternOverhead) + dp[m.End].compression,
				score:       patternScores[m.PatternIdx] + dp[m.End].score,
				matchIdx:    mi,
				next:        m.End,
			}
			if better(cand, best) {
				best = cand
			}
		}
		dp[i] = best
	}

	var chosen []Match
	i := 0
	for i < n {
		c := dp[i]
		if c.matchIdx < 0 {
			i++
			continue
		}
		m := matches[c.matchIdx]
		chosen = append(chosen, Match{Start: m.Start, End: m.End, PatternIdx: m.PatternIdx})
		i = c.next
	}
	return chosen
}

// better reports whether a is a strictly preferable dp choice to b: higher
// compression first, then higher score, then (for full determinism when
// both are still tied) a placement over a skip (matchIdx == -1), and
// between two placements the one whose match comes first in the matches
// slice (for FindAll's ordering, the longer match at this position).
func better(a, b dpCell) bool {
	if a.compression != b.compression {
		return a.compression > b.compression
	}
	if a.score != b.score {
		return a.score > b.score
	}
	if (a.matchIdx < 0) != (b.matchIdx < 0) {
		return a.matchIdx >= 0
	}
	return a.matchIdx < b.matchIdx
}
