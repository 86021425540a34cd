// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package suffixarray builds a suffix array and LCP array over a
// superstring for the segment codec's pattern miner (section 4.3 of the
// format). The induced-sorting construction in sais_int.go is SA-IS, the
// same linear-time algorithm dsnet/compress's bzip2 BWT stage vendors for
// its own rotation sort; repurposed here because the miner needs the same
// guarantee over inputs that can run to a full superstring (up to 1 GiB),
// just for substring matching rather than block-sort transform.
package suffixarray

// byteAlphabetSize is the symbol count computeSA_int sorts over at the top
// level. internal/superstring's doubling only fixes which byte *offsets*
// can start a pattern (the even offsets holding a 0x01 marker) and marks
// boundaries (0x00, 0x00 at even offsets) -- it does not restrict the value range of a source byte at an
// odd offset, so the miner's suffixes are drawn from the full byte
// alphabet, not a 2-symbol one.
const byteAlphabetSize = 256

// ComputeSuffixArray returns the suffix array of data: SA[i] is the starting
// offset of the i'th suffix in sorted order. data's bytes are widened to int
// because computeSA_int's induced-sort recursion reduces to a smaller
// alphabet at deeper levels (the count of distinct LMS-substring names,
// which can exceed byteAlphabetSize), so the same code path has to handle
// an arbitrary symbol count even though the top-level call always sorts
// over bytes.
func ComputeSuffixArray(data []byte) []int {
	n := len(data)
	SA := make([]int, n)
	if n == 0 {
		return SA
	}
	T := make([]int, n)
	for i, b := range data {
		T[i] = int(b)
	}
	computeSA_int(T, SA, 0, n, byteAlphabetSize)
	return SA
}

// BuildLCP computes the Kasai LCP array for data given its suffix array:
// LCP[i] is the length of the longest common prefix between the i'th and
// (i-1)'th suffixes in sorted order (LCP[0] is always 0). This pairs with
// ComputeSuffixArray to let the miner walk LCP runs without an O(n^2)
// substring comparison.
func BuildLCP(data []byte, sa []int) []int {
	n := len(data)
	lcp := make([]int, n)
	if n == 0 {
		return lcp
	}
	rank := make([]int, n)
	for i, s := range sa {
		rank[s] = i
	}
	h := 0
	for i := 0; i < n; i++ {
		if rank[i] == 0 {
			h = 0
			continue
		}
		j := sa[rank[i]-1]
		for i+h < n && j+h < n && data[i+h] == data[j+h] {
			h++
		}
		lcp[rank[i]] = h
		if h > 0 {
			h--
		}
	}
	return lcp
}
