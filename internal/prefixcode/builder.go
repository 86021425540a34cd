// Package prefixcode builds the two canonical Huffman codes used by the
// segment format (one over dictionary patterns, one over position values)
// and the condensed, chunked decode table that reconstructs them on read.
//
// The construction is deliberately split into three steps that mirror
// section 4.7 of the format: Build assigns each leaf a code length (Depth)
// and settles the on-disk ordering of the symbol list; AssignCanonicalCodes
// derives the actual LSB-first bit pattern each leaf transmits, purely as a
// function of the Depth sequence in file order (so a decoder can reproduce
// it without ever seeing a Code on disk); BuildTable turns that into a
// lookup structure for the hot decode loop.
package prefixcode

import (
	"container/heap"
	"sort"

	"github.com/dwerner/segcodec/internal"
)

const maxDepth = 50

// Leaf is one symbol participating in a canonical Huffman code: a dictionary
// pattern (Sym holds its dictionary index) or a position value (Sym holds
// the position number itself — a word length + 1, a relative offset + 1, or
// the 0 terminator).
type Leaf struct {
	Sym  uint64
	Uses uint64

	// Depth is the Huffman code length in bits. Set by Build for a fresh
	// tree, or by a decoder after parsing the on-disk depth sequence.
	Depth uint8

	// Code is the LSB-first transmission value, valid once
	// AssignCanonicalCodes has run.
	Code uint64

	sortKey  uint64
	sortBits uint8
}

// NewLeaf returns a leaf seeded with the initial sort key spec section 4.7
// assigns before any Huffman merging: a pattern's dictionary index, or a
// position's numeric value.
func NewLeaf(sym, uses, seed uint64) *Leaf {
	return &Leaf{Sym: sym, Uses: uses, sortKey: seed, sortBits: 64}
}

// reverseWithin reverses the low nb bits of v, zeroing everything above bit
// nb-1. Used both for the pre-build tie-break sort (fixed 64-bit width) and
// for the final code-length-local sort that determines on-disk order.
func reverseWithin(v uint64, nb uint8) uint64 {
	return internal.ReverseUint64N(v, uint(nb))
}

type treeNode struct {
	left, right *treeNode
	leaf        *Leaf
	uses        uint64
	tie         uint64
}

type nodeHeap []*treeNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].uses != h[j].uses {
		return h[i].uses < h[j].uses
	}
	return h[i].tie < h[j].tie
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*treeNode)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Build assigns every leaf a Huffman code length and returns the leaves
// reordered into the on-disk sequence: ascending (uses, bit-reverse(path
// code)), with uses forced to zero once the tree is exhausted (section 4.7
// steps 4-5). The returned slice is a fresh ordering; the input is left with
// its Depth field populated but not reordered (Code is set afterwards by
// AssignCanonicalCodes).
//
// The path code used for the tie-break sort is computed by a single
// top-down pass over the finished tree (0 for a left branch, 1 for a right
// branch, matching the reference's incremental add_zero/add_one
// construction bit-for-bit) rather than incrementally during merges; both
// produce the same root-to-leaf bit sequence per leaf.
func Build(leaves []*Leaf) []*Leaf {
	if len(leaves) == 0 {
		return leaves
	}
	sorted := append([]*Leaf(nil), leaves...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Uses != sorted[j].Uses {
			return sorted[i].Uses < sorted[j].Uses
		}
		return reverseWithin(sorted[i].sortKey, 64) < reverseWithin(sorted[j].sortKey, 64)
	})

	if len(sorted) == 1 {
		lf := sorted[0]
		lf.Depth = 1
		lf.sortKey, lf.sortBits = 0, 1
		lf.Uses = 0
		return sorted
	}

	h := make(nodeHeap, 0, len(sorted))
	var tie uint64
	for _, lf := range sorted {
		h = append(h, &treeNode{leaf: lf, uses: lf.Uses, tie: tie})
		tie++
	}
	heap.Init(&h)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*treeNode)
		b := heap.Pop(&h).(*treeNode)
		n := &treeNode{left: a, right: b, uses: a.uses + b.uses, tie: tie}
		tie++
		heap.Push(&h, n)
	}
	root := heap.Pop(&h).(*treeNode)
	assignPaths(root, 0, 0)

	out := append([]*Leaf(nil), sorted...)
	for _, lf := range out {
		lf.Uses = 0
	}
	sort.SliceStable(out, func(i, j int) bool {
		return reverseWithin(out[i].sortKey, out[i].sortBits) < reverseWithin(out[j].sortKey, out[j].sortBits)
	})
	return out
}

func assignPaths(n *treeNode, code uint64, depth uint8) {
	if n.leaf != nil {
		n.leaf.sortKey = code
		n.leaf.sortBits = depth
		n.leaf.Depth = depth
		return
	}
	assignPaths(n.left, code<<1, depth+1)
	assignPaths(n.right, (code<<1)|1, depth+1)
}

// AssignCanonicalCodes computes the canonical, LSB-first Code for every
// entry from its Depth alone. entries must already be in final on-disk
// (file) order — the order codes of equal length are handed out in is the
// sequence entries appear in, exactly as a decoder reconstructs them from
// the depth list alone with no Code stored on disk.
func AssignCanonicalCodes(entries []*Leaf) error {
	var bitCnt [maxDepth + 1]uint64
	maxD := uint8(0)
	for _, e := range entries {
		if e.Depth == 0 || e.Depth > maxDepth {
			return ErrFormat
		}
		bitCnt[e.Depth]++
		if e.Depth > maxD {
			maxD = e.Depth
		}
	}
	var next [maxDepth + 2]uint64
	var code uint64
	for d := uint8(1); d <= maxD; d++ {
		code <<= 1
		next[d] = code
		code += bitCnt[d]
	}
	if len(entries) > 1 && code != uint64(1)<<maxD {
		return ErrFormat
	}
	for _, e := range entries {
		e.Code = reverseWithin(next[e.Depth], e.Depth)
		next[e.Depth]++
	}
	return nil
}
