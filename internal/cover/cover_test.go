package cover

import (
	"reflect"
	"testing"

	"github.com/dwerner/segcodec/internal/patricia"
)

func TestCoverPrefersHigherCompression(t *testing.T) {
	// word = "aaaaaaaa" (8 bytes). A single 8-byte match compresses more
	// (8-4=4) than two 4-byte matches (each (4-4)=0), even though the two
	// short matches together cover the same span.
	word := []byte("aaaaaaaa")
	matches := []patricia.Match{
		{Start: 0, End: 8, PatternIdx: 0},
		{Start: 0, End: 4, PatternIdx: 1},
		{Start: 4, End: 8, PatternIdx: 1},
	}
	scores := []uint64{10, 10}

	got := Cover(word, matches, scores)
	want := []Match{{Start: 0, End: 8, PatternIdx: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCoverSkipsUncompressingMatches(t *testing.T) {
	// A 3-byte match nets (3-4) = -1 compression: worse than leaving the
	// span uncovered.
	word := []byte("abc")
	matches := []patricia.Match{{Start: 0, End: 3, PatternIdx: 0}}
	scores := []uint64{100}

	got := Cover(word, matches, scores)
	if len(got) != 0 {
		t.Fatalf("expected no placements for a net-negative match, got %+v", got)
	}
}

func TestCoverBreaksTiesByScoreThenIndex(t *testing.T) {
	word := []byte("aaaaaaaaaa") // 10 bytes
	matches := []patricia.Match{
		{Start: 0, End: 10, PatternIdx: 0},
		{Start: 0, End: 10, PatternIdx: 1},
	}
	scores := []uint64{5, 9}

	got := Cover(word, matches, scores)
	want := []Match{{Start: 0, End: 10, PatternIdx: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want the higher-scoring pattern %+v", got, want)
	}
}

func TestCoverNonOverlappingCombination(t *testing.T) {
	word := []byte("foobarbazqux")
	matches := []patricia.Match{
		{Start: 0, End: 6, PatternIdx: 0},  // "foobar"
		{Start: 6, End: 12, PatternIdx: 1}, // "bazqux"
	}
	scores := []uint64{10, 10}

	got := Cover(word, matches, scores)
	want := []Match{
		{Start: 0, End: 6, PatternIdx: 0},
		{Start: 6, End: 12, PatternIdx: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCoverEmptyWord(t *testing.T) {
	if got := Cover(nil, nil, nil); len(got) != 0 {
		t.Fatalf("expected no placements for an empty word, got %+v", got)
	}
}
