package patterndict

import (
	"testing"

	"github.com/dwerner/segcodec/internal/patternminer"
)

func TestBuilderSumsScoresForDuplicatePatterns(t *testing.T) {
	b := NewBuilder()
	b.Add([]patternminer.Candidate{
		{Pattern: []byte("hello"), Score: 10},
		{Pattern: []byte("world"), Score: 3},
	})
	b.Add([]patternminer.Candidate{
		{Pattern: []byte("hello"), Score: 5},
	})

	d := Build(b, 0, ^uint64(0))
	idx := -1
	for i, p := range d.Patterns {
		if string(p) == "hello" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("\"hello\" missing from the built dictionary")
	}
	if d.Scores[idx] != 15 {
		t.Fatalf("summed score = %d, want 15", d.Scores[idx])
	}
}

func TestBuildOrdersByScoreDescThenWordAsc(t *testing.T) {
	b := NewBuilder()
	b.Add([]patternminer.Candidate{
		{Pattern: []byte("zzz"), Score: 5},
		{Pattern: []byte("aaa"), Score: 5},
		{Pattern: []byte("bbb"), Score: 9},
	})
	d := Build(b, 0, ^uint64(0))

	want := []string{"bbb", "aaa", "zzz"}
	if len(d.Patterns) != len(want) {
		t.Fatalf("got %d patterns, want %d", len(d.Patterns), len(want))
	}
	for i, w := range want {
		if string(d.Patterns[i]) != w {
			t.Fatalf("pattern %d = %q, want %q", i, d.Patterns[i], w)
		}
	}
}

func TestBuildCapsByMaxPatterns(t *testing.T) {
	b := NewBuilder()
	b.Add([]patternminer.Candidate{
		{Pattern: []byte("a"), Score: 3},
		{Pattern: []byte("b"), Score: 2},
		{Pattern: []byte("c"), Score: 1},
	})
	d := Build(b, 2, ^uint64(0))
	if d.Len() != 2 {
		t.Fatalf("got %d patterns, want 2", d.Len())
	}
}

func TestBuildSoftLimitAlwaysKeepsTopPattern(t *testing.T) {
	b := NewBuilder()
	b.Add([]patternminer.Candidate{
		{Pattern: []byte("a"), Score: 1000},
		{Pattern: []byte("b"), Score: 1},
	})
	// A soft limit below even the single highest-scored pattern must still
	// accept that one pattern rather than produce an empty dictionary.
	d := Build(b, 0, 1)
	if d.Len() != 1 {
		t.Fatalf("got %d patterns, want exactly 1", d.Len())
	}
	if string(d.Patterns[0]) != "a" {
		t.Fatalf("kept pattern %q, want \"a\"", d.Patterns[0])
	}
}

func TestBuildSoftLimitStopsAfterCrossing(t *testing.T) {
	b := NewBuilder()
	b.Add([]patternminer.Candidate{
		{Pattern: []byte("a"), Score: 5},
		{Pattern: []byte("b"), Score: 5},
		{Pattern: []byte("c"), Score: 5},
	})
	d := Build(b, 0, 7) // first pattern (5) under limit, second (10) over
	if d.Len() != 2 {
		t.Fatalf("got %d patterns, want 2", d.Len())
	}
}
