package patricia

import "testing"

func TestFindAllReturnsEveryOccurrence(t *testing.T) {
	patterns := [][]byte{[]byte("ab"), []byte("abc"), []byte("bc")}
	trie := Build(patterns)
	f := NewFinder(trie)

	matches := f.FindAll([]byte("xabcy"))
	want := []Match{
		{Start: 1, End: 4, PatternIdx: 1}, // "abc", longest-first at Start=1
		{Start: 1, End: 3, PatternIdx: 0}, // "ab"
		{Start: 2, End: 4, PatternIdx: 2}, // "bc"
	}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d: %+v", len(matches), len(want), matches)
	}
	for i, m := range matches {
		if m != want[i] {
			t.Fatalf("match %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestFindAllNoMatches(t *testing.T) {
	trie := Build([][]byte{[]byte("zzz")})
	f := NewFinder(trie)
	if matches := f.FindAll([]byte("abcdef")); len(matches) != 0 {
		t.Fatalf("expected no matches, got %+v", matches)
	}
}

func TestFinderBufferReusedAcrossWords(t *testing.T) {
	trie := Build([][]byte{[]byte("a")})
	f := NewFinder(trie)

	first := f.FindAll([]byte("aaa"))
	if len(first) != 3 {
		t.Fatalf("first word: got %d matches, want 3", len(first))
	}
	second := f.FindAll([]byte("b"))
	if len(second) != 0 {
		t.Fatalf("second word: got %d matches, want 0 (buffer should reset)", len(second))
	}
}
