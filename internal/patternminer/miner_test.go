package patternminer

import (
	"testing"

	"github.com/dwerner/segcodec/internal/superstring"
)

func TestMineFindsRepeatedSubstring(t *testing.T) {
	var buf []byte
	for _, w := range []string{"greeting", "agreements", "degreefoo", "grey"} {
		buf = superstring.Encode(buf, []byte(w))
	}

	cfg := Config{MinPatternLen: 3, MaxPatternLen: 16, MinPatternScore: 1}
	cands := Mine(buf, cfg)

	found := false
	for _, c := range cands {
		if string(c.Pattern) == "gree" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"gree\" among candidates, got %+v", cands)
	}
}

func TestMineRespectsMinScore(t *testing.T) {
	var buf []byte
	for _, w := range []string{"abcde", "xyzzz"} {
		buf = superstring.Encode(buf, []byte(w))
	}
	cfg := Config{MinPatternLen: 1, MaxPatternLen: 16, MinPatternScore: 1 << 20}
	cands := Mine(buf, cfg)
	if len(cands) != 0 {
		t.Fatalf("expected no candidates past an unreachable score floor, got %+v", cands)
	}
}

func TestMineDeduplicatesCandidates(t *testing.T) {
	var buf []byte
	for _, w := range []string{"banana", "banana", "banana"} {
		buf = superstring.Encode(buf, []byte(w))
	}
	cfg := Config{MinPatternLen: 3, MaxPatternLen: 16, MinPatternScore: 1}
	cands := Mine(buf, cfg)

	seen := make(map[string]bool)
	for _, c := range cands {
		key := string(c.Pattern)
		if seen[key] {
			t.Fatalf("pattern %q emitted more than once", key)
		}
		seen[key] = true
	}
}

func TestMineEmptyInput(t *testing.T) {
	cfg := Config{MinPatternLen: 1, MaxPatternLen: 16, MinPatternScore: 0}
	if cands := Mine(nil, cfg); len(cands) != 0 {
		t.Fatalf("expected no candidates from empty input, got %+v", cands)
	}
}
