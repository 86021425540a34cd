package seg

import (
	"bytes"

	"github.com/dsnet/golib/errs"

	"github.com/dwerner/segcodec/internal/bitio"
)

// Getter is an independent read cursor over a Decompressor's mapped data.
// It holds no synchronization and may run on its own goroutine without
// coordinating with other Getters on the same Decompressor (spec
// section 5).
type Getter struct {
	d   *Decompressor
	r   bitio.Reader
	buf []byte // reused scratch buffer for Next/MatchPrefix/MatchCmp

	// remaining counts words left to decode from this Getter's current
	// starting point. The payload's final byte carries zero-padding bits
	// (encoder.go's encodePayload unconditionally flushes and pads once at
	// end of file), which can peek like a valid short code; a cursor
	// position check alone can't distinguish real trailing codes from pad
	// bits, so HasNext is backed by the word count from the header instead.
	remaining uint64
}

// MakeGetter returns a new Getter positioned at the start of the payload,
// ready to decode all of the file's words in order.
func (d *Decompressor) MakeGetter() *Getter {
	g := &Getter{d: d, remaining: d.wordsCount}
	g.r.Data = d.mm.Data
	g.r.Pos = d.payloadOffset
	return g
}

// HasNext reports whether any word remains to be decoded from this Getter's
// current position.
func (g *Getter) HasNext() bool {
	return g.remaining > 0
}

// Reset repositions the cursor at the word whose bits begin offset bytes
// into the payload, and treats the word there as the first of a fresh
// full-corpus scan (remaining resets to the file's total word count).
// offset must point at a byte-aligned word boundary (the encoder only ever
// produces such offsets). An out-of-range offset leaves the Getter
// exhausted (HasNext reports false) rather than panicking on the next
// decode, per spec section 8's "no overread" property.
func (g *Getter) Reset(offset int64) {
	pos := g.d.payloadOffset + int(offset)
	if pos < g.d.payloadOffset || pos > len(g.r.Data) {
		pos = len(g.r.Data)
		g.remaining = 0
	} else {
		g.remaining = g.d.wordsCount
	}
	g.r.Pos = pos
	g.r.Bit = 0
}

// decodeWord runs the shared state machine of spec section 4.12: decode the
// word-length code, then position/pattern code pairs until a terminator
// (each position is relative to the previous pattern's start), then
// byte-align and copy the uncovered bytes into the gaps before, between and
// after the placed patterns, in order. If materialize is
// false, pattern bytes are still looked up (to validate the code and
// advance the bit cursor) but never copied, matching skip()'s contract.
func (g *Getter) decodeWord(materialize bool) (word []byte, length int, err error) {
	defer errs.Recover(&err)

	lp1 := g.d.positionTable.Decode(&g.r)
	errs.Assert(lp1 >= 1, ErrFormat)
	length = int(lp1 - 1)

	if materialize {
		if cap(g.buf) < length {
			g.buf = make([]byte, length)
		}
		g.buf = g.buf[:length]
	}

	bufPos := 0  // start of the most recently placed pattern
	covered := 0 // total bytes supplied by patterns
	var spans [][2]int
	for {
		p := g.d.positionTable.Decode(&g.r)
		if p == 0 {
			break
		}
		bufPos += int(p - 1)
		patIdx := g.d.patternTable.Decode(&g.r)
		errs.Assert(int(patIdx) < len(g.d.patternBytes), ErrUnknownCode)
		pat := g.d.patternBytes[patIdx]
		errs.Assert(bufPos+len(pat) <= length, ErrFormat)
		if materialize {
			copy(g.buf[bufPos:], pat)
			spans = append(spans, [2]int{bufPos, bufPos + len(pat)})
		}
		covered += len(pat)
	}
	// The encoder only byte-aligns immediately before splicing in raw
	// uncovered bytes (encoder.go's encodePayload calls Flush only when
	// uncovered > 0); a fully pattern-covered word packs straight into the
	// next word's codes with no padding, so alignment here must be
	// conditional on the same thing.
	uncoveredLen := length - covered
	errs.Assert(uncoveredLen >= 0, ErrFormat)
	if uncoveredLen > 0 {
		g.r.AlignByte()
		errs.Assert(g.r.Pos+uncoveredLen <= len(g.r.Data), ErrFormat)
		raw := g.r.ReadRaw(uncoveredLen)
		if materialize {
			pos := 0
			for _, s := range spans {
				errs.Assert(s[0] >= pos, ErrFormat)
				raw = raw[copy(g.buf[pos:s[0]], raw):]
				pos = s[1]
			}
			copy(g.buf[pos:], raw)
		}
	}
	if !materialize {
		return nil, length, nil
	}
	return g.buf[:length], length, nil
}

// Next decodes and returns the next word. The returned slice is only valid
// until the next call to Next on this Getter (it reuses an internal
// buffer); callers that need to retain it must copy.
func (g *Getter) Next() ([]byte, error) {
	w, _, err := g.decodeWord(true)
	if err != nil {
		return nil, classify(err)
	}
	g.advance()
	return w, nil
}

// Skip advances past the next word without materializing its bytes.
func (g *Getter) Skip() error {
	_, _, err := g.decodeWord(false)
	if err != nil {
		return classify(err)
	}
	g.advance()
	return nil
}

// MatchPrefix reports whether the next word starts with prefix, then
// advances past it (consistent with Next/Skip's sequential contract).
func (g *Getter) MatchPrefix(prefix []byte) (bool, error) {
	w, _, err := g.decodeWord(true)
	if err != nil {
		return false, classify(err)
	}
	g.advance()
	return bytes.HasPrefix(w, prefix), nil
}

// MatchCmp lexicographically compares the next word against other
// (negative if the word sorts before other, zero if equal, positive if
// after), then advances past it.
func (g *Getter) MatchCmp(other []byte) (int, error) {
	w, _, err := g.decodeWord(true)
	if err != nil {
		return 0, classify(err)
	}
	g.advance()
	return bytes.Compare(w, other), nil
}

func (g *Getter) advance() {
	if g.remaining > 0 {
		g.remaining--
	}
}
