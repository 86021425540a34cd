// Package superstring builds the sampled "superstring" buffers the pattern
// miner runs a suffix array over (format section 4.2/6). Each source byte
// is widened to a (0x01, b) pair and each word boundary becomes a (0x00,
// 0x00) pair, so that a mined substring can only start on an even offset
// (the 0x01 marker of a pair) and a word boundary shows up as a pair with
// no 0x01 marker: the miner cuts a candidate short at the first such pair,
// so a pattern never straddles a word boundary.
package superstring

// DefaultLimit is the maximum size in bytes of a single superstring buffer
// (2^30, per section 2 of the format).
const DefaultLimit = 1 << 30

// Encode appends word's doubled-alphabet encoding, followed by the (0,0)
// word-boundary marker, to dst.
func Encode(dst, word []byte) []byte {
	for _, b := range word {
		dst = append(dst, 0x01, b)
	}
	return append(dst, 0x00, 0x00)
}

// EncodedLen returns the number of doubled-alphabet bytes Encode would
// append for a word of length n, including its boundary marker.
func EncodedLen(n int) int {
	return 2*n + 2
}

// Builder accumulates sampled words into superstring buffers, sealing one
// and starting a fresh buffer whenever the next word would push it past
// limit.
type Builder struct {
	limit int
	cur   []byte
}

// NewBuilder returns a Builder that seals buffers at limit bytes. A limit of
// 0 uses DefaultLimit.
func NewBuilder(limit int) *Builder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Builder{limit: limit}
}

// Add admits word into the current superstring. If doing so would exceed
// the configured limit, the current buffer is sealed and returned first
// (with didSeal=true), and word starts a fresh buffer.
func (b *Builder) Add(word []byte) (sealed []byte, didSeal bool) {
	need := EncodedLen(len(word))
	if len(b.cur)+need > b.limit && len(b.cur) > 0 {
		sealed, didSeal = b.cur, true
		b.cur = nil
	}
	b.cur = Encode(b.cur, word)
	return sealed, didSeal
}

// Final seals and returns whatever remains in the current buffer, resetting
// the Builder. Returns nil if nothing is pending.
func (b *Builder) Final() []byte {
	if len(b.cur) == 0 {
		return nil
	}
	rest := b.cur
	b.cur = nil
	return rest
}
