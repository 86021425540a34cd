package prefixcode

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return string(e) }

var (
	// ErrFormat reports a depth sequence that cannot form a valid prefix
	// code: a zero or over-long depth, or a tree that is under/over
	// subscribed.
	ErrFormat = Error("prefixcode: invalid depth sequence")

	// ErrUnknownCode reports that a decoded bit pattern has no leaf in the
	// table — a truncated or corrupted payload.
	ErrUnknownCode = Error("prefixcode: unknown code")
)
