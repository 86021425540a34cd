package seg

import "github.com/dwerner/segcodec/internal/prefixcode"

// Error is the wrapper type for errors specific to this package, mirroring
// dsnet-compress's per-codec Error convention.
type Error string

func (e Error) Error() string { return string(e) }

// Error kinds, per spec section 7.
var (
	// ErrIO reports a failure from the underlying storage (scratch file,
	// intermediate file, or the final/mapped output file).
	ErrIO = Error("seg: I/O error")

	// ErrFormat reports a structural problem with a .seg file: a header
	// mismatch, a truncated dictionary, a depth exceeding 50, or a varint
	// that runs past its buffer.
	ErrFormat = Error("seg: invalid format")

	// ErrUnknownCode reports that decoded bits have no entry in either
	// Huffman dictionary.
	ErrUnknownCode = Error("seg: unknown code")

	// ErrInvalidConfig reports a Config that fails validation, such as
	// MinPatternLen > MaxPatternLen.
	ErrInvalidConfig = Error("seg: invalid config")
)

// classify maps an internal panic value (as recovered at an exported
// boundary via github.com/dsnet/golib/errs) onto one of this package's
// Error kinds. Any other error value is reported as ErrIO; a panic value
// that is not an error at all is re-raised.
func classify(v any) error {
	switch v {
	case nil:
		return nil
	case prefixcode.ErrFormat:
		return ErrFormat
	case prefixcode.ErrUnknownCode:
		return ErrUnknownCode
	}
	if e, ok := v.(Error); ok {
		return e
	}
	if _, ok := v.(error); ok {
		return ErrIO
	}
	panic(v)
}
