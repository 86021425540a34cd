package seg

import (
	"fmt"
	"os"

	"github.com/dsnet/golib/strconv"
)

// Stats summarizes one completed Compress pass, supplementing spec section
// 6.2 with the summary original_source/src/bin/snapshot-reader.rs prints at
// the end of a compress run — reimplemented here as a value a caller's own
// front end can report however it likes, since logging itself is out of
// scope for this package.
type Stats struct {
	WordsCount      uint64
	EmptyWordsCount uint64
	DictionaryWords int
	InputBytes      uint64
	OutputBytes     uint64
}

// String renders Stats using dsnet/golib/strconv's binary-prefix formatter,
// matching the teacher corpus's own bench-tool summary style.
func (s Stats) String() string {
	ratio := 0.0
	if s.OutputBytes > 0 {
		ratio = float64(s.InputBytes) / float64(s.OutputBytes)
	}
	return fmt.Sprintf("%s -> %s (%d patterns, ratio %.2fx)",
		strconv.FormatPrefix(float64(s.InputBytes), strconv.Base1024, 2),
		strconv.FormatPrefix(float64(s.OutputBytes), strconv.Base1024, 2),
		s.DictionaryWords, ratio)
}

// Stats returns a summary of the most recently completed Compress call. It
// returns an error if called before Compress has returned successfully at
// least once, since stats are only meaningful after a finished pass.
func (c *Compressor) Stats() (Stats, error) {
	if c.dict == nil || c.res == nil {
		return Stats{}, Error("seg: Stats called before a successful Compress")
	}
	fi, err := os.Stat(c.outputPath)
	if err != nil {
		return Stats{}, ErrIO
	}
	return Stats{
		WordsCount:      c.res.WordsCount,
		EmptyWordsCount: c.res.EmptyWordsCount,
		DictionaryWords: c.dict.Len(),
		InputBytes:      c.res.InputBytes,
		OutputBytes:     uint64(fi.Size()),
	}, nil
}
