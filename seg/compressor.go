// Package seg implements the dictionary-based segment codec: a
// Compressor that appends words to a scratch spill file and, on Compress,
// mines a pattern dictionary, covers every word with it, and emits a
// Huffman-coded .seg file; and a Decompressor that memory-maps a finished
// file and hands out independent Getter cursors over it.
package seg

import (
	"os"
	"path/filepath"

	"github.com/dwerner/segcodec/internal/patterndict"
	"github.com/dwerner/segcodec/internal/rawwords"
)

// Compressor accumulates words into a scratch spill file and, on Compress,
// runs the full encode pipeline (spec sections 4.2-4.10). A Compressor is
// single-producer: AddWord/AddUncompressedWord are not safe to call
// concurrently (spec section 5).
type Compressor struct {
	cfg        Config
	outputPath string
	scratchDir string

	rawWordsPath string
	rawWords     *rawwords.File

	dict *patterndict.Dictionary // set after Compress
	res  *intermediateResult     // set after Compress
	closed bool
}

// NewCompressor creates the scratch raw-words spill file and returns a
// Compressor ready to accept words. scratchDir must already exist.
func NewCompressor(outputPath, scratchDir string, cfg Config) (*Compressor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rawPath := filepath.Join(scratchDir, filepath.Base(outputPath)+".rawwords")
	rw, err := rawwords.Create(rawPath)
	if err != nil {
		return nil, ErrIO
	}
	return &Compressor{
		cfg:          cfg,
		outputPath:   outputPath,
		scratchDir:   scratchDir,
		rawWordsPath: rawPath,
		rawWords:     rw,
	}, nil
}

// AddWord appends a word that the compressor should try to cover with
// dictionary patterns.
func (c *Compressor) AddWord(word []byte) error {
	if err := c.rawWords.Append(word, false); err != nil {
		return ErrIO
	}
	return nil
}

// AddUncompressedWord appends a word that must be stored verbatim, bypassing
// pattern matching (spec section 4.8).
func (c *Compressor) AddUncompressedWord(word []byte) error {
	if err := c.rawWords.Append(word, true); err != nil {
		return ErrIO
	}
	return nil
}

// Compress runs the mining, cover, and encoding passes over every word
// appended so far, then atomically publishes outputPath. It is blocking and
// CPU-intensive (spec section 5); call it at most once per Compressor.
func (c *Compressor) Compress() error {
	if err := c.rawWords.Flush(); err != nil {
		return ErrIO
	}

	dict, err := buildDictionary(c.rawWordsPath, c.cfg)
	if err != nil {
		return err
	}
	c.dict = dict

	intermediatePath := c.outputPath + ".intermediate"
	res, err := runIntermediatePass(c.rawWordsPath, intermediatePath, dict)
	if err != nil {
		return err
	}
	c.res = res

	if err := runFinalEncode(intermediatePath, c.outputPath, dict, res); err != nil {
		return err
	}

	// Per spec section 4.13, encoder errors leave the tmp/intermediate
	// files on disk for diagnostics; only a successful pass removes the
	// intermediate scratch file.
	_ = os.Remove(intermediatePath)
	return nil
}

// Close removes scratch state (the raw-words spill file). Idempotent.
func (c *Compressor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rawWords.CloseAndRemove()
}
