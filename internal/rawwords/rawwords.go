// Package rawwords implements the raw-words spill file (format section
// 4.1): a durable, ordered append log of submitted words that lets the
// compressor's first pass run without holding the whole corpus in memory,
// and be replayed forward on the second pass.
package rawwords

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/golib/strconv"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return string(e) }

// ErrTruncated reports a spill file that ends mid-record — the compress
// pass that wrote it must be restarted, per format section 4.1.
const ErrTruncated = Error("rawwords: truncated record")

// File is a single-writer, single-reader spill file of (flag, length, bytes)
// triples. A File is created fresh by Create and is not safe for concurrent
// Append calls.
type File struct {
	path  string
	f     *os.File
	w     *bufio.Writer
	count uint64
	bytes uint64
}

// Create opens a new spill file at path, truncating any existing content.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, Error("rawwords: " + err.Error())
	}
	return &File{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Count returns the number of words appended so far.
func (rw *File) Count() uint64 { return rw.count }

// Stats summarizes the spill file's contents as written so far: how many
// words it holds and how many raw source bytes they total, supplementing
// spec section 4.1 the way seg.Compressor.Stats supplements section 6.2.
type Stats struct {
	Count uint64
	Bytes uint64
}

// String renders Stats using dsnet/golib/strconv's binary-prefix formatter,
// matching the teacher corpus's own bench-tool summary style.
func (s Stats) String() string {
	return fmt.Sprintf("%d words, %s", s.Count, strconv.FormatPrefix(float64(s.Bytes), strconv.Base1024, 2))
}

// Stats returns the word count and total source bytes appended so far.
func (rw *File) Stats() Stats {
	return Stats{Count: rw.count, Bytes: rw.bytes}
}

// Append writes word, prefixed by varint(2*len(word) + flag) where flag is 0
// for a compressible word and 1 for an uncompressed one, per format section
// 4.1.
func (rw *File) Append(word []byte, uncompressed bool) error {
	n := uint64(len(word)) * 2
	if uncompressed {
		n |= 1
	}
	var buf [binary.MaxVarintLen64]byte
	nb := binary.PutUvarint(buf[:], n)
	if _, err := rw.w.Write(buf[:nb]); err != nil {
		return Error("rawwords: " + err.Error())
	}
	if len(word) > 0 {
		if _, err := rw.w.Write(word); err != nil {
			return Error("rawwords: " + err.Error())
		}
	}
	rw.count++
	rw.bytes += uint64(len(word))
	return nil
}

// Flush pushes buffered writes to the underlying file without closing it.
func (rw *File) Flush() error {
	if err := rw.w.Flush(); err != nil {
		return Error("rawwords: " + err.Error())
	}
	return nil
}

// Close flushes and closes the spill file, leaving it on disk.
func (rw *File) Close() error {
	if err := rw.Flush(); err != nil {
		return err
	}
	if err := rw.f.Close(); err != nil {
		return Error("rawwords: " + err.Error())
	}
	return nil
}

// CloseAndRemove flushes, closes, and deletes the spill file. Safe to call
// more than once.
func (rw *File) CloseAndRemove() error {
	_ = rw.Close()
	if err := os.Remove(rw.path); err != nil && !os.IsNotExist(err) {
		return Error("rawwords: " + err.Error())
	}
	return nil
}

// Visit is called once per record, in insertion order, during ForEach.
type Visit func(word []byte, uncompressed bool) error

// ForEach reopens the spill file for reading and replays every record in
// insertion order, in a single forward pass.
func ForEach(path string, visit Visit) error {
	f, err := os.Open(path)
	if err != nil {
		return Error("rawwords: " + err.Error())
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		n, err := binary.ReadUvarint(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return ErrTruncated
		}
		length := n >> 1
		uncompressed := n&1 != 0
		word := make([]byte, length)
		if length > 0 {
			if _, err := io.ReadFull(r, word); err != nil {
				return ErrTruncated
			}
		}
		if err := visit(word, uncompressed); err != nil {
			return err
		}
	}
}
