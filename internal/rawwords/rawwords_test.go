package rawwords

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendForEachRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.raw")
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}

	type rec struct {
		word         []byte
		uncompressed bool
	}
	want := []rec{
		{[]byte("hello"), false},
		{[]byte(""), false},
		{[]byte("world"), true},
		{[]byte("x"), false},
	}
	for _, r := range want {
		if err := f.Append(r.word, r.uncompressed); err != nil {
			t.Fatal(err)
		}
	}
	if f.Count() != uint64(len(want)) {
		t.Fatalf("Count() = %d, want %d", f.Count(), len(want))
	}
	wantBytes := uint64(len("hello") + len("") + len("world") + len("x"))
	if st := f.Stats(); st.Count != uint64(len(want)) || st.Bytes != wantBytes {
		t.Fatalf("Stats() = %+v, want {Count:%d Bytes:%d}", st, len(want), wantBytes)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	var got []rec
	err = ForEach(path, func(word []byte, uncompressed bool) error {
		got = append(got, rec{append([]byte(nil), word...), uncompressed})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if !bytes.Equal(got[i].word, want[i].word) || got[i].uncompressed != want[i].uncompressed {
			t.Fatalf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestForEachTruncatedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.raw")
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Append([]byte("hello"), false); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	// Chop off the last byte of the word, leaving a length prefix whose
	// payload is short.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-1], 0o644); err != nil {
		t.Fatal(err)
	}

	err = ForEach(path, func(word []byte, uncompressed bool) error { return nil })
	if err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestCloseAndRemoveIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.raw")
	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.CloseAndRemove(); err != nil {
		t.Fatal(err)
	}
	if err := f.CloseAndRemove(); err != nil {
		t.Fatalf("second CloseAndRemove should be a no-op, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected the spill file to be gone")
	}
}
