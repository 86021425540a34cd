package seg

import (
	"os"

	"golang.org/x/sys/unix"
)

// mappedFile owns a read-only memory mapping of a finalized .seg file. The
// mapping must outlive every Getter created against it (spec section 5); Data
// is read-only and never copied by the Decompressor itself.
type mappedFile struct {
	f    *os.File
	Data []byte
}

func mmapOpen(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrIO
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ErrIO
	}
	size := fi.Size()
	if size == 0 {
		// unix.Mmap rejects a zero-length mapping; an empty .seg file (no
		// header at all) is a format error, not a valid empty corpus (spec
		// section 8 S2 still writes the fixed header, even for zero words).
		f.Close()
		return nil, ErrFormat
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, ErrIO
	}
	return &mappedFile{f: f, Data: data}, nil
}

func (m *mappedFile) Close() error {
	if m.Data != nil {
		_ = unix.Munmap(m.Data)
		m.Data = nil
	}
	return m.f.Close()
}
