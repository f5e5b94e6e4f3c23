package reader

import (
	"io"
	"os"

	"github.com/indrora/zar/zar/format"
	"github.com/pkg/errors"
)

// The reader is much simpler than the writer: the directory is parsed once
// up front and payloads are served straight from the underlying ReaderAt.

type Reader struct {
	stream  io.ReaderAt
	size    int64
	header  format.Header
	entries []format.Entry
}

// NewReader parses the header and directory of the size-byte archive in r.
// Payloads are not read.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	h, entries, err := format.ReadDirectory(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	return &Reader{
		stream:  r,
		size:    size,
		header:  h,
		entries: entries,
	}, nil
}

// File is a Reader over an archive on disk.
type File struct {
	*Reader
	fileh *os.File
}

func Open(path string) (*File, error) {
	fileh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open archive")
	}
	st, err := fileh.Stat()
	if err != nil {
		fileh.Close()
		return nil, errors.Wrap(err, "failed to stat archive")
	}
	r, err := NewReader(fileh, st.Size())
	if err != nil {
		fileh.Close()
		return nil, errors.Wrapf(err, "%s", path)
	}
	return &File{Reader: r, fileh: fileh}, nil
}

func (f *File) Close() error {
	return f.fileh.Close()
}

func (reader *Reader) Version() uint8 {
	return reader.header.Version
}

func (reader *Reader) Header() format.Header {
	return reader.header
}

// Size is the length of the archive in bytes.
func (reader *Reader) Size() int64 {
	return reader.size
}

func (reader *Reader) Len() int {
	return len(reader.entries)
}

// Entries returns the directory in on-disk order.
func (reader *Reader) Entries() []format.Entry {
	return append([]format.Entry(nil), reader.entries...)
}

func (reader *Reader) Entry(index int) (format.Entry, error) {
	if index < 0 || index >= len(reader.entries) {
		return format.Entry{}, errors.Wrapf(format.ErrNoSuchEntry, "index %d of %d", index, len(reader.entries))
	}
	return reader.entries[index], nil
}

// IndexOf returns the index of the first entry whose name matches name, or
// -1. name is normalized the way short names are built, so "read-me.txt"
// finds "readme.txt". Matching is case sensitive.
func (reader *Reader) IndexOf(name string) int {
	want := format.ParseShortName(name)
	for idx, e := range reader.entries {
		if e.Name == want {
			return idx
		}
	}
	return -1
}

func (reader *Reader) Lookup(name string) (format.Entry, error) {
	idx := reader.IndexOf(name)
	if idx < 0 {
		return format.Entry{}, errors.Wrapf(format.ErrNoSuchEntry, "%q", name)
	}
	return reader.entries[idx], nil
}

// EntryReader gives bounded access to the payload of e.
func (reader *Reader) EntryReader(e format.Entry) (*io.SectionReader, error) {
	if int64(e.End()) > reader.size {
		return nil, errors.Wrapf(format.ErrTruncated, "%s ends at %d, archive is %d bytes", e.Name, e.End(), reader.size)
	}
	return io.NewSectionReader(reader.stream, int64(e.Offset), int64(e.Size)), nil
}

func (reader *Reader) ReadPayload(e format.Entry) ([]byte, error) {
	sr, err := reader.EntryReader(e)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, e.Size)
	if _, err := io.ReadFull(sr, buf); err != nil {
		return nil, errors.Wrapf(err, "reading %s", e.Name)
	}
	return buf, nil
}

// Verify checks that the directory describes a packed archive: each payload
// starts where the previous one ended, the first right after the directory,
// and the last ends at the end of the archive.
func (reader *Reader) Verify() error {
	pointer := format.HeaderSize(len(reader.entries))
	for idx, e := range reader.entries {
		if int(e.Offset) != pointer {
			return errors.Wrapf(format.ErrLayout, "entry %d (%s) at %d, expected %d", idx, e.Name, e.Offset, pointer)
		}
		if int64(e.End()) > reader.size {
			return errors.Wrapf(format.ErrTruncated, "entry %d (%s) ends at %d, archive is %d bytes", idx, e.Name, e.End(), reader.size)
		}
		pointer = e.End()
	}
	if int64(pointer) != reader.size {
		return errors.Wrapf(format.ErrLayout, "%d trailing bytes after the last payload", reader.size-int64(pointer))
	}
	return nil
}
