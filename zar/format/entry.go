package format

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	MAX_BASENAME  = 8
	MAX_EXTENSION = 3
	MAX_FILENAME  = MAX_BASENAME + MAX_EXTENSION
)

// ShortName is the on-disk 8.3 name: eight bytes of base name followed by
// three bytes of extension, each half NUL-padded on the right.
type ShortName [MAX_FILENAME]byte

// Entry is one directory record.
type Entry struct {
	// Absolute position of the payload within the archive
	Offset uint16
	// Payload length in bytes
	Size uint16
	// 8.3 short name
	Name ShortName
}

// NewShortName packs base and ext into a ShortName, truncating each half to
// its field width. No character filtering happens here.
func NewShortName(base, ext string) ShortName {
	var n ShortName
	copy(n[:MAX_BASENAME], truncate(base, MAX_BASENAME))
	copy(n[MAX_BASENAME:], truncate(ext, MAX_EXTENSION))
	return n
}

// ParseShortName is the reverse of ShortName.String: it splits a display
// name at its last dot, drops everything but ASCII letters and digits and
// re-pads both halves.
func ParseShortName(display string) ShortName {
	base, ext := display, ""
	if i := strings.LastIndexByte(display, '.'); i >= 0 {
		base, ext = display[:i], display[i+1:]
	}
	return NewShortName(Clean(base), Clean(ext))
}

// Clean drops every byte that is not an ASCII letter or digit.
func Clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, s)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func (n ShortName) Base() string {
	return strings.TrimRight(string(n[:MAX_BASENAME]), "\x00")
}

func (n ShortName) Ext() string {
	return strings.TrimRight(string(n[MAX_BASENAME:]), "\x00")
}

// String returns the display name, BASE.EXT. The dot is always present, so an
// entry without an extension reads BASE.
func (n ShortName) String() string {
	return n.Base() + "." + n.Ext()
}

func (n ShortName) IsZero() bool {
	return n == ShortName{}
}

// End is the position one past the entry's last payload byte.
func (e Entry) End() int {
	return int(e.Offset) + int(e.Size)
}

func (e *Entry) ToBytes() []byte {

	b := new(bytes.Buffer)

	e.WriteEntry(b)

	return b.Bytes()

}

func (e *Entry) WriteEntry(w io.Writer) error {

	if err := binary.Write(w, binary.LittleEndian, e.Offset); err != nil {
		return errors.Wrap(err, "failed to write directory entry")
	}
	if err := binary.Write(w, binary.LittleEndian, e.Size); err != nil {
		return errors.Wrap(err, "failed to write directory entry")
	}
	if err := binary.Write(w, binary.LittleEndian, e.Name); err != nil {
		return errors.Wrap(err, "failed to write directory entry")
	}
	return nil
}

// ReadEntry reads one 15-byte directory record.
func ReadEntry(r io.Reader) (Entry, error) {
	var buf [ENTRY_SIZE]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Entry{}, errors.Wrap(ErrTruncated, "reading directory")
		}
		return Entry{}, errors.Wrap(err, "failed to read directory entry")
	}
	e := Entry{
		Offset: binary.LittleEndian.Uint16(buf[0:]),
		Size:   binary.LittleEndian.Uint16(buf[2:]),
	}
	copy(e.Name[:], buf[4:])
	return e, nil
}

// WriteDirectory writes the header for len(entries) followed by every entry.
func WriteDirectory(w io.Writer, entries []Entry) error {
	h, err := NewHeader(len(entries))
	if err != nil {
		return err
	}
	if err := h.WriteHeader(w); err != nil {
		return err
	}
	for i := range entries {
		if err := entries[i].WriteEntry(w); err != nil {
			return errors.Wrapf(err, "entry %d", i)
		}
	}
	return nil
}

// ReadDirectory reads the header and the directory that follows it.
func ReadDirectory(r io.Reader) (Header, []Entry, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	entries := make([]Entry, 0, h.Count)
	for i := 0; i < int(h.Count); i++ {
		e, err := ReadEntry(r)
		if err != nil {
			return Header{}, nil, errors.Wrapf(err, "entry %d of %d", i, h.Count)
		}
		entries = append(entries, e)
	}
	return h, entries, nil
}
