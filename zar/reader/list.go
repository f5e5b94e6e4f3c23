package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/indrora/zar/zar/format"
	zio "github.com/indrora/zar/zar/ioutil"
	"github.com/pkg/errors"
)

// Column widths follow the field widths of the format: three digits of
// index, an 8.3 name plus dot, and five digits for 16-bit sizes and offsets.
const (
	listRow    = "%3d  %-12s  %5dB %5d\n"
	listHeader = "%3s  %-12s  %6s %5s\n"
)

// List writes the directory as a table of index, name, size and offset.
// No payload is read.
func List(w io.Writer, entries []format.Entry) error {
	if _, err := fmt.Fprintf(w, listHeader, "Idx", "Filename", "Size", "Pos"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, listHeader, strings.Repeat("-", 3), strings.Repeat("-", 12), strings.Repeat("-", 6), strings.Repeat("-", 5)); err != nil {
		return err
	}
	for idx, e := range entries {
		if _, err := fmt.Fprintf(w, listRow, idx, e.Name.String(), e.Size, e.Offset); err != nil {
			return err
		}
	}
	return nil
}

// Record is the machine-readable form of one directory entry.
type Record struct {
	Index  int    `json:"index" yaml:"index" cbor:"0,keyasint"`
	Name   string `json:"name" yaml:"name" cbor:"1,keyasint"`
	Offset uint16 `json:"offset" yaml:"offset" cbor:"2,keyasint"`
	Size   uint16 `json:"size" yaml:"size" cbor:"3,keyasint"`
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty" cbor:"4,keyasint,omitempty"`
}

// Records describes the directory. With digests set, each payload is read
// and its BLAKE2b-256 digest recorded.
func (reader *Reader) Records(digests bool) ([]Record, error) {
	out := make([]Record, 0, len(reader.entries))
	for idx, e := range reader.entries {
		rec := Record{Index: idx, Name: e.Name.String(), Offset: e.Offset, Size: e.Size}
		if digests {
			sr, err := reader.EntryReader(e)
			if err != nil {
				return nil, errors.Wrapf(err, "entry %d", idx)
			}
			if rec.Digest, err = zio.Digest(sr); err != nil {
				return nil, errors.Wrapf(err, "entry %d", idx)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
