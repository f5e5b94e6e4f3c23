package format

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

/*

The header sits at the very start of the archive and is followed directly by
the directory.

struct ZAR_HEADER {
    uint8_t magic[3];       // "ZAR"
    uint8_t version;        // 0
    uint8_t entry_count;    // 0-255
}

*/

const (
	MAGIC_STRING = "ZAR"
	ZAR_VERSION  = 0
)

var (
	MAGIC_BYTES = [3]byte{'Z', 'A', 'R'}
)

const (
	// Size of the magic + version + count preamble.
	HEADER_SIZE = 5
	// Size of one directory record: offset(2) + size(2) + short name(11).
	ENTRY_SIZE = 2 + 2 + MAX_FILENAME
)

// Format limits. Offsets and sizes are uint16 fields, so neither a single
// payload nor the archive as a whole can grow past what they address.
const (
	MAX_ENTRIES      = 255
	MAX_FILE_SIZE    = 0xFFFF
	MAX_ARCHIVE_SIZE = 0xFFFF
)

type Header struct {
	// Magic value, must be MAGIC_BYTES
	Magic [3]byte
	// Format version, currently ZAR_VERSION
	Version uint8
	// Number of directory entries that follow
	Count uint8
}

func NewHeader(count int) (Header, error) {
	if count < 0 || count > MAX_ENTRIES {
		return Header{}, errors.Wrapf(ErrCapacity, "%d entries", count)
	}
	return Header{
		Magic:   MAGIC_BYTES,
		Version: ZAR_VERSION,
		Count:   uint8(count),
	}, nil
}

// HeaderSize is the number of bytes preceding the payload region of an
// archive holding n entries.
func HeaderSize(n int) int {
	return HEADER_SIZE + ENTRY_SIZE*n
}

func (h *Header) ToBytes() []byte {

	b := new(bytes.Buffer)

	h.WriteHeader(b)

	return b.Bytes()

}

func (h *Header) WriteHeader(w io.Writer) error {

	if err := binary.Write(w, binary.LittleEndian, h.Magic); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if err := binary.Write(w, binary.LittleEndian, h.Version); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if err := binary.Write(w, binary.LittleEndian, h.Count); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	return nil
}

// ReadHeader reads and validates the archive header. A foreign file is
// reported as ErrBadMagic even when it is shorter than a header; a short
// read that still starts like "ZAR" is ErrTruncated.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HEADER_SIZE]byte
	if n, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if got := buf[:min(n, len(MAGIC_BYTES))]; !bytes.Equal(got, MAGIC_BYTES[:len(got)]) {
				return Header{}, errors.Wrapf(ErrBadMagic, "%q", got)
			}
			return Header{}, errors.Wrap(ErrTruncated, "reading header")
		}
		return Header{}, errors.Wrap(err, "failed to read header")
	}

	h := Header{Version: buf[3], Count: buf[4]}
	copy(h.Magic[:], buf[:3])

	if h.Magic != MAGIC_BYTES {
		return Header{}, errors.Wrapf(ErrBadMagic, "%q", h.Magic[:])
	}
	if h.Version > ZAR_VERSION {
		return Header{}, errors.Wrapf(ErrUnsupportedVersion, "%d > %d", h.Version, ZAR_VERSION)
	}
	return h, nil
}
