package ioutil

import (
	"io"

	"github.com/pkg/errors"
)

// ErrSizeMismatch is returned by CopyExactly when the source holds more or
// fewer bytes than requested.
var ErrSizeMismatch = errors.New("source size does not match")

// CountingWriter tracks the absolute position of everything written through
// it, so the archive writer can check each payload lands on the offset its
// directory entry promised.
type CountingWriter struct {
	writer  io.Writer
	written int64
}

func NewCountingWriter(destination io.Writer) *CountingWriter {
	return &CountingWriter{
		writer:  destination,
		written: 0,
	}
}

func (k *CountingWriter) Write(p []byte) (n int, err error) {
	written, err := k.writer.Write(p)
	k.written += int64(written)
	return written, err
}

// Written is the number of bytes that reached the underlying writer.
func (k *CountingWriter) Written() int64 {
	return k.written
}

// CopyExactly copies exactly n bytes from src. Fewer or more bytes available
// in src is an error: sources must not change size between stat and copy.
func (k *CountingWriter) CopyExactly(src io.Reader, n int64) error {
	copied, err := io.CopyN(k, src, n)
	if err != nil {
		if err == io.EOF {
			return errors.Wrapf(ErrSizeMismatch, "copied %d of %d bytes", copied, n)
		}
		return errors.Wrap(err, "failed to copy payload")
	}

	extra, err := io.CopyN(io.Discard, src, 1)
	if extra != 0 {
		return errors.Wrapf(ErrSizeMismatch, "source has more than %d bytes", n)
	}
	if err != io.EOF {
		return errors.Wrap(err, "failed to check payload end")
	}
	return nil
}

func (k *CountingWriter) Close() error {
	if closer, ok := k.writer.(io.Closer); ok {
		return closer.Close()
	} else {
		return nil
	}
}
