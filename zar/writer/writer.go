package writer

import (
	"io"

	"github.com/indrora/zar/zar/format"
	zio "github.com/indrora/zar/zar/ioutil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrClosed = errors.New("archive writer already closed")
)

// Source is one file to be archived. Size must be the exact number of bytes
// Open will yield.
type Source struct {
	Path string
	Name format.ShortName
	Size int64
	Open func() (io.ReadCloser, error)
}

type Option func(*ArchiveWriter)

// WithLogger sends per-entry progress to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(archive *ArchiveWriter) {
		archive.log = log
	}
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// ArchiveWriter collects sources and writes them out as one archive on
// Close. Nothing reaches the underlying writer before Close, since the
// directory has to be complete before the first payload byte.
type ArchiveWriter struct {
	fileio  io.Writer
	sources []Source
	names   map[format.ShortName]struct{}
	entries []format.Entry
	log     logrus.FieldLogger
	closed  bool
}

func NewWriter(file io.Writer, opts ...Option) *ArchiveWriter {

	archive := &ArchiveWriter{
		fileio: file,
		names:  map[format.ShortName]struct{}{},
		log:    discardLogger(),
	}
	for _, opt := range opts {
		opt(archive)
	}
	return archive

}

// Append queues src. Capacity, per-file size and name uniqueness are checked
// here; the total archive size is checked on Close.
func (archive *ArchiveWriter) Append(src Source) error {
	if archive.closed {
		return ErrClosed
	}
	if len(archive.sources) >= format.MAX_ENTRIES {
		return errors.Wrapf(format.ErrCapacity, "appending %q", src.Path)
	}
	if src.Size < 0 || src.Size > format.MAX_FILE_SIZE {
		return errors.Wrapf(format.ErrFileTooLarge, "%q is %d bytes", src.Path, src.Size)
	}
	if _, dup := archive.names[src.Name]; dup {
		return errors.Wrapf(format.ErrDuplicateName, "%q as %s", src.Path, src.Name)
	}
	if src.Open == nil {
		return errors.Errorf("source %q has nothing to open", src.Path)
	}

	archive.names[src.Name] = struct{}{}
	archive.sources = append(archive.sources, src)
	return nil
}

// Layout assigns offsets to sources: a running sum starting right after the
// directory, with no gaps between payloads.
func Layout(sources []Source) ([]format.Entry, error) {
	if len(sources) > format.MAX_ENTRIES {
		return nil, errors.Wrapf(format.ErrCapacity, "%d files", len(sources))
	}

	entries := make([]format.Entry, 0, len(sources))
	pointer := int64(format.HeaderSize(len(sources)))
	for _, src := range sources {
		if src.Size < 0 || src.Size > format.MAX_FILE_SIZE {
			return nil, errors.Wrapf(format.ErrFileTooLarge, "%q is %d bytes", src.Path, src.Size)
		}
		if pointer+src.Size > format.MAX_ARCHIVE_SIZE {
			return nil, errors.Wrapf(format.ErrArchiveTooLarge, "%q would end at byte %d", src.Path, pointer+src.Size)
		}
		entries = append(entries, format.Entry{
			Offset: uint16(pointer),
			Size:   uint16(src.Size),
			Name:   src.Name,
		})
		pointer += src.Size
	}
	return entries, nil
}

// Close writes the header, the directory and every payload in the order
// the sources were appended. On error the destination may hold a partial
// archive; BuildFile avoids exposing it.
func (archive *ArchiveWriter) Close() error {
	if archive.closed {
		return ErrClosed
	}
	archive.closed = true

	entries, err := Layout(archive.sources)
	if err != nil {
		return err
	}

	out := zio.NewCountingWriter(archive.fileio)
	if err := format.WriteDirectory(out, entries); err != nil {
		return errors.Wrap(err, "failed to write to underlying stream")
	}

	for idx, entry := range entries {
		src := archive.sources[idx]
		if out.Written() != int64(entry.Offset) {
			return errors.Wrapf(format.ErrLayout, "entry %d at %d, expected %d", idx, out.Written(), entry.Offset)
		}

		archive.log.WithFields(logrus.Fields{
			"entry":  idx,
			"name":   entry.Name.String(),
			"offset": entry.Offset,
			"size":   entry.Size,
			"path":   src.Path,
		}).Debug("archiving")

		if err := archive.copySource(out, src); err != nil {
			return err
		}
	}

	archive.entries = entries
	return nil
}

func (archive *ArchiveWriter) copySource(out *zio.CountingWriter, src Source) error {
	reader, err := src.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", src.Path)
	}
	defer reader.Close()

	if err := out.CopyExactly(reader, src.Size); err != nil {
		if errors.Is(err, zio.ErrSizeMismatch) {
			return errors.Wrapf(format.ErrShortPayload, "%q: %v", src.Path, err)
		}
		return errors.Wrapf(err, "archiving %q", src.Path)
	}
	return nil
}

// Entries returns the directory written by Close, or nil before it.
func (archive *ArchiveWriter) Entries() []format.Entry {
	return append([]format.Entry(nil), archive.entries...)
}
