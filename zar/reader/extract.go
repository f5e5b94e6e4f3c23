package reader

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/indrora/zar/zar/format"
	zio "github.com/indrora/zar/zar/ioutil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnsafeName = errors.New("entry name cannot be used as a file name")
)

type ExtractOptions struct {
	// Refuse to extract into a destination that already exists.
	Exclusive bool
	// Progress and warnings; discarded when nil.
	Log logrus.FieldLogger
}

// SafeName returns the display name of e if it can be written as a plain
// file inside the destination directory.
func SafeName(e format.Entry) (string, error) {
	name := e.Name.String()
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\\x00") || filepath.Base(name) != name {
		return "", errors.Wrapf(ErrUnsafeName, "%q", name)
	}
	return name, nil
}

// ExtractAll writes every entry to dest in directory order and returns the
// number of files written. An entry whose name repeats an earlier one
// overwrites it. Extraction stops at the first failing entry.
func (reader *Reader) ExtractAll(dest string, opts ExtractOptions) (int, error) {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	if opts.Exclusive {
		if _, err := os.Stat(dest); err == nil {
			return 0, &fs.PathError{Op: "extract", Path: dest, Err: fs.ErrExist}
		}
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, errors.Wrap(err, "failed to create destination")
	}

	written := 0
	seen := map[string]int{}
	for idx, e := range reader.entries {
		name, err := SafeName(e)
		if err != nil {
			return written, errors.Wrapf(err, "entry %d", idx)
		}
		sr, err := reader.EntryReader(e)
		if err != nil {
			return written, errors.Wrapf(err, "entry %d", idx)
		}

		fields := logrus.Fields{"entry": idx, "name": name, "offset": e.Offset, "size": e.Size}
		if prev, dup := seen[name]; dup {
			log.WithFields(fields).Warnf("overwriting entry %d with the same name", prev)
		}
		seen[name] = idx

		path := filepath.Join(dest, name)
		err = zio.WriteFileAtomic(path, func(w io.Writer) error {
			_, err := io.Copy(w, sr)
			return err
		})
		if err != nil {
			return written, errors.Wrapf(err, "extracting %s", name)
		}
		log.WithFields(fields).Debug("extracted")
		written++
	}
	return written, nil
}

// Extract opens the archive at path and extracts it into dest.
func Extract(path, dest string, opts ExtractOptions) (int, error) {
	f, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return f.ExtractAll(dest, opts)
}
