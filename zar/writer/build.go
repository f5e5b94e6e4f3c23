package writer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/indrora/zar/zar/format"
	zio "github.com/indrora/zar/zar/ioutil"
	"github.com/indrora/zar/zar/shortname"
	"github.com/pkg/errors"
)

// FileSource describes the file at path, archived under name.
func FileSource(path string, name format.ShortName) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, errors.Wrap(err, "failed to stat source")
	}
	if !info.Mode().IsRegular() {
		return Source{}, errors.Errorf("%q is not a regular file", path)
	}
	return Source{
		Path: path,
		Name: name,
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// BytesSource archives data under name.
func BytesSource(name format.ShortName, data []byte) Source {
	return Source{
		Path: name.String(),
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Sources names paths in order and stats each of them. Nothing is opened.
func Sources(paths []string) ([]Source, error) {
	if len(paths) > format.MAX_ENTRIES {
		return nil, errors.Wrapf(format.ErrCapacity, "%d files", len(paths))
	}

	assigned, err := shortname.EncodeAll(paths)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(assigned))
	for _, a := range assigned {
		src, err := FileSource(a.Path, a.Name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Write archives sources to w in order and returns the directory written.
func Write(w io.Writer, sources []Source, opts ...Option) ([]format.Entry, error) {
	archive := NewWriter(w, opts...)
	for _, src := range sources {
		if err := archive.Append(src); err != nil {
			return nil, err
		}
	}
	if err := archive.Close(); err != nil {
		return nil, err
	}
	return archive.Entries(), nil
}

// Build archives the files at paths, in the order given, to w.
func Build(w io.Writer, paths []string, opts ...Option) ([]format.Entry, error) {
	sources, err := Sources(paths)
	if err != nil {
		return nil, err
	}
	return Write(w, sources, opts...)
}

// BuildFile archives the files at paths into dest. The archive is written to
// a temporary file next to dest and renamed into place once complete, so a
// failed build leaves dest untouched.
func BuildFile(dest string, paths []string, opts ...Option) ([]format.Entry, error) {
	sources, err := Sources(paths)
	if err != nil {
		return nil, err
	}
	// Fail on limits before a temporary file exists.
	if _, err := Layout(sources); err != nil {
		return nil, err
	}

	var entries []format.Entry
	err = zio.WriteFileAtomic(dest, func(w io.Writer) error {
		var werr error
		entries, werr = Write(w, sources, opts...)
		return werr
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSources returns the absolute paths of the regular files directly in
// dir, sorted by name. Dot-files are skipped unless includeHidden is set.
func ListSources(dir string, includeHidden bool) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving input directory")
	}
	dirents, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Wrap(err, "listing input directory")
	}

	paths := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if !includeHidden && strings.HasPrefix(d.Name(), ".") {
			continue
		}
		full := filepath.Join(abs, d.Name())
		// Resolve symlinks; only regular files can be archived.
		info, err := os.Stat(full)
		if err != nil {
			return nil, errors.Wrap(err, "failed to stat source")
		}
		if !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, full)
	}
	sort.Strings(paths)
	return paths, nil
}
