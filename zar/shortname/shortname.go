// Package shortname assigns 8.3 short names to source files.
//
// Names are derived from the final path segment: the part before the last
// dot becomes the base, the part after it the extension, and anything that
// is not an ASCII letter or digit is dropped from both. The base is cut to
// eight characters and the extension to three. When two files land on the
// same name the later one is renumbered, keeping the first five characters of
// its base followed by a three-digit counter, so "report.doc" twice yields
// "report.doc" and "repor001.doc".
package shortname

import (
	"fmt"
	"path/filepath"

	"github.com/indrora/zar/zar/format"
	"github.com/pkg/errors"
)

const (
	counterDigits = 3
	maxCounter    = 999
	keepBase      = format.MAX_BASENAME - counterDigits
)

// Assignment pairs a source path with the short name it was given.
type Assignment struct {
	Path string
	Name format.ShortName
}

// Encoder holds the collision state of one archive build. It is not safe
// for concurrent use; make a new one per archive.
type Encoder struct {
	seen     map[format.ShortName]int
	assigned map[format.ShortName]string
}

func NewEncoder() *Encoder {
	return &Encoder{
		seen:     map[format.ShortName]int{},
		assigned: map[format.ShortName]string{},
	}
}

// Split returns the cleaned base and extension of the final path segment.
func Split(path string) (base, ext string) {
	name := filepath.Base(path)
	dot := filepath.Ext(name)
	base = name[:len(name)-len(dot)]
	if dot != "" {
		ext = dot[1:]
	}
	return format.Clean(base), format.Clean(ext)
}

// Candidate is the short name a file gets when nothing collides with it.
func Candidate(path string) format.ShortName {
	base, ext := Split(path)
	return format.NewShortName(base, ext)
}

func renumber(base, ext string, n int) format.ShortName {
	if len(base) > keepBase {
		base = base[:keepBase]
	}
	return format.NewShortName(fmt.Sprintf("%s%0*d", base, counterDigits, n), ext)
}

// Encode assigns the next short name for path. Collision numbering depends
// on the order in which paths are encoded.
func (e *Encoder) Encode(path string) (format.ShortName, error) {
	base, ext := Split(path)
	if base == "" && ext == "" {
		return format.ShortName{}, errors.Wrapf(format.ErrEmptyName, "%q", path)
	}

	key := format.NewShortName(base, ext)
	n := e.seen[key]
	for {
		if n > maxCounter {
			return format.ShortName{}, errors.Wrapf(format.ErrNameCollisionOverflow, "%q (%s)", path, key)
		}

		name := key
		if n > 0 {
			name = renumber(base, ext, n)
		}
		n++

		if _, taken := e.assigned[name]; !taken {
			e.seen[key] = n
			e.assigned[name] = path
			return name, nil
		}
	}
}

// EncodeAll names every path with a fresh Encoder and returns the
// assignments in the order given.
func EncodeAll(paths []string) ([]Assignment, error) {
	if len(paths) > format.MAX_ENTRIES {
		return nil, errors.Wrapf(format.ErrCapacity, "%d files", len(paths))
	}

	enc := NewEncoder()
	out := make([]Assignment, 0, len(paths))
	for _, p := range paths {
		name, err := enc.Encode(p)
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Path: p, Name: name})
	}
	return out, nil
}
