// Package manifest loads YAML build manifests for zarc create.
//
// A manifest names the archive to write and either an input directory or an
// explicit, ordered list of files. Relative paths are resolved against the
// directory holding the manifest.
//
//	output: assets.zar
//	files:
//	  - readme.txt
//	  - notes.txt
//	header:
//	  path: assets.h
//	  prefix: ASSET_
package manifest

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/indrora/zar/zar/format"
	"github.com/indrora/zar/zar/writer"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalid = errors.New("invalid manifest")
)

type Header struct {
	Path   string `yaml:"path"`
	Prefix string `yaml:"prefix,omitempty"`
	Guard  string `yaml:"guard,omitempty"`
}

type Manifest struct {
	Output        string   `yaml:"output"`
	Input         string   `yaml:"input,omitempty"`
	IncludeHidden bool     `yaml:"include_hidden,omitempty"`
	Files         []string `yaml:"files,omitempty"`
	Header        *Header  `yaml:"header,omitempty"`

	// directory relative paths are resolved against
	base string
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve manifest directory")
	}
	m, err := Parse(data, abs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// Parse decodes a manifest whose relative paths are relative to base.
// Unknown keys are rejected.
func Parse(data []byte, base string) (*Manifest, error) {
	m := &Manifest{base: base}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) Validate() error {
	if m.Output == "" {
		return errors.Wrap(ErrInvalid, "output is required")
	}
	if m.Input == "" && len(m.Files) == 0 {
		return errors.Wrap(ErrInvalid, "one of input or files is required")
	}
	if m.Input != "" && len(m.Files) != 0 {
		return errors.Wrap(ErrInvalid, "input and files are mutually exclusive")
	}
	if len(m.Files) > format.MAX_ENTRIES {
		return errors.Wrapf(format.ErrCapacity, "manifest lists %d files", len(m.Files))
	}
	if m.Header != nil && m.Header.Path == "" {
		return errors.Wrap(ErrInvalid, "header.path is required when header is set")
	}
	return nil
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) || m.base == "" {
		return p
	}
	return filepath.Join(m.base, p)
}

func (m *Manifest) OutputPath() string {
	return m.resolve(m.Output)
}

// HeaderPath is where the header-constant file goes, or "" for none.
func (m *Manifest) HeaderPath() string {
	if m.Header == nil {
		return ""
	}
	return m.resolve(m.Header.Path)
}

// Sources returns the files to archive, in archive order.
func (m *Manifest) Sources() ([]string, error) {
	if m.Input != "" {
		return writer.ListSources(m.resolve(m.Input), m.IncludeHidden)
	}
	out := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		out = append(out, m.resolve(f))
	}
	return out, nil
}
