// Package headergen writes a C header naming every entry of an archive by
// its directory index, so firmware can fetch payloads without looking names
// up at run time.
package headergen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/indrora/zar/zar/format"
	"github.com/pkg/errors"
)

type Options struct {
	// Prepended to every constant name.
	Prefix string
	// Include guard and enum type name; derived from "ZAR" when empty.
	Guard string
}

// Constant is one generated enum member.
type Constant struct {
	Name   string
	Index  int
	Offset uint16
	Size   uint16
}

var headerTemplate = template.Must(template.New("header").Parse(`/* Generated by zarc from a ZAR archive. Do not edit. */
#ifndef {{.Guard}}_H
#define {{.Guard}}_H

typedef enum {
{{- range .Constants}}
    {{.Name}} = {{.Index}}, /* offset: {{.Offset}}, size: {{.Size}} */
{{- end}}
} {{.Type}}_t;

#define {{.Guard}}_COUNT {{len .Constants}}

#endif /* {{.Guard}}_H */
`))

// Identifier turns s into an upper-case C identifier.
func Identifier(s string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "_" + id
	}
	return id
}

// Constants names each entry BASE_EXT (with the prefix), in directory order.
// A name already used by an earlier entry gets the entry index appended,
// counting up from there until the identifier is free.
func Constants(entries []format.Entry, prefix string) []Constant {
	used := map[string]bool{}
	out := make([]Constant, 0, len(entries))
	for idx, e := range entries {
		stem := e.Name.Base()
		if ext := e.Name.Ext(); ext != "" {
			stem += "_" + ext
		}
		name := Identifier(prefix + stem)
		for n, want := idx, name; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", want, n)
		}
		used[name] = true
		out = append(out, Constant{Name: name, Index: idx, Offset: e.Offset, Size: e.Size})
	}
	return out
}

// Generate writes the header for entries to w.
func Generate(w io.Writer, entries []format.Entry, opts Options) error {
	guard := opts.Guard
	if guard == "" {
		guard = "ZAR"
	}
	guard = Identifier(guard)

	err := headerTemplate.Execute(w, map[string]any{
		"Guard":     guard,
		"Type":      strings.ToLower(guard),
		"Constants": Constants(entries, opts.Prefix),
	})
	return errors.Wrap(err, "failed to write header")
}
