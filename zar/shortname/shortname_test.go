package shortname

import (
	"errors"
	"fmt"
	"testing"

	"github.com/indrora/zar/zar/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	testCases := []struct {
		path string
		base string
		ext  string
	}{
		{"/src/readme.txt", "readme", "txt"},
		{"notes.txt", "notes", "txt"},
		{"/a/b/report_final.doc", "reportfinal", "doc"},
		{"archive.tar.gz", "archivetar", "gz"},
		{"Makefile", "Makefile", ""},
		{"my file (1).jpeg", "myfile1", "jpeg"},
		{".profile", "", "profile"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			base, ext := Split(tc.path)
			assert.Equal(t, tc.base, base)
			assert.Equal(t, tc.ext, ext)
		})
	}
}

func TestEncodeNoCollision(t *testing.T) {
	got, err := EncodeAll([]string{"/in/readme.txt", "/in/notes.txt", "/in/verylongfilename.json"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "/in/readme.txt", got[0].Path)
	assert.Equal(t, format.ShortName{'r', 'e', 'a', 'd', 'm', 'e', 0, 0, 't', 'x', 't'}, got[0].Name)
	assert.Equal(t, "notes.txt", got[1].Name.String())
	assert.Equal(t, "verylong.jso", got[2].Name.String())
}

func TestEncodeCollision(t *testing.T) {
	got, err := EncodeAll([]string{"report.doc", "report.doc", "report-.doc", "REPORT.doc"})
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, a := range got {
		names[i] = a.Name.String()
	}
	assert.Equal(t, []string{"report.doc", "repor001.doc", "repor002.doc", "REPORT.doc"}, names)
	assert.Equal(t, format.ShortName{'r', 'e', 'p', 'o', 'r', '0', '0', '1', 'd', 'o', 'c'}, got[1].Name)
}

func TestEncodeStrippedCharacters(t *testing.T) {
	got, err := EncodeAll([]string{"a-b.txt", "ab.txt"})
	require.NoError(t, err)
	assert.Equal(t, "ab.txt", got[0].Name.String())
	assert.Equal(t, "ab001.txt", got[1].Name.String())
	assert.NotEqual(t, got[0].Name, got[1].Name)
}

func TestEncodeTruncatedCollision(t *testing.T) {
	// Both clean to "reportfi" + "doc" once truncated.
	got, err := EncodeAll([]string{"report_final.doc", "reportfinished.docx"})
	require.NoError(t, err)
	assert.Equal(t, "reportfi.doc", got[0].Name.String())
	assert.Equal(t, "repor001.doc", got[1].Name.String())
}

func TestEncodeSkipsTakenNames(t *testing.T) {
	// A real file already owns the first renumbered name.
	got, err := EncodeAll([]string{"abcde001.txt", "abcdefgh.txt", "abcdefgh.txt", "abcdefgh.txt"})
	require.NoError(t, err)

	names := make([]string, len(got))
	seen := map[format.ShortName]bool{}
	for i, a := range got {
		names[i] = a.Name.String()
		assert.False(t, seen[a.Name], "duplicate %s", a.Name)
		seen[a.Name] = true
	}
	assert.Equal(t, []string{"abcde001.txt", "abcdefgh.txt", "abcde002.txt", "abcde003.txt"}, names)
}

func TestEncodeOrderMatters(t *testing.T) {
	a, err := EncodeAll([]string{"x/data.bin", "y/data.bin"})
	require.NoError(t, err)
	b, err := EncodeAll([]string{"y/data.bin", "x/data.bin"})
	require.NoError(t, err)

	assert.Equal(t, "x/data.bin", a[0].Path)
	assert.Equal(t, "data.bin", a[0].Name.String())
	assert.Equal(t, "y/data.bin", b[0].Path)
	assert.Equal(t, "data.bin", b[0].Name.String())
	assert.Equal(t, "data001.bin", b[1].Name.String())
}

func TestEncodeCapacity(t *testing.T) {
	paths := make([]string, format.MAX_ENTRIES+1)
	for i := range paths {
		paths[i] = fmt.Sprintf("file%d.dat", i)
	}

	_, err := EncodeAll(paths)
	assert.True(t, errors.Is(err, format.ErrCapacity))

	got, err := EncodeAll(paths[:format.MAX_ENTRIES])
	require.NoError(t, err)
	assert.Len(t, got, format.MAX_ENTRIES)
}

func TestEncodeOverflow(t *testing.T) {
	enc := NewEncoder()
	for i := 0; i <= maxCounter; i++ {
		_, err := enc.Encode("same.txt")
		require.NoError(t, err, "iteration %d", i)
	}
	_, err := enc.Encode("same.txt")
	assert.True(t, errors.Is(err, format.ErrNameCollisionOverflow))
}

func TestEncodeEmptyName(t *testing.T) {
	_, err := NewEncoder().Encode("/tmp/___.--")
	assert.True(t, errors.Is(err, format.ErrEmptyName))
}

func TestEncodersAreIndependent(t *testing.T) {
	first, err := NewEncoder().Encode("dup.txt")
	require.NoError(t, err)
	second, err := NewEncoder().Encode("dup.txt")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
