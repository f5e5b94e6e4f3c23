package writer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/indrora/zar/zar/format"
	zio "github.com/indrora/zar/zar/ioutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestBuildLayout(t *testing.T) {
	dir := t.TempDir()
	readme := "This is the readme.\n"
	notes := "notes go here"
	writeFiles(t, dir, map[string]string{"readme.txt": readme, "notes.txt": notes})

	buffer := new(bytes.Buffer)
	entries, err := Build(buffer, []string{filepath.Join(dir, "readme.txt"), filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	out := buffer.Bytes()
	require.Len(t, out, 35+len(readme)+len(notes), spew.Sdump(out))

	assert.Equal(t, []byte{0x5A, 0x41, 0x52, 0x00, 0x02}, out[:5])

	// first directory record
	assert.EqualValues(t, 35, binary.LittleEndian.Uint16(out[5:]))
	assert.EqualValues(t, len(readme), binary.LittleEndian.Uint16(out[7:]))
	assert.Equal(t, []byte("readme\x00\x00txt"), out[9:20])

	// second directory record
	assert.EqualValues(t, 35+len(readme), binary.LittleEndian.Uint16(out[20:]))
	assert.EqualValues(t, len(notes), binary.LittleEndian.Uint16(out[22:]))
	assert.Equal(t, []byte("notes\x00\x00\x00txt"), out[24:35])

	assert.Equal(t, readme+notes, string(out[35:]))
}

func TestBuildEmpty(t *testing.T) {
	buffer := new(bytes.Buffer)
	entries, err := Build(buffer, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, []byte("ZAR\x00\x00"), buffer.Bytes())
}

func TestLayoutPrefixSum(t *testing.T) {
	sizes := []int{0, 1, 17, 300, 0, 4096}
	sources := make([]Source, len(sizes))
	for i, n := range sizes {
		sources[i] = BytesSource(format.NewShortName(fmt.Sprintf("f%d", i), "bin"), make([]byte, n))
	}

	entries, err := Layout(sources)
	require.NoError(t, err)

	want := format.HeaderSize(len(sizes))
	for i, e := range entries {
		assert.EqualValues(t, want, e.Offset, "entry %d", i)
		assert.EqualValues(t, sizes[i], e.Size, "entry %d", i)
		want += sizes[i]
	}
}

func TestBuildCapacity(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, format.MAX_ENTRIES+1)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("f%03d.txt", i))
		require.NoError(t, os.WriteFile(paths[i], []byte{byte(i)}, 0o644))
	}

	buffer := new(bytes.Buffer)
	_, err := Build(buffer, paths)
	assert.True(t, errors.Is(err, format.ErrCapacity), "got %v", err)
	assert.Zero(t, buffer.Len(), "nothing may be written on a capacity error")

	buffer.Reset()
	entries, err := Build(buffer, paths[:format.MAX_ENTRIES])
	require.NoError(t, err)
	assert.Len(t, entries, format.MAX_ENTRIES)
	assert.Equal(t, format.HeaderSize(format.MAX_ENTRIES)+format.MAX_ENTRIES, buffer.Len())
}

func TestAppendLimits(t *testing.T) {
	archive := NewWriter(io.Discard)

	err := archive.Append(BytesSource(format.NewShortName("big", "bin"), make([]byte, format.MAX_FILE_SIZE+1)))
	assert.True(t, errors.Is(err, format.ErrFileTooLarge), "got %v", err)

	name := format.NewShortName("a", "bin")
	require.NoError(t, archive.Append(BytesSource(name, []byte("x"))))
	err = archive.Append(BytesSource(name, []byte("y")))
	assert.True(t, errors.Is(err, format.ErrDuplicateName), "got %v", err)
}

func TestArchiveTooLarge(t *testing.T) {
	archive := NewWriter(io.Discard)
	require.NoError(t, archive.Append(BytesSource(format.NewShortName("a", "bin"), make([]byte, 40000))))
	require.NoError(t, archive.Append(BytesSource(format.NewShortName("b", "bin"), make([]byte, 40000))))

	err := archive.Close()
	assert.True(t, errors.Is(err, format.ErrArchiveTooLarge), "got %v", err)
	assert.True(t, errors.Is(archive.Close(), ErrClosed))
}

func TestArchiveMaxSize(t *testing.T) {
	name := format.NewShortName("full", "bin")
	size := format.MAX_ARCHIVE_SIZE - format.HeaderSize(1)

	buffer := new(bytes.Buffer)
	entries, err := Write(buffer, []Source{BytesSource(name, make([]byte, size))})
	require.NoError(t, err)
	assert.EqualValues(t, format.HeaderSize(1), entries[0].Offset)
	assert.Equal(t, format.MAX_ARCHIVE_SIZE, buffer.Len())
}

func TestShortPayload(t *testing.T) {
	src := Source{
		Path: "liar",
		Name: format.NewShortName("liar", "txt"),
		Size: 10,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("short")), nil
		},
	}
	_, err := Write(io.Discard, []Source{src})
	assert.True(t, errors.Is(err, format.ErrShortPayload), "got %v", err)
}

func TestBuildMissingSource(t *testing.T) {
	_, err := Build(io.Discard, []string{filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestBuildFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "aaa", "b.txt": "bb"})
	dest := filepath.Join(t.TempDir(), "out.zar")

	entries, err := BuildFile(dest, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Len(t, data, format.HeaderSize(2)+5)
	assert.Equal(t, "aaabb", string(data[format.HeaderSize(2):]))
}

func TestBuildFileFailureLeavesNothing(t *testing.T) {
	outDir := t.TempDir()
	dest := filepath.Join(outDir, "out.zar")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))

	failing := Source{
		Path: "broken",
		Name: format.NewShortName("broken", "bin"),
		Size: 4,
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("device unplugged")
		},
	}
	err := zio.WriteFileAtomic(dest, func(w io.Writer) error {
		_, err := Write(w, []Source{failing})
		return err
	})
	require.Error(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	left, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, left, 1, "temp file must be cleaned up")
}

func TestListSources(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"b.txt": "b", "a.txt": "a", ".hidden": "h"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	paths, err := ListSources(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, paths)

	paths, err = ListSources(dir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".hidden"), filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, paths)
}
