package ioutil

import (
	"encoding/hex"
	"hash"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// HashWriter tees everything written into a hash. ZAR stores no checksums;
// this is used to compare payloads when listing or inspecting archives.
type HashWriter struct {
	writer io.Writer
	hasher hash.Hash
}

func NewHashWriter(dest io.Writer, hasher hash.Hash) *HashWriter {
	return &HashWriter{
		writer: dest,
		hasher: hasher,
	}
}

// Write hashes only the bytes the destination accepted.
func (w *HashWriter) Write(b []byte) (int, error) {
	k, err := w.writer.Write(b)
	w.hasher.Write(b[:k])
	return k, err
}

func (w *HashWriter) Sum() []byte {
	return w.hasher.Sum(nil)
}

// Digest returns the hex BLAKE2b-256 digest of everything in r.
func Digest(r io.Reader) (string, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to initialize BLAKE2b hash")
	}
	w := NewHashWriter(io.Discard, hasher)
	if _, err := io.Copy(w, r); err != nil {
		return "", errors.Wrap(err, "failed to hash payload")
	}
	return hex.EncodeToString(w.Sum()), nil
}
