package util

import (
	"io"

	"github.com/batchatco/go-thrower"
)

// MustWriteRaw wraps Write and throws an error if it fails.
func MustWriteRaw(w io.Writer, p []byte) {
	_, err := w.Write(p)
	thrower.ThrowIfError(err)
}

// MustWriteByte writes a single byte and throws an error if it fails.
func MustWriteByte(w io.Writer, c byte) {
	MustWriteRaw(w, []byte{c})
}

// MustReadRaw fills p and throws an error if it fails.
func MustReadRaw(r io.Reader, p []byte) {
	_, err := io.ReadFull(r, p)
	thrower.ThrowIfError(err)
}

// MustRead8 reads a single byte and throws an error if it fails.
func MustRead8(r io.Reader) byte {
	var b [1]byte
	MustReadRaw(r, b[:])
	return b[0]
}
