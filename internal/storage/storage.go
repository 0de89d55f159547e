// Package storage provides record destinations and scoped buffered writing.
package storage

import (
	"bufio"
	"errors"
	"io"

	ferrors "github.com/teaserverse/fwon/internal/errors"
)

// DefaultBufferSize amortizes syscalls across many records: one flush per
// roughly twenty thousand records at typical record sizes.
const DefaultBufferSize = 8 * 1024 * 1024

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
)

// Destination opens write targets for record output.
type Destination interface {
	// Create opens path for writing, creating it or truncating any existing content.
	Create(path string) (io.WriteCloser, error)
}

// Store is a Destination that can also read its output back.
type Store interface {
	Destination

	// Open opens path for reading.
	// Returns ErrObjectNotFound if nothing was written at path.
	Open(path string) (io.ReadCloser, error)
}

// WithBufferedWriter opens path on dest, wraps it in a buffered writer of
// size bytes and hands the writer to fn.
//
// The buffer is flushed and the handle closed on every return path,
// including when fn fails. The first error wins: a write error from fn is
// returned even if the following flush or close also fails.
func WithBufferedWriter(dest Destination, path string, size int, fn func(w *bufio.Writer) error) (err error) {
	if size <= 0 {
		size = DefaultBufferSize
	}

	f, err := dest.Create(path)
	if err != nil {
		return ferrors.NewIOError(ferrors.CodeCreateFailed, "create "+path, err)
	}
	w := bufio.NewWriterSize(f, size)

	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ferrors.NewIOError(ferrors.CodeFlushFailed, "flush "+path, ferr)
		}
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ferrors.NewIOError(ferrors.CodeCloseFailed, "close "+path, cerr)
		}
	}()

	if err := fn(w); err != nil {
		if ferrors.GetCategory(err) != "" {
			return err
		}
		return ferrors.NewIOError(ferrors.CodeWriteFailed, "write "+path, err)
	}
	return nil
}
