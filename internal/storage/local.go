package storage

import (
	"io"
	"os"
	"path/filepath"
)

// LocalDestination writes records to the local filesystem.
type LocalDestination struct {
	// CreateDirs makes missing parent directories on Create.
	CreateDirs bool
}

// NewLocalDestination creates a filesystem destination.
func NewLocalDestination(createDirs bool) *LocalDestination {
	return &LocalDestination{CreateDirs: createDirs}
}

// Create opens path for writing, truncating existing content.
func (l *LocalDestination) Create(path string) (io.WriteCloser, error) {
	if l.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// Open opens path for reading.
func (l *LocalDestination) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}
