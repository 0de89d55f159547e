package storage

import (
	"bytes"
	"io"
	"sync"
)

// MemoryDestination keeps written output in memory. Used by tests and by
// runs that only measure generation plus buffering cost.
type MemoryDestination struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryDestination creates an empty in-memory destination.
func NewMemoryDestination() *MemoryDestination {
	return &MemoryDestination{objects: make(map[string][]byte)}
}

// Create starts a new object at path. The content becomes visible on Close.
func (m *MemoryDestination) Create(path string) (io.WriteCloser, error) {
	m.mu.Lock()
	m.objects[path] = nil
	m.mu.Unlock()
	return &memoryWriter{dest: m, path: path}, nil
}

// Open returns a reader over the content stored at path.
func (m *MemoryDestination) Open(path string) (io.ReadCloser, error) {
	m.mu.RLock()
	data, ok := m.objects[path]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Bytes returns a copy of the content stored at path.
func (m *MemoryDestination) Bytes(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

type memoryWriter struct {
	dest *MemoryDestination
	path string
	buf  bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	w.dest.mu.Lock()
	w.dest.objects[w.path] = w.buf.Bytes()
	w.dest.mu.Unlock()
	return nil
}
