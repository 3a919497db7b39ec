// Package filestore provides an in-memory store for files uploaded through
// the chat front-ends. Contents live only as long as the process.
package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrFileExists is returned when writing a filename that is already stored.
var ErrFileExists = errors.New("filestore: file already exists")

// ErrFileNotFound is returned when operating on a filename that is not stored.
var ErrFileNotFound = errors.New("filestore: file not found")

// ErrEmptyFilename is returned when a filename is empty.
var ErrEmptyFilename = errors.New("filestore: filename must be non-empty")

// File is a named byte blob.
type File struct {
	Name string
	Data []byte
}

// Store is a thread-safe in-memory file store. The zero value is ready to use.
type Store struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Write stores the given files. The whole batch is validated before anything
// is written: an empty filename or a name that already exists (in the store
// or earlier in the batch) rejects the batch and leaves the store unchanged.
func (s *Store) Write(files []File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if f.Name == "" {
			return ErrEmptyFilename
		}
		if _, ok := s.files[f.Name]; ok {
			return fmt.Errorf("%w: %s", ErrFileExists, f.Name)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %s", ErrFileExists, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	if s.files == nil {
		s.files = make(map[string][]byte, len(files))
	}
	for _, f := range files {
		s.files[f.Name] = bytes.Clone(f.Data)
	}

	return nil
}

// List returns the stored filenames in sorted order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Read returns a copy of the named file's contents.
func (s *Store) Read(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	return bytes.Clone(data), nil
}

// Delete removes the named files. The whole batch is validated before
// anything is deleted: an empty or unknown name rejects the batch and leaves
// the store unchanged.
func (s *Store) Delete(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if name == "" {
			return ErrEmptyFilename
		}
		if _, ok := s.files[name]; !ok {
			return fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
	}

	for _, name := range names {
		delete(s.files, name)
	}

	return nil
}

// Len returns the number of stored files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.files)
}
