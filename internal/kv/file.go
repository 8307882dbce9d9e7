package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File persists each key as one file under a state directory. Keys map
// to "<key>.json" so the slots stay inspectable with plain tools.
type File struct {
	dir string
}

// NewFile creates the state directory if needed and returns a file
// medium rooted there.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("empty state dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get returns the blob stored for key or ErrNoValue.
func (f *File) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoValue
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Put replaces the blob for key with a plain truncate-write. Concurrent
// writers to the same slot overwrite each other whole-record,
// last write wins.
func (f *File) Put(key string, value []byte) error {
	return os.WriteFile(f.path(key), value, 0o600)
}

// Delete removes the key's file; an absent file is not an error.
func (f *File) Delete(key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Keys lists every written slot name.
func (f *File) Keys() ([]string, error) {
	ents, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	return keys, nil
}
