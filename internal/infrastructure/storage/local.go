// Package storage opens import sources from the local filesystem or S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// LocalFileSource opens files from the local filesystem
type LocalFileSource struct{}

// NewLocalFileSource creates a new LocalFileSource
func NewLocalFileSource() *LocalFileSource {
	return &LocalFileSource{}
}

// Open opens the file at path. A missing file yields an error matching fs.ErrNotExist.
func (LocalFileSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fmt.Errorf("is a directory")}
	}
	return os.Open(path)
}
