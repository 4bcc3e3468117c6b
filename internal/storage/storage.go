package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains the file store abstraction for document payloads.
// Implementations are S3-compatible object stores and must rely on streaming
// I/O only; no local disk.

// ErrNotFound is returned by Get when no object exists under the given key.
// Callers use it to tell a missing file apart from a missing record.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the file store adapter contract.
//
// Put never overwrites: callers generate collision-free keys. Get fails with
// ErrNotFound when the key is absent. Delete is idempotent — deleting an
// already-absent key is not an error at this layer; the caller decides whether
// that matters.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
