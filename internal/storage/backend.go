package storage

import "io"

// Backend is the interface that wraps the snapshot archive operations.
type Backend interface {
	// Name returns the name of the backend implementation.
	Name() string

	// Reader returns a ReadCloser of the archived snapshot.
	Reader(domain, key string) (io.ReadCloser, error)
	// Writer returns a WriteCloser of the snapshot to archive.
	Writer(domain, key string) (io.WriteCloser, error)

	// Remove deletes the given snapshot.
	Remove(domain, key string) error
	// RemoveAll deletes all the snapshots and folders under path.
	RemoveAll(path string) error
	// Cleanup cleans useless artifacts in the archive.
	Cleanup() error
}
