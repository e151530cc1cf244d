// Package remotefs implements the remote-filesystem contract
// the ingestion/compaction control loop relies on for durable artifact
// storage: a local mirror directory guarded by an RWMutex so background
// maintenance that may relocate the root is serialized against path
// derivation. Network I/O and file reads/writes happen outside the lock;
// deleting a local mirror file and pruning its emptied ancestor
// directories happen under it.
package remotefs

import (
	"context"
	"time"
)

// File is a remote object: (remote_path, last_modified).
type File struct {
	RemotePath   string
	LastModified time.Time
}

// RemoteFs is the uniform contract over local-mirror and object-store
// backends.
type RemoteFs interface {
	// Upload streams the local file at <root>/<path> to the remote object
	// named by <sub_path>/<path>.
	Upload(ctx context.Context, path string) error
	// Download returns the local mirror path, downloading first if the
	// mirror is absent. A partial download is never visible as a local
	// file: the local copy exists only once fully flushed.
	Download(ctx context.Context, path string) (string, error)
	// Delete removes the remote object, then the local mirror (if any),
	// pruning any ancestor directory emptied by that removal up to the
	// mirror root.
	Delete(ctx context.Context, path string) error
	// List returns remote paths under prefix, with the configured
	// sub-path prefix stripped.
	List(ctx context.Context, prefix string) ([]string, error)
	// ListWithMetadata is List plus each path's last-modified timestamp.
	ListWithMetadata(ctx context.Context, prefix string) ([]File, error)
	// LocalPath returns the root of the local mirror.
	LocalPath(ctx context.Context) (string, error)
	// LocalFile ensures the parent directories of path's local mirror
	// exist and returns the would-be local path, without touching the
	// remote object.
	LocalFile(ctx context.Context, path string) (string, error)
}
