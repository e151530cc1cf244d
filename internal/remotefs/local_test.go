package remotefs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) (*Local, string, string) {
	t.Helper()
	localRoot := t.TempDir()
	remoteRoot := t.TempDir()
	return NewLocal(localRoot, remoteRoot, "sub"), localRoot, remoteRoot
}

func writeLocalFile(t *testing.T, localRoot, relPath, content string) {
	t.Helper()
	full := filepath.Join(localRoot, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestLocalUploadDownloadRoundTrip(t *testing.T) {
	backend, localRoot, _ := newTestLocal(t)
	ctx := context.Background()

	writeLocalFile(t, localRoot, "wal/1.csv", "hello")
	require.NoError(t, backend.Upload(ctx, "wal/1.csv"))

	// Remove the local copy so Download must re-materialize it from the
	// simulated remote store.
	require.NoError(t, os.Remove(filepath.Join(localRoot, "wal/1.csv")))

	path, err := backend.Download(ctx, "wal/1.csv")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalDownloadIdempotentWhenMirrorPresent(t *testing.T) {
	backend, localRoot, remoteRoot := newTestLocal(t)
	ctx := context.Background()

	writeLocalFile(t, localRoot, "wal/1.csv", "hello")

	// Deliberately leave nothing in the remote root; Download must not
	// touch the remote at all when the local mirror already has the file.
	_, err := os.Stat(filepath.Join(remoteRoot, "sub", "wal/1.csv"))
	require.Error(t, err)

	path, err := backend.Download(ctx, "wal/1.csv")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalDownloadMissingRemoteErrors(t *testing.T) {
	backend, _, _ := newTestLocal(t)
	_, err := backend.Download(context.Background(), "wal/missing.csv")
	require.Error(t, err)
}

func TestLocalDeletePrunesEmptyAncestorDirs(t *testing.T) {
	backend, localRoot, _ := newTestLocal(t)
	ctx := context.Background()

	writeLocalFile(t, localRoot, "wal/nested/1.csv", "hello")
	require.NoError(t, backend.Upload(ctx, "wal/nested/1.csv"))

	require.NoError(t, backend.Delete(ctx, "wal/nested/1.csv"))

	_, err := os.Stat(filepath.Join(localRoot, "wal/nested/1.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(localRoot, "wal/nested"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalConcurrentDownloadsOfSamePath(t *testing.T) {
	backend, localRoot, _ := newTestLocal(t)
	ctx := context.Background()

	writeLocalFile(t, localRoot, "wal/1.csv", "hello")
	require.NoError(t, backend.Upload(ctx, "wal/1.csv"))
	require.NoError(t, os.Remove(filepath.Join(localRoot, "wal/1.csv")))

	var wg sync.WaitGroup
	paths := make([]string, 8)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := backend.Download(ctx, "wal/1.csv")
			assert.NoError(t, err)
			paths[i] = p
		}(i)
	}
	wg.Wait()

	for _, p := range paths {
		assert.Equal(t, paths[0], p)
	}
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalListWithMetadataReturnsUploadedFiles(t *testing.T) {
	backend, localRoot, _ := newTestLocal(t)
	ctx := context.Background()

	writeLocalFile(t, localRoot, "wal/1.csv", "a")
	writeLocalFile(t, localRoot, "wal/2.csv", "b")
	require.NoError(t, backend.Upload(ctx, "wal/1.csv"))
	require.NoError(t, backend.Upload(ctx, "wal/2.csv"))

	files, err := backend.ListWithMetadata(ctx, "wal")
	require.NoError(t, err)
	require.Len(t, files, 2)
}
