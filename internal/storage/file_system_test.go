package storage_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/pricewatch/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestFileSystemRoundTrip(t *testing.T) {
	workspace := t.TempDir()
	backend := storage.NewFileSystem(workspace)
	assert.Equal(t, "file_system", backend.Name())

	w, err := backend.Writer("rozetka.com.ua", "abc.html")
	assert.NoError(t, err)
	_, err = w.Write([]byte("<html>snapshot</html>"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	//

	r, err := backend.Reader("rozetka.com.ua", "abc.html")
	assert.NoError(t, err)
	payload, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.Equal(t, "<html>snapshot</html>", string(payload))

	//

	assert.NoError(t, backend.Remove("rozetka.com.ua", "abc.html"))
	_, err = backend.Reader("rozetka.com.ua", "abc.html")
	assert.Error(t, err)
}

func TestFileSystemCleanup(t *testing.T) {
	workspace := t.TempDir()
	backend := storage.NewFileSystem(workspace)

	w, err := backend.Writer("allo.ua", "kept.html")
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	w, err = backend.Writer("rozetka.com.ua", "gone.html")
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, backend.Remove("rozetka.com.ua", "gone.html"))

	//

	assert.NoError(t, backend.Cleanup())

	_, err = os.Stat(filepath.Join(workspace, "allo.ua"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(workspace, "rozetka.com.ua"))
	assert.True(t, os.IsNotExist(err))
}
