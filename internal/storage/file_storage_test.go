// internal/storage/file_storage_test.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadJSON(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, fs.SaveJSON("docs", "a.json", doc{Name: "x", Count: 3}))

	var loaded doc
	require.NoError(t, fs.LoadJSON("docs", "a.json", &loaded))
	assert.Equal(t, doc{Name: "x", Count: 3}, loaded)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, fs.SaveFile("d", "f.json", []byte(`{}`)))

	entries, err := os.ReadDir(filepath.Join(dir, "d"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f.json", entries[0].Name())
}

func TestListJSONFilesFiltersAndSorts(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.SaveFile("d", "b.json", []byte(`{}`)))
	require.NoError(t, fs.SaveFile("d", "a.json", []byte(`{}`)))
	require.NoError(t, fs.SaveFile("d", "notes.txt", []byte("x")))

	names, err := fs.ListJSONFiles("d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)

	names, err = fs.ListJSONFiles("missing")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileExistsAndDelete(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.False(t, fs.FileExists("d", "f.json"))
	require.NoError(t, fs.SaveFile("d", "f.json", []byte(`{}`)))
	assert.True(t, fs.FileExists("d", "f.json"))

	require.NoError(t, fs.DeleteFile("d", "f.json"))
	assert.False(t, fs.FileExists("d", "f.json"))
	assert.NoError(t, fs.DeleteFile("d", "f.json"))
}

func TestConcurrentWritersDifferentFiles(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("f%d.json", i%4)
			for j := 0; j < 20; j++ {
				if err := fs.SaveFile("d", name, []byte(fmt.Sprintf(`{"i":%d,"j":%d}`, i, j))); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	names, err := fs.ListJSONFiles("d")
	require.NoError(t, err)
	assert.Len(t, names, 4)
}
