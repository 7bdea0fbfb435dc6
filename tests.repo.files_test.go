package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestNewFileStorageSeedsFiles ensures a fresh data directory starts
// with empty collections on disk.
func TestNewFileStorageSeedsFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(zap.NewNop(), filepath.Join(dir, "data"))
	require.NoError(t, err)

	for _, name := range []string{"books.json", "impressions.json", "status_history.json"} {
		data, err := os.ReadFile(filepath.Join(dir, "data", name))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}

	books, err := fs.LoadBooks()
	assert.NoError(t, err)
	assert.Empty(t, books)
}

// TestFileStorageBooksRoundTrip ensures books survive a save and load
// cycle unchanged.
func TestFileStorageBooksRoundTrip(t *testing.T) {
	fs, err := NewFileStorage(zap.NewNop(), t.TempDir())
	require.NoError(t, err)

	books := []Book{
		{
			ID:              "b-1",
			ISBN:            "9784065208087",
			Title:           "ノルウェイの森",
			Author:          "村上春樹",
			Publisher:       "講談社",
			PublicationDate: "1987-09-04",
			Status:          StatusReading,
			CreatedAt:       "2023-07-02T00:00:00Z",
			UpdatedAt:       "2023-07-02T00:00:00Z",
		},
	}
	require.NoError(t, fs.SaveBooks(books))

	loaded, err := fs.LoadBooks()
	require.NoError(t, err)
	assert.Equal(t, books, loaded)
}

// TestFileStorageCleansLoadedBooks ensures legacy records get their
// author normalized and an empty status defaulted at load time.
func TestFileStorageCleansLoadedBooks(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(zap.NewNop(), dir)
	require.NoError(t, err)

	raw := `[{"id":"b-1","isbn":"9784065208087","title":"ノルウェイの森","author":"村上, 春樹, 1949-","status":""}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte(raw), 0o644))

	books, err := fs.LoadBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "村上 春樹", books[0].Author)
	assert.Equal(t, StatusUnread, books[0].Status)
}

// TestFileStorageCorruptedFile ensures an unparsable file is reported
// as a corruption error carrying the file path.
func TestFileStorageCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(zap.NewNop(), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.json"), []byte("{invalid json"), 0o644))

	_, err = fs.LoadBooks()
	var corrupted *CorruptedDataError
	require.ErrorAs(t, err, &corrupted)
	assert.Equal(t, filepath.Join(dir, "books.json"), corrupted.Path)
}

// TestFileStorageImpressionsAndHistory ensures the two side datasets
// round trip as well.
func TestFileStorageImpressionsAndHistory(t *testing.T) {
	fs, err := NewFileStorage(zap.NewNop(), t.TempDir())
	require.NoError(t, err)

	impressions := []Impression{{ID: "i-1", BookID: "b-1", Content: "面白かった", CreatedAt: "2023-07-02T00:00:00Z", UpdatedAt: "2023-07-02T00:00:00Z"}}
	require.NoError(t, fs.SaveImpressions(impressions))
	loadedImpressions, err := fs.LoadImpressions()
	require.NoError(t, err)
	assert.Equal(t, impressions, loadedImpressions)

	history := []StatusHistory{{ID: "h-1", BookID: "b-1", OldStatus: StatusUnread, NewStatus: StatusReading, ChangedAt: "2023-07-02T00:00:00Z"}}
	require.NoError(t, fs.SaveStatusHistory(history))
	loadedHistory, err := fs.LoadStatusHistory()
	require.NoError(t, err)
	assert.Equal(t, history, loadedHistory)
}
