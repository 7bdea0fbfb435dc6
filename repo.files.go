package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var _ Storage = (*fileStorage)(nil) // ensure fileStorage implements Storage.

// fileStorage persists each entity collection as a whole JSON array
// file under the data directory. Every save rewrites the entire file.
// There is no locking: the intended deployment is a single local user
// running one process at a time.
type fileStorage struct {
	logger      *zap.Logger
	booksFile   string
	impsFile    string
	historyFile string
}

// NewFileStorage builds the data directory layout and seeds missing
// files with an empty JSON array so a first run starts from an empty
// catalogue.
func NewFileStorage(logger *zap.Logger, dataDir string) (*fileStorage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	fs := &fileStorage{
		logger:      logger,
		booksFile:   filepath.Join(dataDir, "books.json"),
		impsFile:    filepath.Join(dataDir, "impressions.json"),
		historyFile: filepath.Join(dataDir, "status_history.json"),
	}
	for _, path := range []string{fs.booksFile, fs.impsFile, fs.historyFile} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("failed to seed data file %s: %w", path, err)
			}
		}
	}
	return fs, nil
}

// readJSON loads a whole array file into out. A missing file counts as
// an empty collection while an unparsable one raises CorruptedDataError.
func (fs *fileStorage) readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &CorruptedDataError{Path: path, Err: err}
	}
	return nil
}

// writeJSON rewrites a whole array file with indented json.
func (fs *fileStorage) writeJSON(path string, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadBooks retrieves all book records from the books file.
func (fs *fileStorage) LoadBooks() ([]Book, error) {
	books := []Book{}
	if err := fs.readJSON(fs.booksFile, &books); err != nil {
		return nil, err
	}
	// Raw author values loaded from older files may still carry
	// embedded metadata, clean them for display.
	for i := range books {
		books[i].Author = CleanAuthorName(books[i].Author)
		if books[i].Status == "" {
			books[i].Status = StatusUnread
		}
	}
	return books, nil
}

// SaveBooks rewrites the books file with the given records.
func (fs *fileStorage) SaveBooks(books []Book) error {
	return fs.writeJSON(fs.booksFile, books)
}

// LoadImpressions retrieves all impression records from the impressions file.
func (fs *fileStorage) LoadImpressions() ([]Impression, error) {
	impressions := []Impression{}
	if err := fs.readJSON(fs.impsFile, &impressions); err != nil {
		return nil, err
	}
	return impressions, nil
}

// SaveImpressions rewrites the impressions file with the given records.
func (fs *fileStorage) SaveImpressions(impressions []Impression) error {
	return fs.writeJSON(fs.impsFile, impressions)
}

// LoadStatusHistory retrieves the full status transitions log.
func (fs *fileStorage) LoadStatusHistory() ([]StatusHistory, error) {
	history := []StatusHistory{}
	if err := fs.readJSON(fs.historyFile, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// SaveStatusHistory rewrites the status history file with the given records.
func (fs *fileStorage) SaveStatusHistory(history []StatusHistory) error {
	return fs.writeJSON(fs.historyFile, history)
}
