package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"|?*\\/]`)
	controlChars         = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
)

// MarkdownImpressionService keeps one markdown file per book under the
// impressions directory, named after the sanitized book title plus the
// book id. Files created before titles were part of the name, bare
// `{book-id}.md`, are still readable.
type MarkdownImpressionService struct {
	logger *zap.Logger
	dir    string
}

// NewMarkdownImpressionService creates the impressions directory if
// needed and returns the service.
func NewMarkdownImpressionService(logger *zap.Logger, dir string) (*MarkdownImpressionService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create impressions directory: %w", err)
	}
	return &MarkdownImpressionService{logger: logger, dir: dir}, nil
}

// filePath returns the markdown file path for a book. Without a title
// the legacy id-only name is used.
func (ms *MarkdownImpressionService) filePath(bookID, bookTitle string) string {
	if bookTitle != "" {
		return filepath.Join(ms.dir, SanitizeFilename(bookTitle)+"_"+bookID+".md")
	}
	return filepath.Join(ms.dir, bookID+".md")
}

// SanitizeFilename makes a book title safe to use as a file name on
// both unix and windows: forbidden and control characters become
// underscores, long titles are truncated and an empty result falls
// back to "untitled".
func SanitizeFilename(name string) string {
	safe := invalidFilenameChars.ReplaceAllString(name, "_")
	safe = controlChars.ReplaceAllString(safe, "")

	const maxTitleLength = 50
	if utf8.RuneCountInString(safe) > maxTitleLength {
		runes := []rune(safe)
		safe = strings.TrimRight(string(runes[:maxTitleLength]), "_")
	}
	if strings.TrimSpace(safe) == "" {
		safe = "untitled"
	}
	return safe
}

// Create writes the markdown impression file for a book. Empty content
// is allowed so a fresh book gets its empty impression template.
func (ms *MarkdownImpressionService) Create(bookID, content, bookTitle string) error {
	path := ms.filePath(bookID, bookTitle)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write impression file: %w", err)
	}
	return nil
}

// Get returns the markdown content of a book impression. It tries the
// title-based name first then the legacy id-only name, and reports
// ErrImpressionNotFound when neither exists.
func (ms *MarkdownImpressionService) Get(bookID, bookTitle string) (string, error) {
	paths := []string{}
	if bookTitle != "" {
		paths = append(paths, ms.filePath(bookID, bookTitle))
	}
	paths = append(paths, ms.filePath(bookID, ""))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
	}
	return "", ErrImpressionNotFound
}

// Update rewrites the markdown impression of a book. Unlike Create it
// rejects empty content.
func (ms *MarkdownImpressionService) Update(bookID, content, bookTitle string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return ms.Create(bookID, content, bookTitle)
}

// Delete removes the markdown impression files of a book, both naming
// schemes included. Missing files are not an error.
func (ms *MarkdownImpressionService) Delete(bookID, bookTitle string) error {
	paths := []string{ms.filePath(bookID, "")}
	if bookTitle != "" {
		paths = append(paths, ms.filePath(bookID, bookTitle))
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Exists tells whether a markdown impression file exists for a book
// under either naming scheme.
func (ms *MarkdownImpressionService) Exists(bookID, bookTitle string) bool {
	if bookTitle != "" {
		if _, err := os.Stat(ms.filePath(bookID, bookTitle)); err == nil {
			return true
		}
	}
	_, err := os.Stat(ms.filePath(bookID, ""))
	return err == nil
}
