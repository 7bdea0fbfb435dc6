package main

import (
	"strings"

	"go.uber.org/zap"
)

type ImpressionServiceProvider interface {
	Create(bookID, content string) (Impression, error)
	Get(impressionID string) (Impression, error)
	ListByBook(bookID string) []Impression
	Update(impressionID, content string) (Impression, error)
	Delete(impressionID string) error
	DeleteByBook(bookID string) (int, error)
}

// ImpressionService owns the in-memory list of impressions and writes
// the full dataset back on every mutation. Impressions whose book no
// longer exists are kept as is.
type ImpressionService struct {
	logger      *zap.Logger
	clock       Clocker
	idsHandler  UIDHandler
	storage     ImpressionStorage
	impressions []Impression
}

// NewImpressionService loads the full impressions dataset and provides
// the service. Loading fails on a corrupted impressions file.
func NewImpressionService(logger *zap.Logger, clock Clocker, idsHandler UIDHandler, storage ImpressionStorage) (*ImpressionService, error) {
	impressions, err := storage.LoadImpressions()
	if err != nil {
		return nil, err
	}
	return &ImpressionService{
		logger:      logger,
		clock:       clock,
		idsHandler:  idsHandler,
		storage:     storage,
		impressions: impressions,
	}, nil
}

// Create records a new impression for a book. Empty or whitespace only
// content is rejected.
func (is *ImpressionService) Create(bookID, content string) (Impression, error) {
	if strings.TrimSpace(content) == "" {
		return Impression{}, ErrEmptyContent
	}

	now := Timestamp(is.clock.Now())
	impression := Impression{
		ID:        is.idsHandler.Generate(ImpressionIDPrefix),
		BookID:    bookID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	is.impressions = append(is.impressions, impression)
	if err := is.storage.SaveImpressions(is.impressions); err != nil {
		is.impressions = is.impressions[:len(is.impressions)-1]
		return Impression{}, err
	}
	return impression, nil
}

// Get returns an impression by its id.
func (is *ImpressionService) Get(impressionID string) (Impression, error) {
	for _, impression := range is.impressions {
		if impression.ID == impressionID {
			return impression, nil
		}
	}
	return Impression{}, ErrImpressionNotFound
}

// ListByBook returns all impressions attached to a book.
func (is *ImpressionService) ListByBook(bookID string) []Impression {
	result := []Impression{}
	for _, impression := range is.impressions {
		if impression.BookID == bookID {
			result = append(result, impression)
		}
	}
	return result
}

// Update replaces the content of an impression and refreshes its
// update timestamp. Empty content is rejected.
func (is *ImpressionService) Update(impressionID, content string) (Impression, error) {
	if strings.TrimSpace(content) == "" {
		return Impression{}, ErrEmptyContent
	}
	for i := range is.impressions {
		if is.impressions[i].ID != impressionID {
			continue
		}
		is.impressions[i].Content = content
		is.impressions[i].UpdatedAt = Timestamp(is.clock.Now())
		if err := is.storage.SaveImpressions(is.impressions); err != nil {
			return Impression{}, err
		}
		return is.impressions[i], nil
	}
	return Impression{}, ErrImpressionNotFound
}

// Delete removes an impression by its id.
func (is *ImpressionService) Delete(impressionID string) error {
	for i := range is.impressions {
		if is.impressions[i].ID != impressionID {
			continue
		}
		is.impressions = append(is.impressions[:i], is.impressions[i+1:]...)
		return is.storage.SaveImpressions(is.impressions)
	}
	return ErrImpressionNotFound
}

// DeleteByBook removes every impression attached to a book and returns
// how many records were dropped.
func (is *ImpressionService) DeleteByBook(bookID string) (int, error) {
	kept := is.impressions[:0]
	deleted := 0
	for _, impression := range is.impressions {
		if impression.BookID == bookID {
			deleted++
			continue
		}
		kept = append(kept, impression)
	}
	is.impressions = kept
	if err := is.storage.SaveImpressions(is.impressions); err != nil {
		return 0, err
	}
	return deleted, nil
}
