package main

import (
	"go.uber.org/zap"
)

type StatusServiceProvider interface {
	Get(bookID string) (string, error)
	Set(bookID, newStatus string) (Book, error)
	HistoryByBook(bookID string) []StatusHistory
	BooksByStatus(status string) []Book
}

// StatusService manages reading status transitions. The book list
// itself stays owned by the book service, this service only appends to
// the status history audit log.
type StatusService struct {
	logger     *zap.Logger
	clock      Clocker
	idsHandler UIDHandler
	storage    StatusHistoryStorage
	books      BookServiceProvider
	history    []StatusHistory
}

// NewStatusService loads the status history log and provides the
// service. Loading fails on a corrupted history file.
func NewStatusService(logger *zap.Logger, clock Clocker, idsHandler UIDHandler, storage StatusHistoryStorage, books BookServiceProvider) (*StatusService, error) {
	history, err := storage.LoadStatusHistory()
	if err != nil {
		return nil, err
	}
	return &StatusService{
		logger:     logger,
		clock:      clock,
		idsHandler: idsHandler,
		storage:    storage,
		books:      books,
		history:    history,
	}, nil
}

// Get returns the current reading status of a book.
func (ss *StatusService) Get(bookID string) (string, error) {
	book, err := ss.books.Get(bookID)
	if err != nil {
		return "", err
	}
	return book.Status, nil
}

// Set transitions a book to a new reading status. The transition is
// appended to the history log before the updated records are persisted.
func (ss *StatusService) Set(bookID, newStatus string) (Book, error) {
	if !IsValidStatus(newStatus) {
		return Book{}, ErrInvalidStatus
	}
	book, err := ss.books.Get(bookID)
	if err != nil {
		return Book{}, err
	}

	oldStatus := book.Status
	entry := StatusHistory{
		ID:        ss.idsHandler.Generate(HistoryIDPrefix),
		BookID:    bookID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedAt: Timestamp(ss.clock.Now()),
	}
	ss.history = append(ss.history, entry)

	updated, err := ss.books.Update(bookID, BookUpdate{Status: &newStatus})
	if err != nil {
		ss.history = ss.history[:len(ss.history)-1]
		return Book{}, err
	}
	if err := ss.storage.SaveStatusHistory(ss.history); err != nil {
		return Book{}, err
	}
	return updated, nil
}

// HistoryByBook returns the status transitions recorded for a book,
// oldest first.
func (ss *StatusService) HistoryByBook(bookID string) []StatusHistory {
	result := []StatusHistory{}
	for _, entry := range ss.history {
		if entry.BookID == bookID {
			result = append(result, entry)
		}
	}
	return result
}

// BooksByStatus returns all books currently in the given status.
func (ss *StatusService) BooksByStatus(status string) []Book {
	result := []Book{}
	for _, book := range ss.books.List() {
		if book.Status == status {
			result = append(result, book)
		}
	}
	return result
}
