package main

import (
	"context"

	"go.uber.org/zap"
)

// BookUpdate carries a partial field set for a book update. Nil fields
// are left untouched.
type BookUpdate struct {
	Title           *string
	Author          *string
	Publisher       *string
	PublicationDate *string
	Description     *string
	CoverURL        *string
	Status          *string
}

type BookServiceProvider interface {
	Create(ctx context.Context, isbn string) (Book, error)
	Get(bookID string) (Book, error)
	List() []Book
	Update(bookID string, update BookUpdate) (Book, error)
	Delete(bookID string) error
	FetchMissingCovers(ctx context.Context) int
}

// BookService owns the in-memory list of books and writes the full
// dataset back on every mutation.
type BookService struct {
	logger      *zap.Logger
	clock       Clocker
	idsHandler  UIDHandler
	storage     BookStorage
	lookup      LookupClient
	markdown    *MarkdownImpressionService
	impressions ImpressionServiceProvider
	books       []Book
}

// NewBookService loads the full books dataset and provides the service.
// Loading fails on a corrupted books file.
func NewBookService(
	logger *zap.Logger,
	clock Clocker,
	idsHandler UIDHandler,
	storage BookStorage,
	lookup LookupClient,
	markdown *MarkdownImpressionService,
	impressions ImpressionServiceProvider,
) (*BookService, error) {
	books, err := storage.LoadBooks()
	if err != nil {
		return nil, err
	}
	return &BookService{
		logger:      logger,
		clock:       clock,
		idsHandler:  idsHandler,
		storage:     storage,
		lookup:      lookup,
		markdown:    markdown,
		impressions: impressions,
		books:       books,
	}, nil
}

// Create registers a new book from its isbn. The isbn is normalized
// and checked against the catalogue before any lookup call, then the
// bibliographic record is fetched and the book persisted with an empty
// markdown impression seeded next to it.
func (bs *BookService) Create(ctx context.Context, isbn string) (Book, error) {
	normalized := NormalizeISBN(isbn)

	for _, book := range bs.books {
		if NormalizeISBN(book.ISBN) == normalized {
			return Book{}, ErrDuplicateISBN
		}
	}

	info, err := bs.lookup.Fetch(ctx, normalized)
	if err != nil {
		return Book{}, err
	}

	now := Timestamp(bs.clock.Now())
	book := Book{
		ID:              bs.idsHandler.Generate(BookIDPrefix),
		ISBN:            normalized,
		Title:           info.Title,
		Author:          info.Author,
		Publisher:       info.Publisher,
		PublicationDate: info.PublicationDate,
		Description:     info.Description,
		CoverURL:        info.CoverURL,
		Status:          StatusUnread,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	bs.books = append(bs.books, book)
	if err := bs.storage.SaveBooks(bs.books); err != nil {
		bs.books = bs.books[:len(bs.books)-1]
		return Book{}, err
	}

	bs.seedMarkdownImpression(book)
	return book, nil
}

// seedMarkdownImpression creates the initial empty markdown file of a
// freshly registered book. An existing impression is never overwritten
// and a write failure does not undo the registration.
func (bs *BookService) seedMarkdownImpression(book Book) {
	if bs.markdown == nil || bs.markdown.Exists(book.ID, book.Title) {
		return
	}
	if err := bs.markdown.Create(book.ID, "", book.Title); err != nil {
		bs.logger.Error("failed to seed markdown impression",
			zap.String("book.id", book.ID),
			zap.Error(err),
		)
	}
}

// Get returns a book by its id.
func (bs *BookService) Get(bookID string) (Book, error) {
	for _, book := range bs.books {
		if book.ID == bookID {
			return book, nil
		}
	}
	return Book{}, ErrBookNotFound
}

// List returns a copy of all books in the catalogue.
func (bs *BookService) List() []Book {
	books := make([]Book, len(bs.books))
	copy(books, bs.books)
	return books
}

// Update applies a partial field set to a book and refreshes its
// update timestamp.
func (bs *BookService) Update(bookID string, update BookUpdate) (Book, error) {
	for i := range bs.books {
		if bs.books[i].ID != bookID {
			continue
		}
		book := &bs.books[i]
		if update.Title != nil {
			book.Title = *update.Title
		}
		if update.Author != nil {
			book.Author = *update.Author
		}
		if update.Publisher != nil {
			book.Publisher = *update.Publisher
		}
		if update.PublicationDate != nil {
			book.PublicationDate = *update.PublicationDate
		}
		if update.Description != nil {
			book.Description = *update.Description
		}
		if update.CoverURL != nil {
			book.CoverURL = *update.CoverURL
		}
		if update.Status != nil {
			if !IsValidStatus(*update.Status) {
				return Book{}, ErrInvalidStatus
			}
			book.Status = *update.Status
		}
		book.UpdatedAt = Timestamp(bs.clock.Now())
		if err := bs.storage.SaveBooks(bs.books); err != nil {
			return Book{}, err
		}
		return *book, nil
	}
	return Book{}, ErrBookNotFound
}

// Delete removes a book and cascades to its impressions: the json
// records and the markdown file go first, then the book itself.
func (bs *BookService) Delete(bookID string) error {
	book, err := bs.Get(bookID)
	if err != nil {
		return err
	}

	if bs.impressions != nil {
		if _, err := bs.impressions.DeleteByBook(bookID); err != nil {
			return err
		}
	}
	if bs.markdown != nil {
		if err := bs.markdown.Delete(bookID, book.Title); err != nil {
			bs.logger.Error("failed to delete markdown impression",
				zap.String("book.id", bookID),
				zap.Error(err),
			)
		}
	}

	kept := bs.books[:0]
	for _, b := range bs.books {
		if b.ID != bookID {
			kept = append(kept, b)
		}
	}
	bs.books = kept
	return bs.storage.SaveBooks(bs.books)
}

// FetchMissingCovers backfills cover urls for books lacking one. It is
// best effort: lookup failures skip the book. The number of updated
// books is returned.
func (bs *BookService) FetchMissingCovers(ctx context.Context) int {
	updated := 0
	for i := range bs.books {
		book := &bs.books[i]
		if book.CoverURL != "" || book.ISBN == "" {
			continue
		}
		info, err := bs.lookup.Fetch(ctx, book.ISBN)
		if err != nil || info.CoverURL == "" {
			continue
		}
		book.CoverURL = info.CoverURL
		book.UpdatedAt = Timestamp(bs.clock.Now())
		updated++
	}
	if updated > 0 {
		if err := bs.storage.SaveBooks(bs.books); err != nil {
			bs.logger.Error("failed to persist backfilled covers", zap.Error(err))
			return 0
		}
	}
	return updated
}
