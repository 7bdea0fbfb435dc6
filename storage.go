package main

// BookStorage defines the whole-file persistence operations on books.
type BookStorage interface {
	LoadBooks() ([]Book, error)
	SaveBooks(books []Book) error
}

// ImpressionStorage defines the whole-file persistence operations on impressions.
type ImpressionStorage interface {
	LoadImpressions() ([]Impression, error)
	SaveImpressions(impressions []Impression) error
}

// StatusHistoryStorage defines the whole-file persistence operations
// on the status history audit log.
type StatusHistoryStorage interface {
	LoadStatusHistory() ([]StatusHistory, error)
	SaveStatusHistory(history []StatusHistory) error
}

// Storage groups the persistence operations of all entity collections.
// The repository is the sole persistence authority: every save rewrites
// the entire backing file.
type Storage interface {
	BookStorage
	ImpressionStorage
	StatusHistoryStorage
}
