package main

// Impression represents a user-authored review or note attached to a
// book. The content can be plain text or markdown. An impression whose
// book no longer exists is tolerated at load time.
type Impression struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// StatusHistory records a single reading status transition of a book.
// Entries are append-only and never mutated or deleted individually.
type StatusHistory struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedAt string `json:"changed_at"`
}
