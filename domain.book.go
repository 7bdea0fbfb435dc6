package main

// Reading statuses a book can be in. The english keys are the stored
// values, the japanese labels are used for display on web pages and CLI.
const (
	StatusUnread   = "unread"
	StatusReading  = "reading"
	StatusFinished = "finished"
)

// StatusLabels maps a stored status to its display label.
var StatusLabels = map[string]string{
	StatusUnread:   "積読",
	StatusReading:  "読書中",
	StatusFinished: "読了",
}

// ValidStatuses lists the allowed reading statuses in display order.
var ValidStatuses = []string{StatusUnread, StatusReading, StatusFinished}

// IsValidStatus tells whether a status value is one of the three allowed.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Book represents a catalogued book. The ISBN is stored without
// hyphens and timestamps are RFC3339 in UTC with the `Z` suffix.
type Book struct {
	ID              string `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationDate string `json:"publication_date"`
	Description     string `json:"description"`
	CoverURL        string `json:"cover_url"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// StatusLabel returns the display label of the book current status.
func (b Book) StatusLabel() string {
	if label, ok := StatusLabels[b.Status]; ok {
		return label
	}
	return StatusLabels[StatusUnread]
}
