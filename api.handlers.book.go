package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math/rand"
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type statusCount struct {
	Label string
	Class string
	Count int
}

type statusSection struct {
	Label string
	Books []Book
}

type statusOption struct {
	Value    string
	Label    string
	Selected bool
}

type messagePage struct {
	Title   string
	Message string
	Book    Book
	BackURL string
}

func (api *APIHandler) renderHTML(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if err := tmpl.Execute(w, data); err != nil {
		api.logger.Error("failed to render page", zap.String("template", tmpl.Name()), zap.Error(err))
	}
}

// Index serves the home page: the full catalogue shuffled, with the
// per-status counts on top.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	books := api.bookService.List()
	rand.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})

	counts := make([]statusCount, 0, len(ValidStatuses))
	for _, status := range ValidStatuses {
		counts = append(counts, statusCount{
			Label: StatusLabels[status],
			Class: statusCSSClasses[status],
			Count: len(api.statusService.BooksByStatus(status)),
		})
	}

	api.renderHTML(w, homeTemplate, struct {
		Total  int
		Counts []statusCount
		Books  []Book
	}{len(books), counts, books})
}

// BooksList serves the catalogue grouped by reading status.
func (api *APIHandler) BooksList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sections := make([]statusSection, 0, len(ValidStatuses))
	for _, status := range ValidStatuses {
		books := api.statusService.BooksByStatus(status)
		sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
		sections = append(sections, statusSection{Label: StatusLabels[status], Books: books})
	}
	api.renderHTML(w, booksListTemplate, struct{ Sections []statusSection }{sections})
}

// BookDetail serves the page of a single book with its markdown
// impression rendered, its notes, its status history and the status
// change and delete forms.
func (api *APIHandler) BookDetail(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	book, err := api.bookService.Get(params.ByName("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var markdownHTML template.HTML
	if content, err := api.markdownService.Get(book.ID, book.Title); err == nil && content != "" {
		markdownHTML = template.HTML(ConvertMarkdownToHTML(content))
	}

	statuses := make([]statusOption, 0, len(ValidStatuses))
	for _, status := range ValidStatuses {
		statuses = append(statuses, statusOption{
			Value:    status,
			Label:    StatusLabels[status],
			Selected: status == book.Status,
		})
	}

	api.renderHTML(w, bookDetailTemplate, struct {
		Book         Book
		MarkdownHTML template.HTML
		Impressions  []Impression
		History      []StatusHistory
		Statuses     []statusOption
	}{
		Book:         book,
		MarkdownHTML: markdownHTML,
		Impressions:  api.impressionService.ListByBook(book.ID),
		History:      api.statusService.HistoryByBook(book.ID),
		Statuses:     statuses,
	})
}

// UpdateBookStatus handles the status change form of the detail page.
func (api *APIHandler) UpdateBookStatus(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	bookID := params.ByName("id")
	if _, err := api.statusService.Set(bookID, r.FormValue("status")); err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			http.NotFound(w, r)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, "invalid status value", http.StatusBadRequest)
		default:
			api.logger.Error("failed to update book status", zap.String("book.id", bookID), zap.Error(err))
			http.Error(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, "/books/"+bookID, http.StatusSeeOther)
}

// DeleteBookWeb handles the delete form of the detail page. The book
// and its impressions go away together.
func (api *APIHandler) DeleteBookWeb(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	bookID := params.ByName("id")
	if err := api.bookService.Delete(bookID); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			http.NotFound(w, r)
			return
		}
		api.logger.Error("failed to delete book", zap.String("book.id", bookID), zap.Error(err))
		http.Error(w, "failed to delete book", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

// ScanPage serves the camera based barcode scanning page.
func (api *APIHandler) ScanPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	fmt.Fprint(w, scanPageHTML)
}

// GenerateSitePage serves the static site generation page.
func (api *APIHandler) GenerateSitePage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	api.renderHTML(w, generateSiteTemplate, nil)
}

// GenerateSite triggers the static site generation.
func (api *APIHandler) GenerateSite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := api.siteGenerator.Generate(); err != nil {
		api.logger.Error("failed to generate static site", zap.Error(err))
		api.renderHTML(w, messageTemplate, messagePage{
			Title:   "サイト生成に失敗しました",
			Message: "静的サイトの生成中にエラーが発生しました。",
			BackURL: "/generate-site",
		})
		return
	}
	api.renderHTML(w, messageTemplate, messagePage{
		Title:   "サイトを生成しました",
		Message: "静的サイトを出力しました。",
		BackURL: "/",
	})
}

// AddBookFromISBN handles the manual isbn form of the scan page and
// answers with a result page.
func (api *APIHandler) AddBookFromISBN(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	isbn := NormalizeISBN(r.FormValue("isbn"))
	if isbn == "" {
		http.Error(w, "isbn is required", http.StatusBadRequest)
		return
	}

	book, err := api.bookService.Create(r.Context(), isbn)
	if err != nil {
		page := messagePage{Title: "登録に失敗しました", BackURL: "/scan"}
		switch {
		case errors.Is(err, ErrDuplicateISBN):
			page.Message = fmt.Sprintf("ISBN %s は既に登録されています。", isbn)
		case errors.Is(err, ErrISBNNotFound):
			page.Message = fmt.Sprintf("ISBN %s の書誌情報が見つかりませんでした。", isbn)
		default:
			api.logger.Error("failed to register book", zap.String("isbn", isbn), zap.Error(err))
			page.Message = "書誌情報の取得中にエラーが発生しました。"
		}
		api.renderHTML(w, messageTemplate, page)
		return
	}

	api.renderHTML(w, messageTemplate, messagePage{
		Title:   "本を登録しました",
		Message: fmt.Sprintf("ISBN %s の本を登録しました。", isbn),
		Book:    book,
		BackURL: "/scan",
	})
}

// APIAddBookFromISBN registers a book from a json payload. The scan
// page posts every decoded barcode here. A duplicate isbn answers 409
// so the page can tell "already in the catalogue" apart from a real
// failure.
func (api *APIHandler) APIAddBookFromISBN(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)

	var payload struct {
		ISBN string `json:"isbn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if err := WriteErrorResponse(w, NewAPIError(requestID, http.StatusBadRequest, "invalid json payload", EmptyData)); err != nil {
			api.logger.Error("failed to send api response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	isbn := NormalizeISBN(payload.ISBN)
	if isbn == "" {
		if err := WriteErrorResponse(w, NewAPIError(requestID, http.StatusBadRequest, "isbn is required", EmptyData)); err != nil {
			api.logger.Error("failed to send api response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.bookService.Create(r.Context(), isbn)
	if err != nil {
		status := http.StatusInternalServerError
		message := "failed to register book"
		switch {
		case errors.Is(err, ErrDuplicateISBN):
			status = http.StatusConflict
			message = "book already registered"
		case errors.Is(err, ErrISBNNotFound):
			message = "book not found for isbn"
		default:
			api.logger.Error("failed to register book", zap.String("request.id", requestID), zap.String("isbn", isbn), zap.Error(err))
		}
		if err := WriteErrorResponse(w, NewAPIError(requestID, status, message, EmptyData)); err != nil {
			api.logger.Error("failed to send api response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if err := WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"requestid": requestID,
		"book":      book,
	}); err != nil {
		api.logger.Error("failed to send api response", zap.String("request.id", requestID), zap.Error(err))
	}
}
