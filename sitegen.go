package main

import (
	"fmt"
	"html/template"
	"math/rand"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// statusCSSClasses maps stored statuses to the css class suffix used
// by both the generated site and the web ui.
var statusCSSClasses = map[string]string{
	StatusUnread:   "unread",
	StatusReading:  "reading",
	StatusFinished: "completed",
}

// StatusClass returns the css class suffix of the book current status.
func (b Book) StatusClass() string {
	if class, ok := statusCSSClasses[b.Status]; ok {
		return class
	}
	return "unread"
}

const siteCSS = `body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    margin: 0;
    padding: 20px;
    background: #fafafa;
    color: #333;
}
h1 { color: #2c3e50; }
.book-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(250px, 1fr));
    gap: 20px;
}
.book-card {
    border: 1px solid #ddd;
    border-radius: 8px;
    padding: 15px;
    background: #fff;
}
.book-card h3 { margin: 0 0 10px 0; }
.book-card p { margin: 5px 0; font-size: 0.9em; }
.book-card img { width: 100%; height: 200px; object-fit: cover; border-radius: 4px; }
.book-cover-placeholder {
    width: 100%;
    height: 200px;
    background: #f0f0f0;
    border-radius: 4px;
    display: flex;
    align-items: center;
    justify-content: center;
    color: #999;
}
.status { display: inline-block; padding: 3px 8px; border-radius: 3px; font-size: 0.8em; }
.status-unread { background: #e8f4f8; color: #0277bd; }
.status-reading { background: #fff3e0; color: #e65100; }
.status-completed { background: #e8f5e9; color: #2e7d32; }
.back-link { color: #3498db; text-decoration: none; }
.back-link:hover { text-decoration: underline; }
.impression {
    border: 1px solid #eee;
    border-radius: 6px;
    padding: 12px;
    margin: 12px 0;
    background: #fff;
}
.impression-date { color: #999; font-size: 0.8em; }
`

var siteIndexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>蔵書一覧</title>
    <link rel="stylesheet" href="style.css">
</head>
<body>
    <h1>蔵書一覧</h1>
    <p>{{len .Books}}冊</p>
    <div class="book-grid">
{{- range .Books}}
        <a href="books/{{.ID}}.html" style="text-decoration: none; color: inherit;">
            <div class="book-card">
                {{- if .CoverURL}}
                <img src="{{.CoverURL}}" alt="{{.Title}}">
                {{- else}}
                <div class="book-cover-placeholder">書影なし</div>
                {{- end}}
                <h3>{{.Title}}</h3>
                <p class="author">{{.Author}}</p>
                <p class="publisher">{{.Publisher}}</p>
                <p><span class="status status-{{.StatusClass}}">{{.StatusLabel}}</span></p>
            </div>
        </a>
{{- end}}
    </div>
</body>
</html>
`))

var siteBookTemplate = template.Must(template.New("book").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Book.Title}}</title>
    <link rel="stylesheet" href="../style.css">
</head>
<body>
    <a href="../index.html" class="back-link">← 戻る</a>
    <div class="book-detail">
        {{- if .Book.CoverURL}}
        <img src="{{.Book.CoverURL}}" alt="{{.Book.Title}}" style="max-width: 300px; border-radius: 4px;">
        {{- end}}
        <h1>{{.Book.Title}}</h1>
        <p>著者: {{.Book.Author}}</p>
        <p>出版社: {{.Book.Publisher}}</p>
        <p>出版日: {{.Book.PublicationDate}}</p>
        <p>ISBN: {{.Book.ISBN}}</p>
        <p><span class="status status-{{.Book.StatusClass}}">{{.Book.StatusLabel}}</span></p>
        <p>{{.Book.Description}}</p>
    </div>
    {{- if .MarkdownHTML}}
    <div class="impressions">
        <h2>感想</h2>
        <div class="impression">{{.MarkdownHTML}}</div>
    </div>
    {{- end}}
    {{- if .Impressions}}
    <div class="impressions">
        <h2>感想メモ</h2>
        {{- range .Impressions}}
        <div class="impression">
            <p class="impression-content">{{.Content}}</p>
            <p class="impression-date">{{.CreatedAt}}</p>
        </div>
        {{- end}}
    </div>
    {{- end}}
</body>
</html>
`))

// StaticSiteGenerator renders the whole catalogue as a set of static
// html pages under the output directory.
type StaticSiteGenerator struct {
	logger      *zap.Logger
	books       BookServiceProvider
	impressions ImpressionServiceProvider
	markdown    *MarkdownImpressionService
	outputDir   string
}

// NewStaticSiteGenerator provides a ready to use site generator.
func NewStaticSiteGenerator(
	logger *zap.Logger,
	books BookServiceProvider,
	impressions ImpressionServiceProvider,
	markdown *MarkdownImpressionService,
	outputDir string,
) *StaticSiteGenerator {
	return &StaticSiteGenerator{
		logger:      logger,
		books:       books,
		impressions: impressions,
		markdown:    markdown,
		outputDir:   outputDir,
	}
}

// Generate writes the stylesheet, the index page and one page per
// book. The index presents books in a random order.
func (sg *StaticSiteGenerator) Generate() error {
	booksDir := filepath.Join(sg.outputDir, "books")
	if err := os.MkdirAll(booksDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(sg.outputDir, "style.css"), []byte(siteCSS), 0o644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}

	books := sg.books.List()
	rand.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})

	if err := sg.generateIndex(books); err != nil {
		return err
	}
	for _, book := range books {
		if err := sg.generateBookPage(booksDir, book); err != nil {
			return err
		}
	}
	sg.logger.Info("static site generated",
		zap.Int("books", len(books)),
		zap.String("output", sg.outputDir),
	)
	return nil
}

func (sg *StaticSiteGenerator) generateIndex(books []Book) error {
	file, err := os.Create(filepath.Join(sg.outputDir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create index page: %w", err)
	}
	defer file.Close()
	return siteIndexTemplate.Execute(file, struct{ Books []Book }{books})
}

func (sg *StaticSiteGenerator) generateBookPage(booksDir string, book Book) error {
	data := struct {
		Book         Book
		MarkdownHTML template.HTML
		Impressions  []Impression
	}{Book: book}

	if sg.markdown != nil {
		if content, err := sg.markdown.Get(book.ID, book.Title); err == nil && content != "" {
			data.MarkdownHTML = template.HTML(ConvertMarkdownToHTML(content))
		}
	}
	if sg.impressions != nil {
		data.Impressions = sg.impressions.ListByBook(book.ID)
	}

	file, err := os.Create(filepath.Join(booksDir, book.ID+".html"))
	if err != nil {
		return fmt.Errorf("failed to create book page: %w", err)
	}
	defer file.Close()
	return siteBookTemplate.Execute(file, data)
}
