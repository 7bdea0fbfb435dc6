package main

import "html/template"

// Templates of the dynamic web ui. The generated static site has its
// own set in sitegen.go.

const pageCSS = `body { font-family: sans-serif; margin: 20px; }
h1 { color: #2c3e50; }
.section { margin: 20px 0; }
.book-list { display: grid; grid-template-columns: repeat(auto-fill, minmax(250px, 1fr)); gap: 20px; }
.book-card { border: 1px solid #ddd; padding: 15px; border-radius: 8px; }
.book-card h3 { margin: 0 0 10px 0; }
.book-card p { margin: 5px 0; font-size: 0.9em; }
.book-cover { width: 100%; height: 200px; background: #f0f0f0; border-radius: 4px; margin-bottom: 10px; display: flex; align-items: center; justify-content: center; overflow: hidden; color: #999; }
.book-cover img { width: 100%; height: 100%; object-fit: cover; border-radius: 4px; }
.status { display: inline-block; padding: 3px 8px; border-radius: 3px; font-size: 0.8em; }
.status-unread { background: #e8f4f8; color: #0277bd; }
.status-reading { background: #fff3e0; color: #e65100; }
.status-completed { background: #e8f5e9; color: #2e7d32; }
a { color: #3498db; text-decoration: none; }
a:hover { text-decoration: underline; }
.danger { color: #c62828; }
button { padding: 8px 15px; border: none; border-radius: 4px; cursor: pointer; background: #3498db; color: white; }
button.danger { background: #c62828; }
.impression { border: 1px solid #eee; border-radius: 6px; padding: 12px; margin: 12px 0; }
.impression-date { color: #999; font-size: 0.8em; }`

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <title>蔵書管理 - ホーム</title>
    <style>` + pageCSS + `</style>
</head>
<body>
    <h1>蔵書管理</h1>
    <nav>
        <a href="/books">本一覧</a> |
        <a href="/scan">バーコード読み取り</a> |
        <a href="/generate-site">サイト生成</a>
    </nav>
    <div class="section">
        <h2>蔵書数: {{.Total}}冊</h2>
        <p>
        {{- range .Counts}}
        <span class="status status-{{.Class}}">{{.Label}}: {{.Count}}冊</span>
        {{- end}}
        </p>
        <div class="book-list">
{{- range .Books}}
            <div class="book-card">
                <div class="book-cover">
                    {{- if .CoverURL}}<img src="{{.CoverURL}}" alt="{{.Title}}">{{- else}}書影なし{{- end}}
                </div>
                <h3>{{.Title}}</h3>
                <p><strong>著者:</strong> {{.Author}}</p>
                <p><strong>出版社:</strong> {{.Publisher}}</p>
                <p><span class="status status-{{.StatusClass}}">{{.StatusLabel}}</span></p>
                <a href="/books/{{.ID}}">詳細</a>
            </div>
{{- end}}
        </div>
    </div>
</body>
</html>
`))

var booksListTemplate = template.Must(template.New("books").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <title>本一覧</title>
    <style>` + pageCSS + `</style>
</head>
<body>
    <h1>本一覧</h1>
    <a href="/">← ホームに戻る</a>
{{- range .Sections}}
    <div class="section">
        <h2>{{.Label}} ({{len .Books}}冊)</h2>
        <div class="book-list">
    {{- range .Books}}
            <div class="book-card">
                <div class="book-cover">
                    {{- if .CoverURL}}<img src="{{.CoverURL}}" alt="{{.Title}}">{{- else}}書影なし{{- end}}
                </div>
                <h3>{{.Title}}</h3>
                <p><strong>著者:</strong> {{.Author}}</p>
                <p><strong>出版社:</strong> {{.Publisher}}</p>
                <a href="/books/{{.ID}}">詳細</a>
            </div>
    {{- end}}
        </div>
    </div>
{{- end}}
</body>
</html>
`))

var bookDetailTemplate = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <title>{{.Book.Title}}</title>
    <style>` + pageCSS + `</style>
</head>
<body>
    <a href="/books">← 本一覧に戻る</a>
    <h1>{{.Book.Title}}</h1>
    <div class="book-cover" style="width: 300px; height: 400px;">
        {{- if .Book.CoverURL}}<img src="{{.Book.CoverURL}}" alt="{{.Book.Title}}">{{- else}}書影なし{{- end}}
    </div>
    <p><strong>著者:</strong> {{.Book.Author}}</p>
    <p><strong>出版社:</strong> {{.Book.Publisher}}</p>
    <p><strong>出版日:</strong> {{.Book.PublicationDate}}</p>
    <p><strong>ISBN:</strong> {{.Book.ISBN}}</p>
    <p><strong>ステータス:</strong> <span class="status status-{{.Book.StatusClass}}">{{.Book.StatusLabel}}</span></p>
    <p>{{.Book.Description}}</p>

    {{- if .MarkdownHTML}}
    <div class="section">
        <h2>感想</h2>
        <div class="impression">{{.MarkdownHTML}}</div>
    </div>
    {{- end}}
    {{- if .Impressions}}
    <div class="section">
        <h2>感想メモ</h2>
        {{- range .Impressions}}
        <div class="impression">
            <p>{{.Content}}</p>
            <p class="impression-date">{{.CreatedAt}}</p>
        </div>
        {{- end}}
    </div>
    {{- end}}

    <div class="section">
        <h2>ステータス変更</h2>
        <form method="POST" action="/books/{{.Book.ID}}/status">
            <select name="status">
            {{- range .Statuses}}
                <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
            {{- end}}
            </select>
            <button type="submit">変更</button>
        </form>
    </div>

    {{- if .History}}
    <div class="section">
        <h2>ステータス履歴</h2>
        <ul>
        {{- range .History}}
            <li>{{.ChangedAt}}: {{.OldStatus}} → {{.NewStatus}}</li>
        {{- end}}
        </ul>
    </div>
    {{- end}}

    <div class="section">
        <h2>本の削除</h2>
        <p class="danger"><strong>注意:</strong> この操作は取り消せません。本と関連する感想も削除されます。</p>
        <form method="POST" action="/books/{{.Book.ID}}/delete" onsubmit="return confirm('本当にこの本を削除しますか？')">
            <button type="submit" class="danger">本を削除</button>
        </form>
    </div>
</body>
</html>
`))

var messageTemplate = template.Must(template.New("message").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>` + pageCSS + `</style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>{{.Message}}</p>
    {{- if .Book.ID}}
    <div class="section">
        <p><strong>タイトル:</strong> {{.Book.Title}}</p>
        <p><strong>著者:</strong> {{.Book.Author}}</p>
        <p><strong>出版社:</strong> {{.Book.Publisher}}</p>
        <p><a href="/books/{{.Book.ID}}">詳細を見る</a></p>
    </div>
    {{- end}}
    <p><a href="{{.BackURL}}">← 戻る</a></p>
</body>
</html>
`))

var generateSiteTemplate = template.Must(template.New("gensite").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <title>サイト生成</title>
    <style>` + pageCSS + `</style>
</head>
<body>
    <a href="/">← ホームに戻る</a>
    <h1>静的サイト生成</h1>
    <p>蔵書カタログを静的HTMLとして出力します。</p>
    <form method="POST" action="/generate-site">
        <button type="submit">サイトを生成</button>
    </form>
</body>
</html>
`))

// scanPageHTML is served as is: the barcode decoding happens in the
// browser with the ZXing library and detected isbns are posted to the
// json api endpoint.
const scanPageHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <title>バーコード読み取り</title>
    <script src="https://cdn.jsdelivr.net/npm/@zxing/library@0.20.0/umd/index.min.js"></script>
    <style>
        body { font-family: sans-serif; margin: 20px; }
        h1 { color: #2c3e50; }
        .info { background: #e8f4f8; padding: 15px; border-radius: 4px; margin: 20px 0; }
        button { padding: 10px 20px; background: #3498db; color: white; border: none; border-radius: 4px; cursor: pointer; margin-right: 10px; }
        button:disabled { background: #95a5a6; cursor: not-allowed; }
        #video { width: 100%; max-width: 500px; border: 2px solid #3498db; margin: 20px 0; display: none; }
        .isbn-input { padding: 10px; font-size: 1em; width: 300px; }
        a { color: #3498db; text-decoration: none; }
        .result { margin: 20px 0; padding: 15px; border-radius: 4px; display: none; }
        .result.success { background: #e8f5e9; color: #2e7d32; border: 1px solid #2e7d32; }
        .result.error { background: #ffebee; color: #c62828; border: 1px solid #c62828; }
    </style>
</head>
<body>
    <a href="/">← ホームに戻る</a>
    <h1>バーコード読み取り</h1>
    <div class="info">
        <p>カメラからISBNバーコードを読み取ります。</p>
        <p>バーコードをカメラに向けてください。</p>
    </div>
    <div class="controls">
        <button id="startBtn" onclick="startCamera()">カメラを起動</button>
        <button id="stopBtn" onclick="stopCamera()" disabled>カメラを停止</button>
    </div>
    <video id="video" width="500" height="400"></video>
    <div id="result" class="result"></div>
    <h2>ISBN入力</h2>
    <form method="POST" action="/add-book-from-isbn">
        <input type="text" name="isbn" class="isbn-input" placeholder="ISBNを入力またはスキャンしてください" required>
        <button type="submit">本を登録</button>
    </form>
    <script>
        const codeReader = new ZXing.BrowserMultiFormatReader();
        const video = document.getElementById('video');
        const result = document.getElementById('result');
        const processed = new Set();

        function showResult(message, ok) {
            result.textContent = message;
            result.className = 'result ' + (ok ? 'success' : 'error');
            result.style.display = 'block';
        }

        async function registerISBN(isbn) {
            if (processed.has(isbn)) return;
            processed.add(isbn);
            try {
                const response = await fetch('/api/add-book-from-isbn', {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify({ isbn: isbn })
                });
                const data = await response.json();
                if (response.ok && data.success) {
                    showResult('登録しました (registered): ' + data.book.title, true);
                } else if (response.status === 409) {
                    showResult('登録済みです (already registered): ' + isbn, false);
                } else {
                    showResult('エラー (error): ' + (data.error || isbn), false);
                }
            } catch (err) {
                showResult('通信エラー (network error): ' + err, false);
            }
        }

        function startCamera() {
            video.style.display = 'block';
            document.getElementById('startBtn').disabled = true;
            document.getElementById('stopBtn').disabled = false;
            codeReader.decodeFromVideoDevice(null, 'video', (scan, err) => {
                if (scan) {
                    const text = scan.getText();
                    if (/^97[89]\d{10}$/.test(text)) {
                        registerISBN(text);
                    }
                }
            });
        }

        function stopCamera() {
            codeReader.reset();
            video.style.display = 'none';
            document.getElementById('startBtn').disabled = false;
            document.getElementById('stopBtn').disabled = true;
        }
    </script>
</body>
</html>
`
