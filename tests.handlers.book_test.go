package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	books   *bookServiceFixture
	status  *StatusService
	api     *APIHandler
	sitegen *StaticSiteGenerator
}

func newAPIFixture(t *testing.T, lookup *MockLookupClient) *apiFixture {
	t.Helper()
	fx := newBookServiceFixture(t, lookup)
	statusService, err := NewStatusService(zap.NewNop(), NewMockClocker(), NewMockUIDHandler("his", true), fx.storage, fx.books)
	require.NoError(t, err)
	sitegen := NewStaticSiteGenerator(zap.NewNop(), fx.books, fx.impressions, fx.markdown, t.TempDir())
	api := NewAPIHandler(
		zap.NewNop(),
		&Config{},
		&Statistics{started: NewMockClocker().Now()},
		NewMockClocker(),
		NewMockUIDHandler("req", true),
		fx.books,
		fx.impressions,
		statusService,
		fx.markdown,
		sitegen,
	)
	return &apiFixture{books: fx, status: statusService, api: api, sitegen: sitegen}
}

// TestStatusHandler ensures the handler can provide its status.
func TestStatusHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	fx := newAPIFixture(t, norwegianWoodLookup())
	fx.api.Status(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	m := make(map[string]interface{})
	err = json.Unmarshal(data, &m)
	assert.NoError(t, err)

	_, ok := m["requestid"]
	assert.True(t, ok)

	v, ok := m["status"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", v)

	v, ok = m["message"]
	assert.True(t, ok)
	assert.Equal(t, "Hello. Bookshelf catalogue is available. Enjoy :)", v)
}

// TestAPIAddBookFromISBNHandler ensures the json registration endpoint
// distinguishes success, duplicates and lookup failures.
func TestAPIAddBookFromISBNHandler(t *testing.T) {
	postJSON := func(api *APIHandler, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/add-book-from-isbn", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		api.APIAddBookFromISBN(w, req, httprouter.Params{})
		return w.Result()
	}

	t.Run("should pass: valid isbn", func(t *testing.T) {
		fx := newAPIFixture(t, norwegianWoodLookup())
		res := postJSON(fx.api, `{"isbn":"978-4-06-520808-7"}`)
		defer res.Body.Close()
		assert.Equal(t, http.StatusCreated, res.StatusCode)

		m := make(map[string]interface{})
		require.NoError(t, json.NewDecoder(res.Body).Decode(&m))
		assert.Equal(t, true, m["success"])
		book, ok := m["book"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "ノルウェイの森", book["title"])
		assert.Equal(t, "9784065208087", book["isbn"])
	})

	t.Run("should fail: duplicate isbn answers 409", func(t *testing.T) {
		fx := newAPIFixture(t, norwegianWoodLookup())
		res := postJSON(fx.api, `{"isbn":"9784065208087"}`)
		res.Body.Close()
		require.Equal(t, http.StatusCreated, res.StatusCode)

		res = postJSON(fx.api, `{"isbn":"9784065208087"}`)
		defer res.Body.Close()
		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Equal(t, 1, fx.books.lookup.Calls)
	})

	t.Run("should fail: missing isbn answers 400", func(t *testing.T) {
		fx := newAPIFixture(t, norwegianWoodLookup())
		res := postJSON(fx.api, `{"isbn":"  "}`)
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should fail: malformed payload answers 400", func(t *testing.T) {
		fx := newAPIFixture(t, norwegianWoodLookup())
		res := postJSON(fx.api, `{invalid json`)
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should fail: unknown isbn answers 500", func(t *testing.T) {
		lookup := &MockLookupClient{
			FetchFunc: func(ctx context.Context, isbn string) (BookInfo, error) {
				return BookInfo{}, ErrISBNNotFound
			},
		}
		fx := newAPIFixture(t, lookup)
		res := postJSON(fx.api, `{"isbn":"9999999999999"}`)
		defer res.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	})

	t.Run("should fail: network failure answers 500", func(t *testing.T) {
		lookup := &MockLookupClient{
			FetchFunc: func(ctx context.Context, isbn string) (BookInfo, error) {
				return BookInfo{}, &NetworkError{Attempts: 3, Err: errors.New("timeout")}
			},
		}
		fx := newAPIFixture(t, lookup)
		res := postJSON(fx.api, `{"isbn":"9784065208087"}`)
		defer res.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	})
}

// TestBookDetailHandler ensures the detail page renders the book and
// answers 404 on unknown ids.
func TestBookDetailHandler(t *testing.T) {
	fx := newAPIFixture(t, norwegianWoodLookup())
	book, err := fx.books.books.Create(context.Background(), "9784065208087")
	require.NoError(t, err)

	t.Run("should pass: known book", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books/"+book.ID, nil)
		w := httptest.NewRecorder()
		fx.api.BookDetail(w, req, httprouter.Params{{Key: "id", Value: book.ID}})
		res := w.Result()
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, string(body), "ノルウェイの森")
		assert.Contains(t, string(body), "村上 春樹")
	})

	t.Run("should fail: unknown book", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books/b-missing", nil)
		w := httptest.NewRecorder()
		fx.api.BookDetail(w, req, httprouter.Params{{Key: "id", Value: "b-missing"}})
		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})
}

// TestUpdateBookStatusHandler ensures the form transition redirects
// back to the detail page.
func TestUpdateBookStatusHandler(t *testing.T) {
	fx := newAPIFixture(t, norwegianWoodLookup())
	book, err := fx.books.books.Create(context.Background(), "9784065208087")
	require.NoError(t, err)

	form := url.Values{"status": {StatusReading}}
	req := httptest.NewRequest(http.MethodPost, "/books/"+book.ID+"/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	fx.api.UpdateBookStatus(w, req, httprouter.Params{{Key: "id", Value: book.ID}})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/books/"+book.ID, res.Header.Get("Location"))

	updated, err := fx.books.books.Get(book.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReading, updated.Status)

	t.Run("should fail: invalid status", func(t *testing.T) {
		form := url.Values{"status": {"abandoned"}}
		req := httptest.NewRequest(http.MethodPost, "/books/"+book.ID+"/status", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		fx.api.UpdateBookStatus(w, req, httprouter.Params{{Key: "id", Value: book.ID}})
		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

// TestDeleteBookWebHandler ensures the delete form cascades and
// redirects to the list page.
func TestDeleteBookWebHandler(t *testing.T) {
	fx := newAPIFixture(t, norwegianWoodLookup())
	book, err := fx.books.books.Create(context.Background(), "9784065208087")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/books/"+book.ID+"/delete", nil)
	w := httptest.NewRecorder()
	fx.api.DeleteBookWeb(w, req, httprouter.Params{{Key: "id", Value: book.ID}})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/books", res.Header.Get("Location"))
	assert.Empty(t, fx.books.books.List())
}

// TestAddBookFromISBNFormHandler ensures the manual form flow answers
// with a result page.
func TestAddBookFromISBNFormHandler(t *testing.T) {
	t.Run("should pass: valid isbn", func(t *testing.T) {
		fx := newAPIFixture(t, norwegianWoodLookup())
		form := url.Values{"isbn": {"9784065208087"}}
		req := httptest.NewRequest(http.MethodPost, "/add-book-from-isbn", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		fx.api.AddBookFromISBN(w, req, httprouter.Params{})
		res := w.Result()
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, string(body), "本を登録しました")
		assert.Contains(t, string(body), "ノルウェイの森")
	})

	t.Run("should fail: missing isbn", func(t *testing.T) {
		fx := newAPIFixture(t, norwegianWoodLookup())
		req := httptest.NewRequest(http.MethodPost, "/add-book-from-isbn", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		fx.api.AddBookFromISBN(w, req, httprouter.Params{})
		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

// TestHomeHandler ensures the home page lists the catalogue with its
// per status counters.
func TestHomeHandler(t *testing.T) {
	fx := newAPIFixture(t, norwegianWoodLookup())
	_, err := fx.books.books.Create(context.Background(), "9784065208087")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	fx.api.Index(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "蔵書数: 1冊")
	assert.Contains(t, string(body), "ノルウェイの森")
	assert.Contains(t, string(body), "積読: 1冊")
}
