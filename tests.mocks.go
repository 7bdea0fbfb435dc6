package main

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
	counter   int
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock. Successive
// calls stay unique so services handling several records can tell them
// apart.
func (muid *MockUIDHandler) Generate(prefix string) string {
	muid.counter++
	return prefix + "-" + muid.MockedUID + "-" + strconv.Itoa(muid.counter)
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// MockHTTPClient implements a fake HTTPDoer.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
	Calls  int
}

// Do mocks the behavior of performing an http call.
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.Calls++
	return m.DoFunc(req)
}

// httpResponse builds a minimal response for mocked http calls.
func httpResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// MockLookupClient implements a fake LookupClient.
type MockLookupClient struct {
	FetchFunc func(ctx context.Context, isbn string) (BookInfo, error)
	Calls     int
}

// Fetch mocks the behavior of a bibliographic lookup.
func (m *MockLookupClient) Fetch(ctx context.Context, isbn string) (BookInfo, error) {
	m.Calls++
	return m.FetchFunc(ctx, isbn)
}

// MockBookStorage implements a fake BookStorage.
type MockBookStorage struct {
	LoadBooksFunc func() ([]Book, error)
	SaveBooksFunc func(books []Book) error
}

// LoadBooks mocks the behavior of reading the books dataset.
func (m *MockBookStorage) LoadBooks() ([]Book, error) {
	return m.LoadBooksFunc()
}

// SaveBooks mocks the behavior of writing the books dataset.
func (m *MockBookStorage) SaveBooks(books []Book) error {
	return m.SaveBooksFunc(books)
}
