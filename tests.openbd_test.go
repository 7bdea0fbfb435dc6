package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const norwegianWoodRecord = `[{
	"summary": {
		"isbn": "9784065208087",
		"title": "ノルウェイの森",
		"author": "村上, 春樹, 1949-",
		"publisher": "講談社",
		"cover": "",
		"content": "青春小説の金字塔。"
	},
	"onix": {
		"ProductPublicationDetail": {
			"PublicationDate": "19870904"
		}
	}
}]`

func testOpenBDConfig() *OpenBDConfig {
	return &OpenBDConfig{
		BaseURL:    "https://api.openbd.jp",
		Timeout:    time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// TestOpenBDClientFetch ensures a bibliographic record is fetched and
// flattened with normalized author and publication date.
func TestOpenBDClientFetch(t *testing.T) {
	client := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "https://api.openbd.jp/v1/get?isbn=9784065208087", req.URL.String())
			return httpResponse(http.StatusOK, norwegianWoodRecord), nil
		},
	}
	oc := NewOpenBDClient(zap.NewNop(), testOpenBDConfig(), client, nil)

	info, err := oc.Fetch(context.Background(), "9784065208087")
	assert.NoError(t, err)
	assert.Equal(t, "ノルウェイの森", info.Title)
	assert.Equal(t, "村上 春樹", info.Author)
	assert.Equal(t, "講談社", info.Publisher)
	assert.Equal(t, "1987-09-04", info.PublicationDate)
	assert.Equal(t, "青春小説の金字塔。", info.Description)
	assert.Equal(t, 1, client.Calls)
}

// TestOpenBDClientFetchNotFound ensures an unknown isbn is reported as
// not found without burning the retry budget.
func TestOpenBDClientFetchNotFound(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "null record", body: `[null]`},
		{name: "empty array", body: `[]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &MockHTTPClient{
				DoFunc: func(req *http.Request) (*http.Response, error) {
					return httpResponse(http.StatusOK, tc.body), nil
				},
			}
			oc := NewOpenBDClient(zap.NewNop(), testOpenBDConfig(), client, nil)

			_, err := oc.Fetch(context.Background(), "9999999999999")
			assert.ErrorIs(t, err, ErrISBNNotFound)
			assert.Equal(t, 1, client.Calls)
		})
	}
}

// TestOpenBDClientFetchRetries ensures transport failures are retried
// with the configured delay until the budget is exhausted.
func TestOpenBDClientFetchRetries(t *testing.T) {
	client := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	}
	oc := NewOpenBDClient(zap.NewNop(), testOpenBDConfig(), client, nil)
	var slept []time.Duration
	oc.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := oc.Fetch(context.Background(), "9784065208087")
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Equal(t, 3, netErr.Attempts)
	assert.Equal(t, 3, client.Calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, slept)
}

// TestOpenBDClientFetchRecoversAfterFailure ensures a transient failure
// followed by a good response succeeds.
func TestOpenBDClientFetchRecoversAfterFailure(t *testing.T) {
	client := &MockHTTPClient{}
	client.DoFunc = func(req *http.Request) (*http.Response, error) {
		if client.Calls == 1 {
			return nil, errors.New("timeout")
		}
		return httpResponse(http.StatusOK, norwegianWoodRecord), nil
	}
	oc := NewOpenBDClient(zap.NewNop(), testOpenBDConfig(), client, nil)
	oc.sleep = func(time.Duration) {}

	info, err := oc.Fetch(context.Background(), "9784065208087")
	assert.NoError(t, err)
	assert.Equal(t, "ノルウェイの森", info.Title)
	assert.Equal(t, 2, client.Calls)
}

// TestOpenBDClientFetchServerError ensures a protocol level failure is
// surfaced right away instead of being retried.
func TestOpenBDClientFetchServerError(t *testing.T) {
	client := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return httpResponse(http.StatusInternalServerError, ""), nil
		},
	}
	oc := NewOpenBDClient(zap.NewNop(), testOpenBDConfig(), client, nil)

	_, err := oc.Fetch(context.Background(), "9784065208087")
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Equal(t, 1, netErr.Attempts)
	assert.Equal(t, 1, client.Calls)
}

// TestExtractAuthor ensures the author field is coerced from the two
// shapes openBD serves.
func TestExtractAuthor(t *testing.T) {
	assert.Equal(t, "村上 春樹", extractAuthor("村上, 春樹, 1949-"))
	assert.Equal(t, "村上 春樹", extractAuthor([]interface{}{"村上", "春樹"}))
	assert.Equal(t, "", extractAuthor(nil))
	assert.Equal(t, "", extractAuthor(42))
}

// TestFormatPublicationDate ensures only the compact 8 digits shape is
// rewritten.
func TestFormatPublicationDate(t *testing.T) {
	assert.Equal(t, "1987-09-04", formatPublicationDate("19870904"))
	assert.Equal(t, "1987-09", formatPublicationDate("1987-09"))
	assert.Equal(t, "", formatPublicationDate(""))
}
