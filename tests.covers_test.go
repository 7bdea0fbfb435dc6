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

func testCoversConfig() *CoversConfig {
	return &CoversConfig{
		NDLBaseURL:     "https://iss.ndl.go.jp",
		RakutenBaseURL: "https://thumbnail.image.rakuten.co.jp",
		GoogleBooksURL: "https://www.googleapis.com/books/v1/volumes",
		ProbeTimeout:   2 * time.Second,
		NDLTimeout:     time.Second,
		GoogleTimeout:  5 * time.Second,
	}
}

// probeClient answers HEAD probes with the configured status per url
// and records the visit order.
func probeClient(statuses map[string]int) *MockHTTPClient {
	client := &MockHTTPClient{}
	client.DoFunc = func(req *http.Request) (*http.Response, error) {
		status, ok := statuses[req.URL.String()]
		if !ok {
			return httpResponse(http.StatusNotFound, ""), nil
		}
		return httpResponse(status, ""), nil
	}
	return client
}

// TestCoverResolverOrder ensures the ndl thumbnail wins when reachable
// and the next sources are never contacted.
func TestCoverResolverOrder(t *testing.T) {
	client := probeClient(map[string]int{
		"https://iss.ndl.go.jp/thumbnail/9784065208087": http.StatusOK,
	})
	cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)

	coverURL := cr.Resolve(context.Background(), "9784065208087", &openBDRecord{
		Summary: openBDSummary{Cover: "https://cover.openbd.jp/9784065208087.jpg"},
	})
	assert.Equal(t, "https://iss.ndl.go.jp/thumbnail/9784065208087", coverURL)
	assert.Equal(t, 1, client.Calls)
}

// TestCoverResolverSummaryFallback ensures the summary cover is used
// when ndl has no thumbnail, with a hyphenated record isbn rewritten.
func TestCoverResolverSummaryFallback(t *testing.T) {
	client := probeClient(map[string]int{
		"https://cover.openbd.jp/9784065208087.jpg": http.StatusOK,
	})
	cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)

	coverURL := cr.Resolve(context.Background(), "9784065208087", &openBDRecord{
		Summary: openBDSummary{
			ISBN:  "978-4-06-520808-7",
			Cover: "https://cover.openbd.jp/978-4-06-520808-7.jpg",
		},
	})
	assert.Equal(t, "https://cover.openbd.jp/9784065208087.jpg", coverURL)
}

// TestCoverResolverOnix ensures only front cover resources (content
// type 01) are considered.
func TestCoverResolverOnix(t *testing.T) {
	record := &openBDRecord{}
	record.Onix.CollateralDetail.SupportingResource = []openBDSupportingResource{
		{
			ResourceContentType: "07",
			ResourceVersion: []struct {
				ResourceLink string `json:"ResourceLink"`
			}{{ResourceLink: "https://example.com/sample.jpg"}},
		},
		{
			ResourceContentType: "01",
			ResourceVersion: []struct {
				ResourceLink string `json:"ResourceLink"`
			}{{ResourceLink: "https://example.com/front.jpg"}},
		},
	}
	client := probeClient(map[string]int{
		"https://example.com/front.jpg": http.StatusFound,
	})
	cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)

	coverURL := cr.Resolve(context.Background(), "9784065208087", record)
	assert.Equal(t, "https://example.com/front.jpg", coverURL)
}

// TestCoverResolverHanmoto ensures image looking strings buried in the
// hanmoto blob are found, in deterministic key order.
func TestCoverResolverHanmoto(t *testing.T) {
	record := &openBDRecord{
		Hanmoto: map[string]interface{}{
			"zzz":      "https://hanmoto.example.com/z.png",
			"aaa":      "https://hanmoto.example.com/a.jpg",
			"comment":  "no image here",
			"count":    float64(3),
			"homepage": "https://hanmoto.example.com/about.html",
		},
	}
	client := probeClient(map[string]int{
		"https://hanmoto.example.com/a.jpg": http.StatusOK,
		"https://hanmoto.example.com/z.png": http.StatusOK,
	})
	cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)

	coverURL := cr.Resolve(context.Background(), "9784065208087", record)
	assert.Equal(t, "https://hanmoto.example.com/a.jpg", coverURL)
}

// TestCoverResolverRakuten ensures both cabinet patterns are tried for
// 13 digit isbns only.
func TestCoverResolverRakuten(t *testing.T) {
	t.Run("second pattern", func(t *testing.T) {
		client := probeClient(map[string]int{
			"https://thumbnail.image.rakuten.co.jp/@0_mall/book/cabinet/9784065208087.jpg": http.StatusMovedPermanently,
		})
		cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)
		coverURL := cr.fromRakuten(context.Background(), "9784065208087")
		assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/@0_mall/book/cabinet/9784065208087.jpg", coverURL)
	})

	t.Run("first pattern uses last four digits", func(t *testing.T) {
		client := probeClient(map[string]int{
			"https://thumbnail.image.rakuten.co.jp/@0_mall/book/cabinet/8087/9784065208087.jpg": http.StatusOK,
		})
		cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)
		coverURL := cr.fromRakuten(context.Background(), "9784065208087")
		assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/@0_mall/book/cabinet/8087/9784065208087.jpg", coverURL)
	})

	t.Run("short isbn skipped", func(t *testing.T) {
		client := probeClient(nil)
		cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)
		assert.Empty(t, cr.fromRakuten(context.Background(), "4065208087"))
		assert.Equal(t, 0, client.Calls)
	})
}

// TestCoverResolverGoogleBooks ensures the largest image wins and the
// scheme is forced to https.
func TestCoverResolverGoogleBooks(t *testing.T) {
	body := `{"items":[{"volumeInfo":{"imageLinks":{
		"thumbnail": "http://books.google.com/thumb.jpg",
		"large": "http://books.google.com/large.jpg"
	}}}]}`
	client := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "isbn:9784065208087", req.URL.Query().Get("q"))
			return httpResponse(http.StatusOK, body), nil
		},
	}
	cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)

	coverURL := cr.fromGoogleBooks(context.Background(), "9784065208087")
	assert.Equal(t, "https://books.google.com/large.jpg", coverURL)
}

// TestCoverResolverAllFail ensures resolution degrades to an empty
// string when every source fails, network errors included.
func TestCoverResolverAllFail(t *testing.T) {
	client := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("no route to host")
		},
	}
	cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)

	coverURL := cr.Resolve(context.Background(), "9784065208087", &openBDRecord{
		Summary: openBDSummary{Cover: "https://cover.openbd.jp/9784065208087.jpg"},
	})
	assert.Empty(t, coverURL)
}

// TestCoverResolverProbeStatuses ensures only 200, 301 and 302 pass
// the reachability probe.
func TestCoverResolverProbeStatuses(t *testing.T) {
	for status, expected := range map[int]bool{
		http.StatusOK:               true,
		http.StatusMovedPermanently: true,
		http.StatusFound:            true,
		http.StatusSeeOther:         false,
		http.StatusForbidden:        false,
		http.StatusNotFound:         false,
	} {
		client := probeClient(map[string]int{"https://example.com/cover.jpg": status})
		cr := NewCoverResolver(zap.NewNop(), testCoversConfig(), client)
		assert.Equal(t, expected, cr.probe(context.Background(), "https://example.com/cover.jpg", time.Second), "status %d", status)
	}
}
