package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// HTTPDoer abstracts the http client so lookup and cover resolution
// can be exercised offline in tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BookInfo is the flattened result of a bibliographic lookup.
type BookInfo struct {
	Title           string
	Author          string
	Publisher       string
	PublicationDate string
	Description     string
	CoverURL        string
}

// LookupClient fetches bibliographic records by isbn.
type LookupClient interface {
	Fetch(ctx context.Context, isbn string) (BookInfo, error)
}

// openBDRecord mirrors the subset of the openBD response the
// application cares about. The hanmoto blob is vendor specific and
// free form so it stays an untyped map.
type openBDRecord struct {
	Summary openBDSummary          `json:"summary"`
	Onix    openBDOnix             `json:"onix"`
	Hanmoto map[string]interface{} `json:"hanmoto"`
}

type openBDSummary struct {
	ISBN      string      `json:"isbn"`
	Title     string      `json:"title"`
	Author    interface{} `json:"author"`
	Publisher string      `json:"publisher"`
	Cover     string      `json:"cover"`
	Content   string      `json:"content"`
}

type openBDOnix struct {
	ProductPublicationDetail struct {
		PublicationDate string `json:"PublicationDate"`
	} `json:"ProductPublicationDetail"`
	CollateralDetail struct {
		SupportingResource []openBDSupportingResource `json:"SupportingResource"`
	} `json:"CollateralDetail"`
}

type openBDSupportingResource struct {
	ResourceContentType string `json:"ResourceContentType"`
	ResourceVersion     []struct {
		ResourceLink string `json:"ResourceLink"`
	} `json:"ResourceVersion"`
}

var _ LookupClient = (*OpenBDClient)(nil) // ensure OpenBDClient implements LookupClient.

// OpenBDClient fetches book records from the openBD api. Transient
// network failures are retried with a fixed budget and a fixed sleep
// between attempts.
type OpenBDClient struct {
	logger *zap.Logger
	config *OpenBDConfig
	client HTTPDoer
	covers *CoverResolver
	sleep  func(time.Duration)
}

// NewOpenBDClient provides a ready to use openBD lookup client.
func NewOpenBDClient(logger *zap.Logger, config *OpenBDConfig, client HTTPDoer, covers *CoverResolver) *OpenBDClient {
	return &OpenBDClient{
		logger: logger,
		config: config,
		client: client,
		covers: covers,
		sleep:  time.Sleep,
	}
}

// Fetch retrieves the bibliographic record for an isbn. It returns
// ErrISBNNotFound when openBD has no record for it (not retried) and
// a NetworkError once the retry budget is exhausted.
func (oc *OpenBDClient) Fetch(ctx context.Context, isbn string) (BookInfo, error) {
	var lastErr error
	for attempt := 0; attempt < oc.config.MaxRetries; attempt++ {
		record, err := oc.fetchOnce(ctx, isbn)
		if err == nil {
			return oc.extract(ctx, isbn, record)
		}
		if err == ErrISBNNotFound {
			return BookInfo{}, err
		}
		var retryable *retryableError
		if !errors.As(err, &retryable) {
			// Protocol level failures are surfaced right away.
			return BookInfo{}, &NetworkError{Attempts: attempt + 1, Err: err}
		}
		lastErr = retryable.err
		oc.logger.Warn("openbd: transient failure, will retry",
			zap.String("isbn", isbn),
			zap.Int("attempt", attempt+1),
			zap.Error(retryable.err),
		)
		if attempt < oc.config.MaxRetries-1 {
			oc.sleep(oc.config.RetryDelay)
		}
	}
	return BookInfo{}, &NetworkError{Attempts: oc.config.MaxRetries, Err: lastErr}
}

// retryableError tags timeouts and connection failures which are worth
// another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// fetchOnce performs a single lookup call.
func (oc *OpenBDClient) fetchOnce(ctx context.Context, isbn string) (*openBDRecord, error) {
	rCtx, cancel := context.WithTimeout(ctx, oc.config.Timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1/get?isbn=%s", oc.config.BaseURL, url.QueryEscape(isbn))
	req, err := http.NewRequestWithContext(rCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := oc.client.Do(req)
	if err != nil {
		// Transport errors cover timeouts and connection failures.
		return nil, &retryableError{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("openbd: unexpected status %d", resp.StatusCode)
	}

	// The api answers with a one element array, the element being
	// null when the isbn is unknown.
	var records []*openBDRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("openbd: malformed response: %w", err)
	}
	if len(records) == 0 || records[0] == nil {
		return nil, ErrISBNNotFound
	}
	return records[0], nil
}

// extract flattens an openBD record into a BookInfo. The cover url
// resolution is best effort and never fails the lookup.
func (oc *OpenBDClient) extract(ctx context.Context, isbn string, record *openBDRecord) (BookInfo, error) {
	info := BookInfo{
		Title:           record.Summary.Title,
		Author:          extractAuthor(record.Summary.Author),
		Publisher:       record.Summary.Publisher,
		PublicationDate: formatPublicationDate(record.Onix.ProductPublicationDetail.PublicationDate),
		Description:     record.Summary.Content,
	}
	if oc.covers != nil {
		info.CoverURL = oc.covers.Resolve(ctx, NormalizeISBN(isbn), record)
	}
	return info, nil
}

// extractAuthor coerces the author field, which openBD serves either
// as a string or a list of strings, then normalizes it for display.
func extractAuthor(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return CleanAuthorName(v)
	case []interface{}:
		joined := ""
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if joined != "" {
				joined += ", "
			}
			joined += s
		}
		return CleanAuthorName(joined)
	default:
		return ""
	}
}

// formatPublicationDate rewrites the compact YYYYMMDD openBD form into
// YYYY-MM-DD. Any other shape passes through unchanged.
func formatPublicationDate(date string) string {
	if len(date) == 8 {
		return date[0:4] + "-" + date[4:6] + "-" + date[6:8]
	}
	return date
}
