package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CoverResolver finds a cover image url for a book by trying several
// independent sources in a fixed priority order and short-circuiting
// on the first candidate which passes a reachability probe. Every
// failure, network or otherwise, degrades to "no cover": resolution
// never fails the enclosing operation.
type CoverResolver struct {
	logger *zap.Logger
	config *CoversConfig
	client HTTPDoer
}

// NewCoverResolver provides a ready to use cover resolver. The client
// must not follow redirects so the probe can accept 301/302 as is.
func NewCoverResolver(logger *zap.Logger, config *CoversConfig, client HTTPDoer) *CoverResolver {
	return &CoverResolver{
		logger: logger,
		config: config,
		client: client,
	}
}

// coverAttempt names a single source in the waterfall.
type coverAttempt struct {
	source string
	try    func() string
}

// Resolve runs the waterfall for a normalized isbn and the raw openBD
// record. It returns an empty string when all sources fail.
func (cr *CoverResolver) Resolve(ctx context.Context, isbn string, record *openBDRecord) string {
	attempts := []coverAttempt{
		{"ndl", func() string { return cr.fromNDL(ctx, isbn) }},
		{"summary", func() string { return cr.fromSummary(ctx, isbn, record) }},
		{"onix", func() string { return cr.fromOnix(ctx, isbn, record) }},
		{"hanmoto", func() string { return cr.fromHanmoto(ctx, record) }},
		{"rakuten", func() string { return cr.fromRakuten(ctx, isbn) }},
		{"google", func() string { return cr.fromGoogleBooks(ctx, isbn) }},
	}

	for _, attempt := range attempts {
		if coverURL := attempt.try(); coverURL != "" {
			cr.logger.Debug("cover resolved",
				zap.String("isbn", isbn),
				zap.String("cover.source", attempt.source),
				zap.String("cover.url", coverURL),
			)
			return coverURL
		}
	}
	return ""
}

// probe checks that a url answers a HEAD request with 200, 301 or 302
// within the given timeout. Redirects are not followed.
func (cr *CoverResolver) probe(ctx context.Context, rawURL string, timeout time.Duration) bool {
	pCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pCtx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := cr.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound:
		return true
	}
	return false
}

// fromNDL probes the national diet library direct thumbnail pattern.
// This is the fastest source so it gets the shortest timeout.
func (cr *CoverResolver) fromNDL(ctx context.Context, isbn string) string {
	if isbn == "" {
		return ""
	}
	ndlURL := fmt.Sprintf("%s/thumbnail/%s", cr.config.NDLBaseURL, isbn)
	if cr.probe(ctx, ndlURL, cr.config.NDLTimeout) {
		return ndlURL
	}
	return ""
}

// fromSummary tries the cover url embedded in the record summary. The
// summary isbn may carry hyphens while the canonical one does not, in
// which case the url is rewritten before probing.
func (cr *CoverResolver) fromSummary(ctx context.Context, isbn string, record *openBDRecord) string {
	if record == nil {
		return ""
	}
	cover := record.Summary.Cover
	if cover == "" {
		return ""
	}
	cover = rewriteHyphenatedISBN(cover, record.Summary.ISBN, isbn)
	if cr.probe(ctx, cover, cr.config.ProbeTimeout) {
		return cover
	}
	return ""
}

// fromOnix walks the ONIX supporting resources for a front cover link.
// ResourceContentType "01" designates the front cover.
func (cr *CoverResolver) fromOnix(ctx context.Context, isbn string, record *openBDRecord) string {
	if record == nil {
		return ""
	}
	for _, resource := range record.Onix.CollateralDetail.SupportingResource {
		if resource.ResourceContentType != "01" {
			continue
		}
		for _, version := range resource.ResourceVersion {
			link := version.ResourceLink
			if link == "" {
				continue
			}
			link = rewriteHyphenatedISBN(link, record.Summary.ISBN, isbn)
			if cr.probe(ctx, link, cr.config.ProbeTimeout) {
				return link
			}
		}
	}
	return ""
}

// fromHanmoto scans the vendor specific hanmoto blob for any string
// value which looks like an image url. Keys are visited in sorted
// order so resolution is deterministic.
func (cr *CoverResolver) fromHanmoto(ctx context.Context, record *openBDRecord) string {
	if record == nil || len(record.Hanmoto) == 0 {
		return ""
	}
	keys := make([]string, 0, len(record.Hanmoto))
	for key := range record.Hanmoto {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, ok := record.Hanmoto[key].(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(value)
		if !strings.Contains(lower, "http") {
			continue
		}
		if !strings.Contains(lower, ".jpg") && !strings.Contains(lower, ".png") {
			continue
		}
		if cr.probe(ctx, value, cr.config.ProbeTimeout) {
			return value
		}
	}
	return ""
}

// fromRakuten tries the two known rakuten books cabinet url patterns.
// Only 13 digit isbns have a cabinet path.
func (cr *CoverResolver) fromRakuten(ctx context.Context, isbn string) string {
	if len(isbn) != 13 {
		return ""
	}
	candidates := []string{
		fmt.Sprintf("%s/@0_mall/book/cabinet/%s/%s.jpg", cr.config.RakutenBaseURL, isbn[len(isbn)-4:], isbn),
		fmt.Sprintf("%s/@0_mall/book/cabinet/%s.jpg", cr.config.RakutenBaseURL, isbn),
	}
	for _, candidate := range candidates {
		if cr.probe(ctx, candidate, cr.config.ProbeTimeout) {
			return candidate
		}
	}
	return ""
}

// googleBooksResponse is the subset of the volumes api response used
// to pick a cover image.
type googleBooksResponse struct {
	Items []struct {
		VolumeInfo struct {
			ImageLinks map[string]string `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// fromGoogleBooks queries the volumes api by isbn and picks the
// largest available image, forcing the scheme to https.
func (cr *CoverResolver) fromGoogleBooks(ctx context.Context, isbn string) string {
	if isbn == "" {
		return ""
	}
	gCtx, cancel := context.WithTimeout(ctx, cr.config.GoogleTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s?q=%s", cr.config.GoogleBooksURL, url.QueryEscape("isbn:"+isbn))
	req, err := http.NewRequestWithContext(gCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}
	resp, err := cr.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var result googleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}
	if len(result.Items) == 0 {
		return ""
	}
	links := result.Items[0].VolumeInfo.ImageLinks
	for _, size := range []string{"extraLarge", "large", "medium", "thumbnail"} {
		if link, ok := links[size]; ok && link != "" {
			return strings.Replace(link, "http://", "https://", 1)
		}
	}
	return ""
}

// rewriteHyphenatedISBN swaps a hyphenated isbn embedded in a url for
// its canonical hyphen-free form.
func rewriteHyphenatedISBN(rawURL, recordISBN, isbn string) string {
	if recordISBN != "" && strings.Contains(recordISBN, "-") && strings.Contains(rawURL, recordISBN) {
		return strings.ReplaceAll(rawURL, recordISBN, isbn)
	}
	return rawURL
}
