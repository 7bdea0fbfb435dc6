package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrImpressionNotFound = errors.New("impression not found")
	ErrDuplicateISBN      = errors.New("book with this isbn already exists")
	ErrISBNNotFound       = errors.New("isbn not found")
	ErrInvalidStatus      = errors.New("invalid reading status")
	ErrEmptyContent       = errors.New("impression content cannot be empty")
)

type ContextKey string

const (
	BookIDPrefix       string = "b"
	ImpressionIDPrefix string = "i"
	HistoryIDPrefix    string = "h"
	RequestIDPrefix    string = "r"

	ContextRequestID     ContextKey = "request.id"
	ContextRequestNumber ContextKey = "request.number"
)

// NetworkError signals a transient network failure which persisted
// after the configured retry budget was exhausted.
type NetworkError struct {
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error after %d attempts: %v", e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CorruptedDataError signals that a backing data file exists but its
// content could not be parsed as JSON. This is fatal to the operation,
// no partial recovery is attempted.
type CorruptedDataError struct {
	Path string
	Err  error
}

func (e *CorruptedDataError) Error() string {
	return fmt.Sprintf("data file %q is corrupted and cannot be parsed: %v", e.Path, e.Err)
}

func (e *CorruptedDataError) Unwrap() error {
	return e.Err
}

// NormalizeISBN strips hyphens from an isbn so storage and duplicate
// comparisons are hyphen-insensitive.
func NormalizeISBN(isbn string) string {
	return strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
