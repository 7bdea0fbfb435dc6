package main

import (
	"strings"
	"unicode/utf8"
)

// CleanAuthorName turns a raw author string coming from a bibliographic
// record into a clean display string. Raw values often embed metadata
// like birth years or role codes separated by commas, e.g.
// "村上, 春樹, 1949-". The input is split on whitespace first to keep
// intentional groupings, then each chunk is split on commas and the
// segments which look like dates or years are dropped. At most the
// first two surviving segments of each chunk are kept.
func CleanAuthorName(raw string) string {
	if raw == "" {
		return ""
	}

	var cleaned []string
	for _, part := range strings.Fields(raw) {
		var kept []string
		for _, sub := range strings.Split(part, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			// Drop segments made of numbers, hyphens and slashes only.
			if isAllDigits(stripChars(sub, "-/")) {
				continue
			}
			// Drop short numeric segments, typically 4-digit birth years.
			if utf8.RuneCountInString(sub) <= 4 && isAllDigits(stripChars(sub, "-")) {
				continue
			}
			kept = append(kept, sub)
		}
		if len(kept) > 2 {
			kept = kept[:2]
		}
		cleaned = append(cleaned, kept...)
	}
	return strings.Join(cleaned, " ")
}

// stripChars removes every occurrence of the given characters.
func stripChars(s, chars string) string {
	for _, c := range chars {
		s = strings.ReplaceAll(s, string(c), "")
	}
	return s
}

// isAllDigits reports whether s is non empty and only made of ascii digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
