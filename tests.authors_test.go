package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCleanAuthorName ensures raw bibliographic author strings are
// reduced to displayable names.
func TestCleanAuthorName(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "plain name untouched",
			raw:      "村上春樹",
			expected: "村上春樹",
		},
		{
			name:     "comma separated name with birth year",
			raw:      "村上, 春樹, 1949-",
			expected: "村上 春樹",
		},
		{
			name:     "single chunk with embedded metadata",
			raw:      "村上,春樹,1949-",
			expected: "村上 春樹",
		},
		{
			name:     "year range dropped",
			raw:      "夏目, 漱石, 1867-1916",
			expected: "夏目 漱石",
		},
		{
			name:     "role date with slash dropped",
			raw:      "著者 1990/01",
			expected: "著者",
		},
		{
			name:     "at most two segments per chunk",
			raw:      "one,two,three,four",
			expected: "one two",
		},
		{
			name:     "western name kept as is",
			raw:      "Jerome Amon",
			expected: "Jerome Amon",
		},
		{
			name:     "stray commas and spaces",
			raw:      " , 春樹 , ",
			expected: "春樹",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanAuthorName(tc.raw))
		})
	}
}

// TestNormalizeISBN ensures hyphens and spaces are stripped.
func TestNormalizeISBN(t *testing.T) {
	assert.Equal(t, "9784065208087", NormalizeISBN("978-4-06-520808-7"))
	assert.Equal(t, "9784065208087", NormalizeISBN(" 9784065208087 "))
	assert.Equal(t, "", NormalizeISBN("  "))
}
