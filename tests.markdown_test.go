package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConvertMarkdownToHTML ensures gfm markdown renders to html.
func TestConvertMarkdownToHTML(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ConvertMarkdownToHTML(""))
	})

	t.Run("heading and emphasis", func(t *testing.T) {
		html := ConvertMarkdownToHTML("# 感想\n\nとても**面白い**本でした。")
		assert.Contains(t, html, "<h1")
		assert.Contains(t, html, "感想")
		assert.Contains(t, html, "<strong>面白い</strong>")
	})

	t.Run("gfm strikethrough", func(t *testing.T) {
		html := ConvertMarkdownToHTML("~~つまらない~~ 面白い")
		assert.Contains(t, html, "<del>つまらない</del>")
	})

	t.Run("list", func(t *testing.T) {
		html := ConvertMarkdownToHTML("- one\n- two\n")
		assert.Contains(t, html, "<ul>")
		assert.Contains(t, html, "<li>one</li>")
	})
}

// TestWrapInHTMLDocument ensures the standalone document wrapper embeds
// the content and the title.
func TestWrapInHTMLDocument(t *testing.T) {
	doc := WrapInHTMLDocument("<p>本文</p>", "ノルウェイの森")
	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, "<title>ノルウェイの森</title>")
	assert.Contains(t, doc, "<p>本文</p>")
}
