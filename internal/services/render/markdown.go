// File: internal/services/render/markdown.go
package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// The assistant is instructed to answer in markdown, so every displayed
// message goes through this converter.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML renders markdown to HTML. On render failure it falls back to
// the escaped plain text so a message is never lost from the page.
func ToHTML(text string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return buf.String()
}
