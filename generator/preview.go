package generator

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var previewMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderPreview turns a draft into a standalone HTML page for a quick look in
// the browser before publishing.
func RenderPreview(d Draft) (string, error) {
	var body bytes.Buffer
	if err := previewMarkdown.Convert([]byte(d.Markdown), &body); err != nil {
		return "", err
	}
	title := html.EscapeString(d.Title)
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n<h1>%s</h1>\n%s</body>\n</html>\n",
		title, title, body.String()), nil
}
