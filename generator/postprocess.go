package generator

import (
	"fmt"
	"strings"

	"devpost/model"
)

// Delimiter separates the header fields from the markdown body in model output.
const Delimiter = "---markdown---"

// UntitledLine replaces a missing title line.
const UntitledLine = "Title: Untitled"

// FormatError reports model output that does not contain exactly one Delimiter.
type FormatError struct {
	Delimiters int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unexpected response format: want exactly one %s, found %d", Delimiter, e.Delimiters)
}

// Parse splits generated text into header and markdown. It fails only with
// *FormatError; a missing title line becomes UntitledLine.
func Parse(text string) (Draft, error) {
	if n := strings.Count(text, Delimiter); n != 1 {
		return Draft{}, &FormatError{Delimiters: n}
	}
	header, body, _ := strings.Cut(text, Delimiter)

	titleLine := ExtractTitle(header)
	return Draft{
		TitleLine: titleLine,
		Title:     stripLabel(titleLine, "title:"),
		Tags:      ExtractTags(header),
		Markdown:  strings.TrimSpace(body),
		Raw:       text,
	}, nil
}

// ExtractTitle returns the first header line starting with "Title:" in any
// letter case, or UntitledLine.
func ExtractTitle(header string) string {
	if line, ok := findLabel(header, "title:"); ok {
		return line
	}
	return UntitledLine
}

// ExtractTags reads the "Tags:" line loosely: brackets, quotes and a leading
// '#' are dropped; nothing is validated.
func ExtractTags(header string) []string {
	line, ok := findLabel(header, "tags:")
	if !ok {
		return nil
	}
	list := strings.Trim(strings.TrimSpace(stripLabel(line, "tags:")), "[]")
	var tags []string
	for _, t := range model.SplitTags(list) {
		t = strings.Trim(t, `"'#`+"` ")
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func findLabel(header, label string) (string, bool) {
	for _, line := range strings.Split(strings.TrimSpace(header), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(line), label) {
			return line, true
		}
	}
	return "", false
}

func stripLabel(line, label string) string {
	if strings.HasPrefix(strings.ToLower(line), label) {
		return strings.TrimSpace(line[len(label):])
	}
	return strings.TrimSpace(line)
}
