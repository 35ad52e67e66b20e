package generator

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestParse(t *testing.T) {
	d, err := Parse("Title: Foo\nTags: [a,b]\n---markdown---\n# Hello\n")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Title: Foo", d.TitleLine)
	assert.Equal(t, "Foo", d.Title)
	assert.Equal(t, []string{"a", "b"}, d.Tags)
	assert.Equal(t, "# Hello", d.Markdown)
}

func TestParseFormatError(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "no delimiter", input: "Title: Foo\n# Hello", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "two delimiters", input: "Title: a\n---markdown---\nx\n---markdown---\ny", want: 2},
		{name: "adjacent delimiters", input: "---markdown------markdown---", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var fe *FormatError
			assert.Equal(t, true, errors.As(err, &fe))
			assert.Equal(t, tt.want, fe.Delimiters)
		})
	}
}

func TestParseTrimsMarkdown(t *testing.T) {
	d, err := Parse("Title: T\n---markdown---\n\n\n  ## Body\n\ntext  \n\n")

	assert.Equal(t, nil, err)
	assert.Equal(t, "## Body\n\ntext", d.Markdown)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "exact", header: "Title: Example Post\nTags: [x]", want: "Title: Example Post"},
		{name: "upper label", header: "TITLE: Example Post", want: "TITLE: Example Post"},
		{name: "lower label after preamble", header: "Sure! Here it is.\ntitle: Example Post\n", want: "title: Example Post"},
		{name: "missing", header: "Tags: [x]\n", want: UntitledLine},
		{name: "empty", header: "", want: UntitledLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.header))
		})
	}
}

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{name: "bracketed", header: "Tags: [go, testing]", want: []string{"go", "testing"}},
		{name: "quoted", header: `tags: ["go", "#cli"]`, want: []string{"go", "cli"}},
		{name: "bare", header: "Tags: go, webdev", want: []string{"go", "webdev"}},
		{name: "missing", header: "Title: x", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.header))
		})
	}
}
