package publisher

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
)

// PublishParams describes a saved draft file to upload.
type PublishParams struct {
	MarkdownPath string
	Title        string
	Tags         []string
	Published    bool
}

var headingRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// PublishFile uploads a markdown file saved by an earlier run. Without an
// explicit title the first level-one heading is used.
func (p *Publisher) PublishFile(ctx context.Context, params PublishParams) (Result, error) {
	if params.MarkdownPath == "" {
		return Result{}, errors.New("markdown path is required")
	}
	md, err := os.ReadFile(params.MarkdownPath)
	if err != nil {
		return Result{}, err
	}

	title := params.Title
	if title == "" {
		title = headingTitle(string(md))
	}
	if title == "" {
		return Result{}, errors.New("no title given and markdown has no level-one heading")
	}
	p.log.Infof("publishing title=%q md=%s published=%t", title, params.MarkdownPath, params.Published)

	return p.Publish(ctx, Post{
		Title:    title,
		Markdown: strings.TrimSpace(string(md)),
		Tags:     params.Tags,
	}, params.Published)
}

func headingTitle(md string) string {
	m := headingRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
