package model

import (
	"encoding/json"
	"strings"
)

// Article is one post owned by the authenticated user, as returned by the
// platform. It is read-only for the duration of a run.
type Article struct {
	ID                   int64   `json:"id"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	BodyMarkdown         string  `json:"body_markdown"`
	URL                  string  `json:"url"`
	Published            bool    `json:"published"`
	PublicReactionsCount int     `json:"public_reactions_count"`
	Tags                 TagList `json:"tags"`
	TagList              TagList `json:"tag_list"`
}

// AllTags returns tags from whichever field the endpoint populated.
func (a Article) AllTags() []string {
	if len(a.Tags) > 0 {
		return a.Tags
	}
	return a.TagList
}

// TagList accepts both a JSON array and a comma separated string; the
// platform uses either depending on the endpoint.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = SplitTags(s)
	return nil
}

// SplitTags splits a loose "a, b, c" list, dropping empty entries.
func SplitTags(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
