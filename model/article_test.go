package model

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestArticleTagsDecoding(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{
			name: "array tags",
			json: `{"title":"a","tags":["go","cli"]}`,
			want: []string{"go", "cli"},
		},
		{
			name: "string tag_list",
			json: `{"title":"a","tag_list":"go, cli,  "}`,
			want: []string{"go", "cli"},
		},
		{
			name: "array tag_list with string tags",
			json: `{"title":"a","tags":"","tag_list":["rust"]}`,
			want: []string{"rust"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Article
			err := json.Unmarshal([]byte(tt.json), &a)
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.want, a.AllTags())
		})
	}
}
