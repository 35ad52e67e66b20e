package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// Draft prompts get a reply in the delimited format; anything else gets a
// short canned answer.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, model, prompt string) (string, error) {
	if !strings.Contains(prompt, titlePlaceholder) {
		return fmt.Sprintf("[%s] offline answer for a %d-character prompt.", model, len(prompt)), nil
	}
	var sb strings.Builder
	sb.WriteString("Title: Offline Draft Example\n")
	sb.WriteString("Tags: [go, cli, llm]\n")
	sb.WriteString(Delimiter + "\n")
	sb.WriteString("# Offline Draft Example\n\n")
	sb.WriteString("This draft was produced without calling a model.\n\n")
	sb.WriteString("## Prompt\n\n")
	sb.WriteString(fmt.Sprintf("The %s prompt was %d characters long.\n", model, len(prompt)))
	return sb.String(), nil
}
