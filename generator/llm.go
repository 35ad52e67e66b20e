package generator

import "context"

// LLMClient 抽象大模型后端，便于替换/Mock。
// Complete sends one prompt to the named model and returns the generated text.
type LLMClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	APIKey   string
	BaseURL  string
}
