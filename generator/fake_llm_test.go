package generator

import (
	"context"
	"errors"
)

type call struct {
	Model  string
	Prompt string
}

// scriptedLLM replays replies in order and records every call.
type scriptedLLM struct {
	replies []string
	fail    bool
	calls   []call
}

func (s *scriptedLLM) Complete(_ context.Context, model, prompt string) (string, error) {
	s.calls = append(s.calls, call{Model: model, Prompt: prompt})
	if s.fail {
		return "", errors.New("backend down")
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	out := s.replies[0]
	s.replies = s.replies[1:]
	return out, nil
}

var testModels = Models{
	Reasoning:  "llama3.1",
	Generation: "mistral",
	Validation: "phi3",
	Image:      "llava",
}

func newTestAgent(llm LLMClient) *Agent {
	a, err := NewAgent(llm, testModels)
	if err != nil {
		panic(err)
	}
	return a
}
