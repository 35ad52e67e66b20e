package generator

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"devpost/logger"
)

// Agent 负责把提示词发给对应角色的模型。
type Agent struct {
	llm    LLMClient
	models Models
	log    logrus.FieldLogger
}

func NewAgent(llm LLMClient, models Models) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if models.Reasoning == "" || models.Generation == "" {
		return nil, errors.New("reasoning and generation models are required")
	}
	if models.Validation == "" {
		models.Validation = models.Reasoning
	}
	if models.Image == "" {
		models.Image = models.Reasoning
	}
	return &Agent{llm: llm, models: models, log: logger.Log.WithField("component", "agent")}, nil
}

func (a *Agent) Models() Models { return a.models }

// Ask sends prompt to model. Backend failures are logged and come back as an
// empty string; callers treat "" as no usable text.
func (a *Agent) Ask(ctx context.Context, model, prompt string) string {
	a.log.Infof("Sending prompt to %s...", model)
	out, err := a.llm.Complete(ctx, model, prompt)
	if err != nil {
		a.log.Errorf("model request failed (%s): %v", model, err)
		return ""
	}
	if out == "" {
		a.log.Warnf("%s returned no text", model)
		return ""
	}
	a.log.Infof("Response received from %s.", model)
	return out
}

// Generate runs the draft prompt against the generation role.
func (a *Agent) Generate(ctx context.Context, prompt string) string {
	return a.Ask(ctx, a.models.Generation, prompt)
}
