package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devpost/storage"
)

// Paths names the artifacts a Session writes; Preview may be empty.
type Paths struct {
	Draft    string
	Fallback string
	Preview  string
}

// ReviewOptions 控制生成后的辅助检查。
type ReviewOptions struct {
	Analysis  bool
	FactCheck bool
	Images    bool
}

// Session 持有一次运行的摘要、当前稿件和生成历史。
type Session struct {
	Summaries string
	Draft     Draft
	HasDraft  bool
	History   []Turn

	agent   *Agent
	store   *storage.Storage
	paths   Paths
	reviews ReviewOptions
}

func NewSession(agent *Agent, store *storage.Storage, paths Paths, reviews ReviewOptions) *Session {
	return &Session{
		agent:   agent,
		store:   store,
		paths:   paths,
		reviews: reviews,
	}
}

// Propose 根据摘要生成首稿。
func (s *Session) Propose(ctx context.Context, summaries string) (Draft, error) {
	s.Summaries = summaries
	raw := s.agent.Generate(ctx, BuildDraftPrompt(summaries))
	return s.accept(TurnInitial, "", raw)
}

// Tweak regenerates from the summaries with the user's instruction appended.
func (s *Session) Tweak(ctx context.Context, instruction string) (Draft, error) {
	raw := s.agent.Generate(ctx, BuildTweakPrompt(s.Summaries, instruction))
	return s.accept(TurnTweak, instruction, raw)
}

// Redo ignores the summaries and writes a fresh post on topic.
func (s *Session) Redo(ctx context.Context, topic string) (Draft, error) {
	raw := s.agent.Generate(ctx, BuildRedoPrompt(topic))
	return s.accept(TurnRedo, topic, raw)
}

// Review runs the enabled advisory passes over the current draft's raw text.
func (s *Session) Review(ctx context.Context) Review {
	var r Review
	if !s.HasDraft {
		return r
	}
	post := s.Draft.Raw
	m := s.agent.Models()
	if s.reviews.Analysis {
		r.Analysis = s.agent.Ask(ctx, m.Reasoning, BuildAnalysisPrompt(post, s.Summaries))
	}
	if s.reviews.FactCheck {
		r.FactCheck = s.agent.Ask(ctx, m.Validation, BuildFactCheckPrompt(post))
	}
	if s.reviews.Images {
		r.ImageKeywords = s.agent.Ask(ctx, m.Image, BuildImagePrompt(post))
	}
	return r
}

// accept parses raw output. On a format violation the raw text goes to the
// fallback file and the previous draft stays current.
func (s *Session) accept(kind, input, raw string) (Draft, error) {
	log := s.agent.log
	log.Info("Parsing response from generator model...")
	if raw == "" {
		log.Warn("generator returned no usable text")
	}

	turn := Turn{Kind: kind, Input: input, CreatedAt: time.Now()}
	draft, err := Parse(raw)
	if err != nil {
		turn.Err = err
		s.History = append(s.History, turn)

		var fe *FormatError
		if !errors.As(err, &fe) {
			return Draft{}, err
		}
		log.Warn("Model response format unexpected.")
		if werr := s.store.SaveFile(s.paths.Fallback, []byte(raw)); werr != nil {
			return Draft{}, fmt.Errorf("%w (fallback not saved: %v)", err, werr)
		}
		log.Warnf("Full output saved to %s for manual editing.", s.store.Path(s.paths.Fallback))
		return Draft{}, err
	}

	if draft.TitleLine == UntitledLine {
		log.Warn("Could not extract title line from response header.")
	}
	if draft.Markdown == "" {
		log.Warn("Draft body is empty.")
	}
	if err := s.store.SaveFile(s.paths.Draft, []byte(draft.Markdown)); err != nil {
		return Draft{}, err
	}
	log.Infof("Draft saved as %s", s.store.Path(s.paths.Draft))

	if s.paths.Preview != "" {
		page, err := RenderPreview(draft)
		if err != nil {
			log.Warnf("render preview: %v", err)
		} else if err := s.store.SaveFile(s.paths.Preview, []byte(page)); err != nil {
			log.Warnf("save preview: %v", err)
		}
	}

	s.Draft = draft
	s.HasDraft = true
	turn.Draft = draft
	s.History = append(s.History, turn)
	return draft, nil
}
