package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"devpost/model"
)

// Rank orders articles by public reactions, highest first. Equal counts keep
// their input order. The input slice is not modified.
func Rank(articles []model.Article) []model.Article {
	ranked := make([]model.Article, len(articles))
	copy(ranked, articles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PublicReactionsCount > ranked[j].PublicReactionsCount
	})
	return ranked
}

// Summarizer 逐篇调用推理模型生成摘要。
type Summarizer struct {
	agent     *Agent
	bodyLimit int
	limiter   *rate.Limiter
}

// NewSummarizer builds a Summarizer. pacing is the minimum gap between
// consecutive model calls; zero disables it.
func NewSummarizer(agent *Agent, bodyLimit int, pacing time.Duration) *Summarizer {
	limit := rate.Inf
	if pacing > 0 {
		limit = rate.Every(pacing)
	}
	return &Summarizer{
		agent:     agent,
		bodyLimit: bodyLimit,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// SummarizeTopN summarizes the first n ranked articles one at a time, in
// order, and joins the results with a blank line. Articles the model returned
// nothing for are reported and left out.
func (s *Summarizer) SummarizeTopN(ctx context.Context, ranked []model.Article, n int) (string, error) {
	n = clampN(n, len(ranked))
	s.agent.log.Infof("Summarizing top %d articles one by one...", n)

	summaries := make([]string, 0, n)
	for _, a := range ranked[:n] {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
		out := strings.TrimSpace(s.agent.Ask(ctx, s.agent.models.Reasoning, BuildSummaryPrompt(a, s.bodyLimit)))
		if out == "" {
			s.agent.log.Warnf("no summary for %q", a.Title)
			continue
		}
		summaries = append(summaries, out)
	}
	return strings.Join(summaries, "\n\n"), nil
}

// DigestTopN is the model-free variant: one block per article built from its
// metadata, joined with a blank line.
func DigestTopN(ranked []model.Article, n int) string {
	n = clampN(n, len(ranked))
	blocks := make([]string, 0, n)
	for _, a := range ranked[:n] {
		title := a.Title
		if title == "" {
			title = "No Title"
		}
		blocks = append(blocks, fmt.Sprintf("Title: %s\nTags: %s\nReactions: %d\n--\n%s",
			title, strings.Join(a.AllTags(), ", "), a.PublicReactionsCount, a.Description))
	}
	return strings.Join(blocks, "\n\n")
}

func clampN(n, total int) int {
	if n < 0 {
		return 0
	}
	if n > total {
		return total
	}
	return n
}
