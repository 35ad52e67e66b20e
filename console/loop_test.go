package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"devpost/config"
	"devpost/generator"
	"devpost/model"
	"devpost/publisher"
	"devpost/storage"
)

type upload struct {
	ID        int64
	Post      publisher.Post
	Published bool
}

type fakeRepo struct {
	articles []model.Article
	err      error
	nextID   int64
	created  []upload
	updated  []upload
}

func (f *fakeRepo) FetchMine(context.Context) ([]model.Article, error) {
	return f.articles, f.err
}

func (f *fakeRepo) Publish(_ context.Context, post publisher.Post, published bool) (publisher.Result, error) {
	f.nextID++
	f.created = append(f.created, upload{ID: f.nextID, Post: post, Published: published})
	return publisher.Result{ID: f.nextID, Published: published}, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, post publisher.Post, published bool) (publisher.Result, error) {
	f.updated = append(f.updated, upload{ID: id, Post: post, Published: published})
	return publisher.Result{ID: id, Published: published}, nil
}

// recordingLLM answers draft prompts with a valid post and everything else
// with a fixed line, keeping every prompt it saw.
type recordingLLM struct {
	draftReplies  []string
	prompts       []string
	silentSummary bool
}

func (r *recordingLLM) Complete(_ context.Context, model, prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if strings.Contains(prompt, "Title: <title>") {
		if len(r.draftReplies) > 0 {
			out := r.draftReplies[0]
			r.draftReplies = r.draftReplies[1:]
			return out, nil
		}
		return "Title: Fresh Post\nTags: [go]\n---markdown---\n# Fresh\n", nil
	}
	if r.silentSummary {
		return "", errors.New("model unavailable")
	}
	return "summary from " + model, nil
}

type harness struct {
	loop  *Loop
	repo  *fakeRepo
	llm   *recordingLLM
	store *storage.Storage
	out   *bytes.Buffer
}

func newHarness(t *testing.T, repo *fakeRepo, llm *recordingLLM, input string, mode string) *harness {
	t.Helper()
	agent, err := generator.NewAgent(llm, generator.Models{Reasoning: "llama3.1", Generation: "mistral"})
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir())
	session := generator.NewSession(agent, store,
		generator.Paths{Draft: "draft_post.md", Fallback: "draft_fallback.md"},
		generator.ReviewOptions{FactCheck: true})
	out := &bytes.Buffer{}
	loop := New(repo, session, generator.NewSummarizer(agent, 2000, 0), strings.NewReader(input), out,
		Options{TopN: 5, Mode: mode})
	return &harness{loop: loop, repo: repo, llm: llm, store: store, out: out}
}

func sampleArticles() []model.Article {
	return []model.Article{
		{Title: "Low", PublicReactionsCount: 1, Description: "low post"},
		{Title: "High", PublicReactionsCount: 30, Description: "high post"},
	}
}

func TestRunEmptyArticlesHaltsEarly(t *testing.T) {
	h := newHarness(t, &fakeRepo{}, &recordingLLM{}, "1\n", config.ModeModel)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, Exited, h.loop.State())
	assert.Equal(t, 0, len(h.llm.prompts))
	assert.Equal(t, false, h.store.HasFile("draft_post.md"))
	assert.Equal(t, true, strings.Contains(h.out.String(), "nothing to summarize"))
}

func TestRunEmptySummariesHaltsBeforeDraft(t *testing.T) {
	repo := &fakeRepo{articles: sampleArticles()}
	h := newHarness(t, repo, &recordingLLM{silentSummary: true}, "1\n", config.ModeModel)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, Exited, h.loop.State())
	// one attempt per article, no draft prompt
	assert.Equal(t, 2, len(h.llm.prompts))
	assert.Equal(t, false, h.store.HasFile("draft_post.md"))
	assert.Equal(t, false, h.store.HasFile("draft_fallback.md"))
	assert.Equal(t, 0, len(repo.created))
	assert.Equal(t, true, strings.Contains(h.out.String(), "no summaries"))
}

func TestRunUnauthorizedIsFatal(t *testing.T) {
	repo := &fakeRepo{err: publisher.ErrUnauthorized}
	h := newHarness(t, repo, &recordingLLM{}, "", config.ModeModel)

	err := h.loop.Run(context.Background())

	assert.Equal(t, true, errors.Is(err, publisher.ErrUnauthorized))
	assert.Equal(t, 0, len(h.llm.prompts))
}

func TestRunSaveThenPublishUpdatesSameArticle(t *testing.T) {
	repo := &fakeRepo{articles: sampleArticles()}
	h := newHarness(t, repo, &recordingLLM{}, "4\n1\n5\n", config.ModeModel)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, Exited, h.loop.State())

	// two summaries, one draft, one fact check
	assert.Equal(t, 4, len(h.llm.prompts))
	assert.Equal(t, true, strings.Contains(h.llm.prompts[0], "Title: High"))
	assert.Equal(t, true, strings.Contains(h.llm.prompts[2], "summary from llama3.1\n\nsummary from llama3.1"))

	assert.Equal(t, 1, len(repo.created))
	assert.Equal(t, false, repo.created[0].Published)
	assert.Equal(t, "Fresh Post", repo.created[0].Post.Title)
	assert.Equal(t, "# Fresh", repo.created[0].Post.Markdown)
	assert.Equal(t, []string{"go"}, repo.created[0].Post.Tags)
	assert.Equal(t, 1, len(repo.updated))
	assert.Equal(t, int64(1), repo.updated[0].ID)
	assert.Equal(t, true, repo.updated[0].Published)

	md, err := h.store.ReadFile("draft_post.md")
	assert.Equal(t, nil, err)
	assert.Equal(t, "# Fresh", string(md))
	assert.Equal(t, true, strings.Contains(h.out.String(), "Title: Fresh Post"))
	assert.Equal(t, true, strings.Contains(h.out.String(), "Fact Check:"))
}

func TestTweakPromptContainsSummariesAndInstruction(t *testing.T) {
	repo := &fakeRepo{articles: sampleArticles()}
	h := newHarness(t, repo, &recordingLLM{}, "2\nmake it shorter\n5\n", config.ModeDigest)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	var tweak string
	for _, p := range h.llm.prompts {
		if strings.Contains(p, "User wants this edited") {
			tweak = p
		}
	}
	assert.Equal(t, true, strings.Contains(tweak, "make it shorter"))
	assert.Equal(t, true, strings.Contains(tweak, "Title: High\nTags: \nReactions: 30\n--\nhigh post"))
}

func TestInvalidChoiceIsNoOp(t *testing.T) {
	repo := &fakeRepo{articles: sampleArticles()}
	h := newHarness(t, repo, &recordingLLM{}, "9\n\nabc\n", config.ModeDigest)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, strings.Count(h.out.String(), "No action taken."))
	assert.Equal(t, 0, len(repo.created))
	assert.Equal(t, Exited, h.loop.State())
}

func TestDispatchInvalidKeepsState(t *testing.T) {
	h := newHarness(t, &fakeRepo{}, &recordingLLM{}, "", config.ModeDigest)

	h.loop.Dispatch(context.Background(), "7")

	assert.Equal(t, Idle, h.loop.State())
}

func TestFormatErrorThenRedo(t *testing.T) {
	repo := &fakeRepo{articles: sampleArticles()}
	llm := &recordingLLM{draftReplies: []string{"I refuse to follow formats."}}
	h := newHarness(t, repo, llm, "1\n3\nGo fuzzing\n4\n5\n", config.ModeDigest)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	out := h.out.String()
	assert.Equal(t, true, strings.Contains(out, "did not follow the output format"))
	assert.Equal(t, true, strings.Contains(out, "No draft to upload yet"))

	fallback, err := h.store.ReadFile("draft_fallback.md")
	assert.Equal(t, nil, err)
	assert.Equal(t, "I refuse to follow formats.", string(fallback))

	assert.Equal(t, 1, len(repo.created))
	assert.Equal(t, false, repo.created[0].Published)
}

func TestRedoStartsNewRemoteArticle(t *testing.T) {
	repo := &fakeRepo{articles: sampleArticles()}
	h := newHarness(t, repo, &recordingLLM{}, "4\n3\nnew topic\n4\n5\n", config.ModeDigest)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(repo.created))
	assert.Equal(t, 0, len(repo.updated))
}

func TestInputClosedExits(t *testing.T) {
	repo := &fakeRepo{articles: sampleArticles()}
	h := newHarness(t, repo, &recordingLLM{}, "", config.ModeDigest)

	err := h.loop.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, Exited, h.loop.State())
	assert.Equal(t, Generated.String(), "generated")
}
