package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"devpost/config"
	"devpost/generator"
	"devpost/logger"
	"devpost/model"
	"devpost/publisher"
)

// State of the interaction loop.
type State int

const (
	Idle State = iota
	Generated
	Published
	Exited
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generated:
		return "generated"
	case Published:
		return "published"
	case Exited:
		return "exited"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Repository is the part of the platform client the loop needs.
type Repository interface {
	FetchMine(ctx context.Context) ([]model.Article, error)
	Publish(ctx context.Context, post publisher.Post, published bool) (publisher.Result, error)
	Update(ctx context.Context, id int64, post publisher.Post, published bool) (publisher.Result, error)
}

// Options 控制摘要阶段。
type Options struct {
	TopN int
	Mode string
}

// Loop drives one run: fetch, summarize, generate, then the action menu.
type Loop struct {
	repo       Repository
	session    *generator.Session
	summarizer *generator.Summarizer
	in         *bufio.Reader
	out        io.Writer
	opts       Options
	log        logrus.FieldLogger

	state    State
	remoteID int64
}

func New(repo Repository, session *generator.Session, summarizer *generator.Summarizer, in io.Reader, out io.Writer, opts Options) *Loop {
	if opts.Mode == "" {
		opts.Mode = config.ModeModel
	}
	return &Loop{
		repo:       repo,
		session:    session,
		summarizer: summarizer,
		in:         bufio.NewReader(in),
		out:        out,
		opts:       opts,
		log:        logger.Log.WithField("component", "console"),
	}
}

func (l *Loop) State() State { return l.state }

// Run executes the whole pipeline. An account with no articles ends the run
// cleanly before any model call; a rejected API key is returned as an error.
func (l *Loop) Run(ctx context.Context) error {
	articles, err := l.repo.FetchMine(ctx)
	if err != nil {
		l.state = Exited
		return err
	}
	if len(articles) == 0 {
		fmt.Fprintln(l.out, "No articles found; nothing to summarize.")
		l.state = Exited
		return nil
	}

	summaries, err := l.summarize(ctx, generator.Rank(articles))
	if err != nil {
		l.state = Exited
		return err
	}
	if summaries == "" {
		fmt.Fprintln(l.out, "The model produced no summaries; check the generation backend.")
		l.state = Exited
		return nil
	}

	l.generate(ctx, func() (generator.Draft, error) {
		return l.session.Propose(ctx, summaries)
	})
	return l.Loop(ctx)
}

func (l *Loop) summarize(ctx context.Context, ranked []model.Article) (string, error) {
	if l.opts.Mode == config.ModeDigest || l.summarizer == nil {
		return generator.DigestTopN(ranked, l.opts.TopN), nil
	}
	return l.summarizer.SummarizeTopN(ctx, ranked, l.opts.TopN)
}

// Loop shows the menu until the user exits or input ends.
func (l *Loop) Loop(ctx context.Context) error {
	for l.state != Exited {
		if err := ctx.Err(); err != nil {
			l.state = Exited
			return err
		}
		l.printMenu()
		choice, ok := l.readLine("Enter 1, 2, 3, 4, or 5: ")
		if !ok {
			fmt.Fprintln(l.out, "\nInput closed, exiting.")
			l.state = Exited
			return nil
		}
		l.Dispatch(ctx, choice)
	}
	return nil
}

// Dispatch applies one menu choice. Unknown input changes nothing.
func (l *Loop) Dispatch(ctx context.Context, choice string) {
	switch strings.TrimSpace(choice) {
	case "1":
		l.upload(ctx, true)
	case "2":
		instruction, ok := l.readLine("Enter what you want the assistant to tweak: ")
		if !ok {
			l.state = Exited
			return
		}
		l.generate(ctx, func() (generator.Draft, error) {
			return l.session.Tweak(ctx, instruction)
		})
	case "3":
		topic, ok := l.readLine("Enter new topic and any guidance: ")
		if !ok {
			l.state = Exited
			return
		}
		if l.generate(ctx, func() (generator.Draft, error) {
			return l.session.Redo(ctx, topic)
		}) {
			// A new topic is a new article.
			l.remoteID = 0
		}
	case "4":
		l.upload(ctx, false)
	case "5":
		fmt.Fprintln(l.out, "Exiting... Goodbye!")
		l.state = Exited
	default:
		fmt.Fprintln(l.out, "No action taken.")
	}
}

func (l *Loop) generate(ctx context.Context, run func() (generator.Draft, error)) bool {
	draft, err := run()
	if err != nil {
		var fe *generator.FormatError
		if errors.As(err, &fe) {
			fmt.Fprintf(l.out, "The model did not follow the output format (%v).\nRaw output was saved for manual editing; try tweak or redo.\n", err)
			return false
		}
		fmt.Fprintf(l.out, "Generation failed: %v\n", err)
		return false
	}
	l.state = Generated

	fmt.Fprintln(l.out, "\nGenerated Post:")
	fmt.Fprintln(l.out, draft.TitleLine)
	if len(draft.Tags) > 0 {
		fmt.Fprintf(l.out, "Tags: %s\n", strings.Join(draft.Tags, ", "))
	}

	r := l.session.Review(ctx)
	l.printSection("Post Analysis:", r.Analysis)
	l.printSection("Fact Check:", r.FactCheck)
	l.printSection("Suggested Image Keywords:", r.ImageKeywords)
	return true
}

func (l *Loop) upload(ctx context.Context, published bool) {
	if !l.session.HasDraft {
		fmt.Fprintln(l.out, "No draft to upload yet; try tweak or redo first.")
		return
	}
	d := l.session.Draft
	post := publisher.Post{Title: d.Title, Markdown: d.Markdown, Tags: d.Tags}

	var (
		res publisher.Result
		err error
	)
	if l.remoteID != 0 {
		res, err = l.repo.Update(ctx, l.remoteID, post, published)
	} else {
		res, err = l.repo.Publish(ctx, post, published)
	}
	if err != nil {
		l.log.Errorf("upload: %v", err)
		fmt.Fprintf(l.out, "Failed to upload: %v\n", err)
		return
	}

	if res.ID != 0 {
		l.remoteID = res.ID
	}
	l.state = Published
	if published {
		fmt.Fprintln(l.out, "Article published to DEV.to!")
	} else {
		fmt.Fprintln(l.out, "Draft saved to DEV.to (only visible in your profile).")
	}
	if res.URL != "" {
		fmt.Fprintln(l.out, res.URL)
	}
}

func (l *Loop) printMenu() {
	fmt.Fprintln(l.out, "\nChoose an option:")
	fmt.Fprintln(l.out, "[1] Publish draft to DEV.to")
	fmt.Fprintln(l.out, "[2] Edit slightly (provide a prompt)")
	fmt.Fprintln(l.out, "[3] Redo completely (provide new topic)")
	fmt.Fprintln(l.out, "[4] Save to DEV.to as draft (only visible in your profile)")
	fmt.Fprintln(l.out, "[5] Exit")
}

func (l *Loop) printSection(heading, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(l.out, "\n%s\n%s\n", heading, strings.TrimSpace(body))
}

// readLine returns false once input is exhausted and nothing was typed.
func (l *Loop) readLine(prompt string) (string, bool) {
	fmt.Fprint(l.out, prompt)
	line, err := l.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
