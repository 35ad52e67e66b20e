package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v2"

	"devpost/config"
	"devpost/console"
	"devpost/generator"
	"devpost/logger"
	"devpost/publisher"
	"devpost/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:  "devpost",
		Usage: "generate a new DEV.to post from your best performing articles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to config.yaml"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file holding the API key"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logs"},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "fetch, summarize, generate and open the action menu",
				Flags:  runFlags(),
				Action: runAction,
			},
			{
				Name:   "fetch",
				Usage:  "fetch your articles, save the snapshot and print them ranked",
				Action: fetchAction,
			},
			{
				Name:  "parse",
				Usage: "re-parse a manually fixed model output into the draft file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "model output to parse (default: the fallback file)"},
				},
				Action: parseAction,
			},
			{
				Name:  "publish",
				Usage: "upload a saved markdown draft",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "md", Usage: "path to markdown file (default: the draft file)"},
					&cli.StringFlag{Name: "title", Usage: "article title (default: first # heading)"},
					&cli.StringFlag{Name: "tags", Usage: "comma separated tags"},
					&cli.BoolFlag{Name: "public", Usage: "publish instead of saving as a profile draft"},
				},
				Action: publishAction,
			},
		},
		Action: runAction,
	}
	app.Flags = append(app.Flags, runFlags()...)

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "top-n", Usage: "number of top articles to summarize (overrides config)"},
		&cli.StringFlag{Name: "backend", Usage: "ollama, openai or mock (overrides config)"},
		&cli.StringFlag{Name: "mode", Usage: "model or digest summaries (overrides config)"},
		&cli.BoolFlag{Name: "dry-run", Usage: "use the offline mock model"},
	}
}

// setup loads config, applies flag overrides and initialises logging.
func setup(c *cli.Context) (config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if n := c.Int("top-n"); n > 0 {
		cfg.Summarize.TopN = n
	}
	if b := c.String("backend"); b != "" {
		cfg.LLM.Provider = b
	}
	if m := c.String("mode"); m != "" {
		cfg.Summarize.Mode = m
	}
	if c.Bool("dry-run") {
		cfg.LLM.Provider = "mock"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	level := cfg.Log.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	if err := logger.InitLogger(level, cfg.Log.File); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newPublisher(c *cli.Context, cfg *config.Config, store *storage.Storage) (*publisher.Publisher, error) {
	if err := cfg.LoadEnv(c.String("env-file")); err != nil {
		return nil, err
	}
	return publisher.New(publisher.Config{
		BaseURL:      cfg.DevTo.BaseURL,
		APIKey:       cfg.APIKey,
		SnapshotPath: cfg.Output.Snapshot,
	}, nil, store)
}

func runAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	store := storage.New(cfg.Output.Dir)
	pub, err := newPublisher(c, &cfg, store)
	if err != nil {
		return err
	}
	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	agent, err := generator.NewAgent(llm, generator.Models{
		Reasoning:  cfg.Models.Reasoning,
		Generation: cfg.Models.Generation,
		Validation: cfg.Models.Validation,
		Image:      cfg.Models.Image,
	})
	if err != nil {
		return err
	}

	session := generator.NewSession(agent, store, generator.Paths{
		Draft:    cfg.Output.Draft,
		Fallback: cfg.Output.Fallback,
		Preview:  cfg.Output.Preview,
	}, generator.ReviewOptions{
		Analysis:  cfg.Review.Analysis,
		FactCheck: cfg.Review.FactCheck,
		Images:    cfg.Review.Images,
	})
	summarizer := generator.NewSummarizer(agent, cfg.Summarize.BodyLimit, cfg.Summarize.Pacing)

	loop := console.New(pub, session, summarizer, os.Stdin, os.Stdout, console.Options{
		TopN: cfg.Summarize.TopN,
		Mode: cfg.Summarize.Mode,
	})
	return loop.Run(c.Context)
}

func fetchAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	pub, err := newPublisher(c, &cfg, storage.New(cfg.Output.Dir))
	if err != nil {
		return err
	}
	articles, err := pub.FetchMine(c.Context)
	if err != nil {
		return err
	}
	for i, a := range generator.Rank(articles) {
		fmt.Printf("%3d. [%d] %s (%s)\n", i+1, a.PublicReactionsCount, a.Title, strings.Join(a.AllTags(), ", "))
	}
	return nil
}

func parseAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	store := storage.New(cfg.Output.Dir)
	path := c.String("file")
	if path == "" {
		path = cfg.Output.Fallback
	}
	raw, err := store.ReadFile(path)
	if err != nil {
		return err
	}

	draft, err := generator.Parse(string(raw))
	if err != nil {
		var fe *generator.FormatError
		if errors.As(err, &fe) {
			return fmt.Errorf("%s: %w", store.Path(path), err)
		}
		return err
	}
	if err := store.SaveFile(cfg.Output.Draft, []byte(draft.Markdown)); err != nil {
		return err
	}
	logger.Log.Infof("Draft saved as %s", store.Path(cfg.Output.Draft))
	fmt.Println(draft.TitleLine)
	return nil
}

func publishAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	store := storage.New(cfg.Output.Dir)
	pub, err := newPublisher(c, &cfg, store)
	if err != nil {
		return err
	}
	md := c.String("md")
	if md == "" {
		md = store.Path(cfg.Output.Draft)
	}
	var tags []string
	if t := c.String("tags"); t != "" {
		tags = strings.Split(t, ",")
		for i := range tags {
			tags[i] = strings.TrimSpace(tags[i])
		}
	}

	res, err := pub.PublishFile(c.Context, publisher.PublishParams{
		MarkdownPath: md,
		Title:        c.String("title"),
		Tags:         tags,
		Published:    c.Bool("public"),
	})
	if err != nil {
		return err
	}
	logger.Log.Infof("publish done id=%d", res.ID)
	fmt.Println(res.URL)
	return nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "ollama", "":
		return generator.NewOllamaLLMFromConfig(settings)
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
