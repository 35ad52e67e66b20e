package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"devpost/logger"
	"devpost/model"
	"devpost/storage"
)

const (
	defaultBaseURL = "https://dev.to/api"
	perPage        = 1000
)

// ErrUnauthorized means the platform rejected the API key. It is kept apart
// from "no articles" so a bad key does not look like an empty account.
var ErrUnauthorized = errors.New("platform rejected the api key")

// Config holds the platform credentials and the snapshot location.
type Config struct {
	BaseURL      string
	APIKey       string
	SnapshotPath string
}

// Post is the content sent when creating or updating a remote article.
type Post struct {
	Title    string
	Markdown string
	Tags     []string
}

// Result describes the remote article after a successful publish or update.
type Result struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Published bool   `json:"published"`
}

type articlePayload struct {
	Title        string   `json:"title"`
	Published    bool     `json:"published"`
	BodyMarkdown string   `json:"body_markdown"`
	Tags         []string `json:"tags,omitempty"`
}

type articleEnvelope struct {
	Article articlePayload `json:"article"`
}

// Publisher is the client for the blogging platform's article API.
type Publisher struct {
	cfg    Config
	client *http.Client
	store  *storage.Storage
	log    logrus.FieldLogger
}

// New creates a Publisher. The API key is checked here so nothing touches the
// network without one.
func New(cfg Config, client *http.Client, store *storage.Storage) (*Publisher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("config must include api key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		// No timeout: calls block until the platform answers.
		client = &http.Client{}
	}
	if store == nil {
		store = storage.New(".")
	}
	return &Publisher{
		cfg:    cfg,
		client: client,
		store:  store,
		log:    logger.Log.WithField("component", "publisher"),
	}, nil
}

// FetchMine retrieves every article owned by the caller and writes the raw
// objects to the snapshot file before decoding them. A non-success status on
// the first page yields an empty slice; on a later page the earlier pages are
// kept. 401/403 return ErrUnauthorized.
func (p *Publisher) FetchMine(ctx context.Context) ([]model.Article, error) {
	p.log.Info("Fetching your DEV.to articles...")

	var raw []json.RawMessage
	for page := 1; ; page++ {
		batch, err := p.fetchPage(ctx, page)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return nil, err
			}
			p.log.Errorf("fetch articles page %d: %v", page, err)
			if page == 1 {
				return []model.Article{}, nil
			}
			// Keep what the earlier pages returned.
			break
		}
		raw = append(raw, batch...)
		if len(batch) < perPage {
			break
		}
	}
	if raw == nil {
		raw = []json.RawMessage{}
	}

	if err := p.store.SaveJSON(p.cfg.SnapshotPath, raw); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	p.log.Infof("Snapshot saved to %s", p.store.Path(p.cfg.SnapshotPath))

	articles := make([]model.Article, 0, len(raw))
	for i, item := range raw {
		var a model.Article
		if err := json.Unmarshal(item, &a); err != nil {
			return nil, fmt.Errorf("decode article %d: %w", i, err)
		}
		articles = append(articles, a)
	}
	p.log.Infof("Retrieved %d articles.", len(articles))
	return articles, nil
}

func (p *Publisher) fetchPage(ctx context.Context, page int) ([]json.RawMessage, error) {
	req, err := p.newRequest(ctx, http.MethodGet, "/articles/me", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	req.URL.RawQuery = q.Encode()

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %d %s", ErrUnauthorized, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var batch []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// Publish creates a new remote article. published=false keeps it as a draft
// visible only on the caller's profile.
func (p *Publisher) Publish(ctx context.Context, post Post, published bool) (Result, error) {
	p.log.Info("Uploading article to DEV.to...")
	return p.send(ctx, http.MethodPost, "/articles", http.StatusCreated, post, published)
}

// Update replaces the content of an article created earlier in the run.
func (p *Publisher) Update(ctx context.Context, id int64, post Post, published bool) (Result, error) {
	p.log.Infof("Updating DEV.to article %d...", id)
	return p.send(ctx, http.MethodPut, "/articles/"+strconv.FormatInt(id, 10), http.StatusOK, post, published)
}

func (p *Publisher) send(ctx context.Context, method, path string, want int, post Post, published bool) (Result, error) {
	if post.Title == "" || post.Markdown == "" {
		return Result{}, errors.New("title and markdown are required")
	}
	body, err := json.Marshal(articleEnvelope{Article: articlePayload{
		Title:        post.Title,
		Published:    published,
		BodyMarkdown: post.Markdown,
		Tags:         NormalizeTags(post.Tags),
	}})
	if err != nil {
		return Result{}, err
	}

	req, err := p.newRequest(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		return Result{}, fmt.Errorf("failed to upload: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		// The upload succeeded; an odd body only loses the id.
		p.log.Warnf("decode upload response: %v", err)
	}
	res.Published = published
	return res, nil
}

func (p *Publisher) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", p.cfg.APIKey)
	req.Header.Set("Accept", "application/vnd.forem.api-v1+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// maxTags is the platform's per-article tag limit.
const maxTags = 4

// NormalizeTags makes free-form model tags acceptable to the platform:
// lowercase alphanumerics only, no empties or duplicates, at most maxTags.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tags {
		var b strings.Builder
		for _, r := range strings.ToLower(t) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		tag := b.String()
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
