package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	DevTo     DevToConfig     `yaml:"devto"`
	LLM       LLMConfig       `yaml:"llm"`
	Models    ModelRoles      `yaml:"models"`
	Summarize SummarizeConfig `yaml:"summarize"`
	Review    ReviewConfig    `yaml:"review"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`

	// APIKey is resolved from the environment, never from the file.
	APIKey string `yaml:"-"`
}

// DevToConfig 博客平台相关配置
type DevToConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// LLMConfig 模型后端配置
type LLMConfig struct {
	Provider string `yaml:"provider"` // ollama | openai | mock
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

// ModelRoles assigns a model name to each step of the pipeline. Roles are
// independent; the same model may serve several of them.
type ModelRoles struct {
	Reasoning  string `yaml:"reasoning"`
	Generation string `yaml:"generation"`
	Validation string `yaml:"validation"`
	Image      string `yaml:"image"`
}

// SummarizeConfig 摘要阶段配置
type SummarizeConfig struct {
	Mode      string        `yaml:"mode"` // model | digest
	TopN      int           `yaml:"top_n"`
	BodyLimit int           `yaml:"body_limit"`
	Pacing    time.Duration `yaml:"pacing"`
}

// ReviewConfig toggles the advisory passes run after each generated draft.
type ReviewConfig struct {
	Analysis  bool `yaml:"analysis"`
	FactCheck bool `yaml:"fact_check"`
	Images    bool `yaml:"images"`
}

// OutputConfig 本地产物路径
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Snapshot string `yaml:"snapshot"`
	Draft    string `yaml:"draft"`
	Fallback string `yaml:"fallback"`
	Preview  string `yaml:"preview"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

const (
	ModeModel  = "model"
	ModeDigest = "digest"
)

// ErrMissingAPIKey is returned when the platform key is not present in the environment.
var ErrMissingAPIKey = errors.New("platform api key missing")

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DevTo: DevToConfig{
			BaseURL:   "https://dev.to/api",
			APIKeyEnv: "DEV_API_KEY",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			BaseURL:  "http://localhost:11434",
		},
		Models: ModelRoles{
			Reasoning:  "llama3.1",
			Generation: "mistral",
			Validation: "llama3.1",
			Image:      "llama3.1",
		},
		Summarize: SummarizeConfig{
			Mode:      ModeModel,
			TopN:      5,
			BodyLimit: 2000,
			Pacing:    time.Second,
		},
		Review: ReviewConfig{
			Analysis:  true,
			FactCheck: true,
			Images:    true,
		},
		Output: OutputConfig{
			Dir:      ".",
			Snapshot: "my_articles.json",
			Draft:    "draft_post.md",
			Fallback: "draft_fallback.md",
			Preview:  "draft_post.html",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig 从指定路径加载配置；文件不存在时使用默认值。
// Values present in the file override the defaults field by field.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnv reads .env (if any) and resolves the platform API key.
func (c *Config) LoadEnv(files ...string) error {
	// .env is optional; the real environment always wins.
	_ = godotenv.Load(files...)
	c.APIKey = os.Getenv(c.DevTo.APIKeyEnv)
	if c.APIKey == "" {
		return fmt.Errorf("%w: set %s in the environment or a .env file", ErrMissingAPIKey, c.DevTo.APIKeyEnv)
	}
	return nil
}

// Validate checks values a broken file could leave inconsistent.
func (c Config) Validate() error {
	if c.DevTo.BaseURL == "" {
		return errors.New("devto.base_url is required")
	}
	if c.DevTo.APIKeyEnv == "" {
		return errors.New("devto.api_key_env is required")
	}
	if c.Models.Reasoning == "" || c.Models.Generation == "" {
		return errors.New("models.reasoning and models.generation are required")
	}
	if c.Summarize.TopN <= 0 {
		return fmt.Errorf("summarize.top_n must be positive, got %d", c.Summarize.TopN)
	}
	if c.Summarize.Pacing < 0 {
		return fmt.Errorf("summarize.pacing must not be negative, got %s", c.Summarize.Pacing)
	}
	switch c.Summarize.Mode {
	case ModeModel, ModeDigest:
	default:
		return fmt.Errorf("summarize.mode %q not supported", c.Summarize.Mode)
	}
	if c.Output.Draft == "" || c.Output.Fallback == "" || c.Output.Snapshot == "" {
		return errors.New("output.snapshot, output.draft and output.fallback are required")
	}
	return nil
}
