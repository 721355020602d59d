// Package config resolves pipeline settings from the environment and an
// optional YAML override file. Validation failures here are the only fatal
// errors in the pipeline: nothing is processed until the config is sound.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"transcript-labeler-go/internal/types"
)

type Config struct {
	// Oracle settings. APIKey comes from OPENAI_API_KEY only, never a file.
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`

	// Retry policy for oracle calls.
	MaxRetries    int     `yaml:"max_retries"`
	BaseDelaySecs float64 `yaml:"base_delay_secs"`
	Multiplier    float64 `yaml:"multiplier"`

	// Workers bounds concurrent classification calls.
	Workers int `yaml:"workers"`

	// Tags is the priority-ordered speaker-tag table. First match wins.
	Tags []types.TagRule `yaml:"tags"`
}

// DefaultTags covers the speaker notations seen across the transcript corpus.
// Longer variants are listed before their prefixes ("I1:" before "I:") so the
// first-match rule picks the longer literal.
var DefaultTags = []types.TagRule{
	{Role: types.RoleInterviewer, Prefix: "[Interviewer]:"},
	{Role: types.RoleInterviewer, Prefix: "Interviewer:"},
	{Role: types.RoleInterviewer, Prefix: "I :"},
	{Role: types.RoleInterviewer, Prefix: "I1 :"},
	{Role: types.RoleInterviewer, Prefix: "I1:"},
	{Role: types.RoleInterviewer, Prefix: "I:"},
	{Role: types.RoleInterviewer, Prefix: "[Interviewer]"},
	{Role: types.RoleInterviewer, Prefix: "I - "},
	{Role: types.RoleRespondent, Prefix: "[Corporator]:"},
	{Role: types.RoleRespondent, Prefix: "Corporator:"},
	{Role: types.RoleRespondent, Prefix: "Ex-Corporator:"},
	{Role: types.RoleRespondent, Prefix: "R :"},
	{Role: types.RoleRespondent, Prefix: "R:"},
	{Role: types.RoleRespondent, Prefix: "[Corporator]"},
	{Role: types.RoleRespondent, Prefix: "R - "},
}

func defaults() *Config {
	return &Config{
		Model:         envOr("OPENAI_MODEL", "gpt-4o-mini"),
		MaxRetries:    5,
		BaseDelaySecs: 2,
		Multiplier:    2,
		Workers:       4,
		Tags:          DefaultTags,
	}
}

// Load builds the config from defaults, the optional YAML file at path, and
// the environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	c.APIKey = os.Getenv("OPENAI_API_KEY")
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.BaseDelaySecs <= 0 {
		return fmt.Errorf("base_delay_secs must be > 0, got %v", c.BaseDelaySecs)
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("multiplier must be >= 1, got %v", c.Multiplier)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if len(c.Tags) == 0 {
		return fmt.Errorf("speaker-tag table is empty")
	}
	for i, t := range c.Tags {
		if t.Prefix == "" {
			return fmt.Errorf("tag rule %d has an empty prefix", i)
		}
		if t.Role != types.RoleInterviewer && t.Role != types.RoleRespondent {
			return fmt.Errorf("tag rule %d has unknown role %q", i, t.Role)
		}
	}
	return nil
}

// RequireAPIKey is checked by commands that call the oracle; compile, check
// and merge run offline and never need it.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY env var not set")
	}
	return nil
}

// BaseDelay returns the retry base delay as a duration.
func (c *Config) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySecs * float64(time.Second))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
