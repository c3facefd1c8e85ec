// Package config loads docsx settings from a TOML file, then applies
// environment overrides on top of the defaults.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/RichardoC/docsx/internal/remote"
)

type Config struct {
	Listen   string       `toml:"listen"`
	Database string       `toml:"database"`
	LLM      LLMConfig    `toml:"llm"`
	Remote   RemoteConfig `toml:"remote"`
	Export   ExportConfig `toml:"export"`
}

// LLMConfig configures the generator served at the /docsx/chat endpoints.
type LLMConfig struct {
	BaseURL         string   `toml:"base_url"`
	Token           string   `toml:"token"`
	Model           string   `toml:"model"`
	Timeout         Duration `toml:"timeout"`
	MaxPromptTokens int      `toml:"max_prompt_tokens"`
}

// RemoteConfig points the workspace at a generator. An empty BaseURL means
// this process.
type RemoteConfig struct {
	BaseURL      string   `toml:"base_url"`
	PromptPath   string   `toml:"prompt_path"`
	RephrasePath string   `toml:"rephrase_path"`
	Timeout      Duration `toml:"timeout"`
}

type ExportConfig struct {
	FontSize float64 `toml:"font_size"`
	Margin   float64 `toml:"margin"`
}

// Duration accepts TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func Default() *Config {
	return &Config{
		Listen:   ":8100",
		Database: ":memory:",
		LLM: LLMConfig{
			BaseURL: "http://localhost:11434/v1/",
			Model:   "llama3.1:8b",
			Timeout: Duration{60 * time.Second},
		},
		Remote: RemoteConfig{
			PromptPath:   remote.PromptPath,
			RephrasePath: remote.RephrasePath,
		},
		Export: ExportConfig{
			FontSize: 12,
			Margin:   40,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.Token = v
	}
	if v := os.Getenv("DOCSX_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("DOCSX_DATABASE"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("DOCSX_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("DOCSX_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("DOCSX_REMOTE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("DOCSX_MAX_PROMPT_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DOCSX_MAX_PROMPT_TOKENS: %w", err)
		}
		c.LLM.MaxPromptTokens = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is required")
	}
	if c.Database == "" {
		return errors.New("database is required")
	}
	if _, err := url.ParseRequestURI(c.LLM.BaseURL); err != nil {
		return fmt.Errorf("invalid llm.base_url: %w", err)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.Remote.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Remote.BaseURL); err != nil {
			return fmt.Errorf("invalid remote.base_url: %w", err)
		}
	}
	if c.Remote.PromptPath == "" || c.Remote.RephrasePath == "" {
		return errors.New("remote prompt and rephrase paths are required")
	}
	if c.LLM.MaxPromptTokens < 0 {
		return errors.New("llm.max_prompt_tokens must not be negative")
	}
	if c.Export.FontSize <= 0 || c.Export.Margin < 0 {
		return errors.New("export font_size must be positive and margin not negative")
	}
	return nil
}

// RemoteURL is the generator base URL the workspace calls.
func (c *Config) RemoteURL() string {
	if c.Remote.BaseURL != "" {
		return c.Remote.BaseURL
	}
	host, port := "localhost", c.Listen
	if h, p, err := net.SplitHostPort(c.Listen); err == nil {
		if h != "" && h != "0.0.0.0" && h != "::" {
			host = h
		}
		port = p
	}
	return "http://" + host + ":" + port
}
