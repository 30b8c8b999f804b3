// Package config builds the process configuration once at startup.
// Values come from an optional YAML file overridden by environment
// variables; the resulting Config is never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	openaiBaseURL   = "https://api.openai.com/v1"
	defaultLocalURL = "http://localhost:1234/v1"

	defaultOpenAIModel = "gpt-4o-mini"
	defaultLocalModel  = "qwen3:4b-2507"
)

// Config holds everything the agent needs to talk to its backend and tool
// host.
type Config struct {
	// UseOpenAI selects the remote OpenAI API instead of a local server.
	UseOpenAI bool `yaml:"use_openai"`

	// BaseURL is the local endpoint; ignored in OpenAI mode.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the endpoint. Local servers accept any
	// value.
	APIKey string `yaml:"api_key"`

	// Model overrides the per-mode default model name.
	Model string `yaml:"model"`

	// Temperature overrides the agent's sampling temperature when positive.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens overrides the completion token limit when positive.
	MaxTokens int `yaml:"max_tokens"`

	// InsecureTLS skips certificate verification for local endpoints.
	InsecureTLS bool `yaml:"insecure_tls"`

	MCP MCPConfig `yaml:"mcp"`
}

// MCPConfig describes how to launch the tool host subprocess.
type MCPConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Load builds a Config from the YAML file at path (skipped when path is
// empty or the file does not exist) with environment overrides applied on
// top.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL: defaultLocalURL,
		MCP: MCPConfig{
			Command: "uv",
			Args:    []string{"run", "mcp-server/content_mcp.py"},
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// optional file
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if cfg.UseOpenAI && cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required when USE_OPENAI=true")
	}
	if !cfg.UseOpenAI && cfg.APIKey == "" {
		cfg.APIKey = "local"
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	// An empty value counts as unset so stub .env lines like "USE_OPENAI="
	// do not clobber the file layer.
	if v := os.Getenv("USE_OPENAI"); v != "" {
		cfg.UseOpenAI = parseBool(v)
	}
	if cfg.UseOpenAI {
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.APIKey = v
		}
	} else {
		if v := os.Getenv("LOCAL_LLM_BASE_URL"); v != "" {
			cfg.BaseURL = v
		}
		if v := os.Getenv("LOCAL_LLM_API_KEY"); v != "" {
			cfg.APIKey = v
		}
		if v := os.Getenv("LOCAL_LLM_MODEL"); v != "" {
			cfg.Model = v
		}
	}
	if v := os.Getenv("INSECURE_TLS"); v != "" {
		cfg.InsecureTLS = parseBool(v)
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return b
}

// ProviderName returns the registry name of the configured backend.
func (c *Config) ProviderName() string {
	if c.UseOpenAI {
		return "openai"
	}
	return "local"
}

// Endpoint returns the base URL the configured backend is reached at.
func (c *Config) Endpoint() string {
	if c.UseOpenAI {
		return openaiBaseURL
	}
	return c.BaseURL
}

// ModelName resolves the model identifier: the explicit override when set,
// otherwise the per-mode default.
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	if c.UseOpenAI {
		return defaultOpenAIModel
	}
	return defaultLocalModel
}
