// Package config loads the compiler configuration from a CUE file,
// validated against an embedded schema. Missing fields take the schema's
// defaults, so an empty or absent file yields a fully usable offline
// configuration (mock oracle, local database).
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSrc string

// Config is the decoded configuration tree.
type Config struct {
	Database   Database   `json:"database"`
	Oracle     Oracle     `json:"oracle"`
	Compile    Compile    `json:"compile"`
	Validators Validators `json:"validators"`
}

// Database locates persistent state.
type Database struct {
	Path string `json:"path"`
}

// Oracle selects and tunes the code-generation backend.
type Oracle struct {
	Provider       string `json:"provider"` // "openai" | "anthropic" | "mock"
	Model          string `json:"model"`
	APIKeyEnv      string `json:"apiKeyEnv"`
	BaseURL        string `json:"baseURL"`
	Attempts       int    `json:"attempts"`
	BackoffSeconds int    `json:"backoffSeconds"`
}

// Compile tunes the compilation pipeline.
type Compile struct {
	Language       string `json:"language"`
	Framework      string `json:"framework"`
	MaxParallel    int    `json:"maxParallel"`
	RepairAttempts int    `json:"repairAttempts"`
}

// Validators locates the validator registry file. Empty means the
// built-in defaults.
type Validators struct {
	Registry string `json:"registry"`
}

// Default returns the configuration the schema's defaults describe.
func Default() (*Config, error) {
	return decode(nil, "")
}

// Load reads a CUE configuration file, unifies it with the schema and
// decodes it. A value outside the schema (unknown field, wrong type,
// out-of-range number) fails here rather than deep in the pipeline.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return decode(content, path)
}

func decode(content []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString("close({" + schemaSrc + "})")
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}

	value := schema
	if len(bytes.TrimSpace(content)) > 0 {
		fileValue := ctx.CompileBytes(content, cue.Filename(filename))
		if err := fileValue.Err(); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		value = schema.Unify(fileValue)
		if err := value.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// APIKey resolves the oracle API key from the configured environment
// variable, falling back to the provider's conventional one.
func (o Oracle) APIKey() string {
	env := o.APIKeyEnv
	if env == "" {
		switch o.Provider {
		case "openai":
			env = "OPENAI_API_KEY"
		case "anthropic":
			env = "ANTHROPIC_API_KEY"
		default:
			return ""
		}
	}
	return os.Getenv(env)
}
