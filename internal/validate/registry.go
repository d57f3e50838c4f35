package validate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/snc-project/snc/internal/checker"
	"github.com/snc-project/snc/internal/store"
)

// Registry maps language tags to validators. It is built once at startup;
// lookups of unconfigured languages fail immediately rather than at some
// later dynamic-resolution point.
type Registry struct {
	validators map[string]Validator
}

// NewRegistry builds a registry from an explicit map. Used directly by
// tests; production code goes through LoadRegistry.
func NewRegistry(validators map[string]Validator) *Registry {
	return &Registry{validators: validators}
}

// For returns the validator for a language tag.
func (r *Registry) For(language string) (Validator, error) {
	v, ok := r.validators[language]
	if !ok {
		return nil, &UnsupportedLanguageError{Language: language}
	}
	return v, nil
}

// Languages returns the configured language tags.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.validators))
	for lang := range r.validators {
		out = append(out, lang)
	}
	return out
}

// registryFile is the on-disk YAML shape:
//
//	validators:
//	  typescript:
//	    tool: tsc
type registryFile struct {
	Validators map[string]languageConfig `yaml:"validators"`
}

type languageConfig struct {
	Tool string `yaml:"tool"`
}

// LoadRegistry reads a validator registry file and constructs the
// configured validators over the given store. An unknown language tag in
// the file is a configuration error.
func LoadRegistry(path string, st *store.Store) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load validator registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse validator registry: %w", err)
	}

	validators := make(map[string]Validator, len(file.Validators))
	for lang, cfg := range file.Validators {
		switch lang {
		case "typescript":
			validators[lang] = NewTypeScript(st, checker.NewTSC(cfg.Tool))
		default:
			return nil, fmt.Errorf("load validator registry: unknown language %q", lang)
		}
	}
	return &Registry{validators: validators}, nil
}

// DefaultRegistry returns the registry used when no registry file is
// configured: TypeScript with the stock tsc checker.
func DefaultRegistry(st *store.Store) *Registry {
	return NewRegistry(map[string]Validator{
		"typescript": NewTypeScript(st, checker.NewTSC("")),
	})
}
