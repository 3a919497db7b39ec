// Package providers defines the closed catalog of supported LLM providers and
// the factory registry that builds completion adapters from it.
//
// The provider and per-provider model sets are configuration data, not code:
// they are loaded from YAML (see [Load]) with a compiled-in default
// (see [Default]). Concrete adapters live in sub-packages:
//   - [github.com/saberchat/saber/pkg/providers/openai] — OpenAI Chat Completions API
//   - [github.com/saberchat/saber/pkg/providers/gemini] — Google Gemini API ("google_genai")
package providers

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Entry describes one provider and the models it may serve.
type Entry struct {
	Name   string   `yaml:"name"`
	Models []string `yaml:"models"`
}

// Catalog is the closed set of supported providers and their models.
type Catalog struct {
	Providers []Entry `yaml:"providers"`
}

// Load reads a YAML catalog file. Environment variables referenced as ${VAR}
// or $VAR in the YAML are expanded before parsing.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("providers: load catalog: %w", err)
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("providers: parse catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}

	return c, nil
}

// Default returns the compiled-in catalog.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		// The embedded catalog is part of the build; failing to parse it is a bug.
		panic(fmt.Sprintf("providers: embedded catalog: %v", err))
	}
	return c
}

// Validate checks that the catalog is internally consistent.
func (c Catalog) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("providers: catalog: at least one provider is required")
	}

	seen := make(map[string]struct{}, len(c.Providers))
	for _, e := range c.Providers {
		if e.Name == "" {
			return fmt.Errorf("providers: catalog: provider name is required")
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("providers: catalog: duplicate provider %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		if len(e.Models) == 0 {
			return fmt.Errorf("providers: catalog: provider %q: at least one model is required", e.Name)
		}
		for _, m := range e.Models {
			if m == "" {
				return fmt.Errorf("providers: catalog: provider %q: model name is required", e.Name)
			}
		}
	}

	return nil
}

// Names returns the provider names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Providers))
	for _, e := range c.Providers {
		names = append(names, e.Name)
	}
	return names
}

// Supports reports whether the given provider is in the catalog.
func (c Catalog) Supports(provider string) bool {
	for _, e := range c.Providers {
		if e.Name == provider {
			return true
		}
	}
	return false
}

// Models returns a copy of the model set for the given provider, or nil for
// an unknown provider.
func (c Catalog) Models(provider string) []string {
	for _, e := range c.Providers {
		if e.Name == provider {
			return slices.Clone(e.Models)
		}
	}
	return nil
}

// SupportsModel reports whether the given model belongs to the given
// provider's model set.
func (c Catalog) SupportsModel(provider, model string) bool {
	return slices.Contains(c.Models(provider), model)
}
