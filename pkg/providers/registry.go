package providers

import (
	"fmt"
	"sync"

	"github.com/saberchat/saber/pkg/modeladapter"
	"github.com/saberchat/saber/pkg/providers/gemini"
	"github.com/saberchat/saber/pkg/providers/openai"
)

// BuildConfig carries everything needed to construct a completion adapter.
type BuildConfig struct {
	Provider    string
	Model       string
	Temperature float64
	APIKey      string
	BaseURL     string // Optional override, used by tests.
}

// Factory creates a Completer from a BuildConfig.
type Factory func(cfg BuildConfig) (modeladapter.Completer, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]Factory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["openai"] = newOpenAI
		factories["google_genai"] = newGemini
	})
}

// Register registers a custom factory under the given provider name. It can
// be called at startup to extend or replace the built-in providers.
func Register(provider string, factory Factory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[provider] = factory
}

// Build creates a Completer for cfg.Provider using the registered factory.
func Build(cfg BuildConfig) (modeladapter.Completer, error) {
	ensureDefaults()

	factoryMu.RLock()
	factory, ok := factories[cfg.Provider]
	factoryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("providers: unknown provider %q", cfg.Provider)
	}

	c, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("providers: build %q: %w", cfg.Provider, err)
	}

	return c, nil
}

func newOpenAI(cfg BuildConfig) (modeladapter.Completer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	a := openai.New(baseURL, cfg.APIKey, cfg.Model)
	a.Temperature = cfg.Temperature

	return a, nil
}

func newGemini(cfg BuildConfig) (modeladapter.Completer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	a := gemini.New(baseURL, cfg.APIKey, cfg.Model)
	a.Temperature = cfg.Temperature

	return a, nil
}
