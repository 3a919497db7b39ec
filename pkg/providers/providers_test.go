package providers_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/saberchat/saber/pkg/chats/chat"
	"github.com/saberchat/saber/pkg/chats/message"
	"github.com/saberchat/saber/pkg/modeladapter"
	"github.com/saberchat/saber/pkg/providers"
	"github.com/saberchat/saber/pkg/providers/gemini"
	"github.com/saberchat/saber/pkg/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := providers.Default()

	assert.Equal(t, []string{"openai", "google_genai"}, c.Names())
	assert.True(t, c.Supports("openai"))
	assert.True(t, c.Supports("google_genai"))
	assert.False(t, c.Supports("anthropic"))

	assert.Contains(t, c.Models("openai"), "gpt-4o")
	assert.Contains(t, c.Models("google_genai"), "gemini-2.5-flash")
	assert.Nil(t, c.Models("unknown"))

	assert.True(t, c.SupportsModel("openai", "gpt-4"))
	assert.False(t, c.SupportsModel("google_genai", "gpt-4"))
	assert.False(t, c.SupportsModel("unknown", "gpt-4"))
}

func TestCatalog_ModelsReturnsCopy(t *testing.T) {
	c := providers.Default()

	models := c.Models("openai")
	models[0] = "mutated"

	assert.NotContains(t, c.Models("openai"), "mutated")
}

func TestLoad(t *testing.T) {
	t.Setenv("EXTRA_MODEL", "gpt-4o")

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "providers:\n  - name: openai\n    models: [\"${EXTRA_MODEL}\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := providers.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gpt-4o"}, c.Models("openai"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := providers.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "providers: []"},
		{"unnamed provider", "providers:\n  - models: [m]"},
		{"duplicate provider", "providers:\n  - name: a\n    models: [m]\n  - name: a\n    models: [m]"},
		{"no models", "providers:\n  - name: a\n    models: []"},
		{"empty model name", "providers:\n  - name: a\n    models: [\"\"]"},
		{"not yaml", ":\t:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := providers.Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestBuild_KnownProviders(t *testing.T) {
	c, err := providers.Build(providers.BuildConfig{
		Provider: "openai", Model: "gpt-4o", Temperature: 0.3, APIKey: "k",
	})
	require.NoError(t, err)

	oa, ok := c.(*openai.Adapter)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", oa.Name)
	assert.InDelta(t, 0.3, oa.Temperature, 1e-9)

	c, err = providers.Build(providers.BuildConfig{
		Provider: "google_genai", Model: "gemini-2.0-flash", APIKey: "k",
	})
	require.NoError(t, err)

	ga, ok := c.(*gemini.Adapter)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash", ga.Name)
}

func TestBuild_UnknownProvider(t *testing.T) {
	_, err := providers.Build(providers.BuildConfig{Provider: "mystery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

type stubCompleter struct{}

func (stubCompleter) Complete(context.Context, *chat.Chat) (message.Message, error) {
	return message.Assistant("stub"), nil
}

func TestRegister_CustomFactory(t *testing.T) {
	providers.Register("custom", func(providers.BuildConfig) (modeladapter.Completer, error) {
		return stubCompleter{}, nil
	})

	c, err := providers.Build(providers.BuildConfig{Provider: "custom"})
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), chat.New())
	require.NoError(t, err)
	assert.Equal(t, "stub", reply.Text)
}

func TestRegister_FactoryError(t *testing.T) {
	wantErr := errors.New("boom")
	providers.Register("broken", func(providers.BuildConfig) (modeladapter.Completer, error) {
		return nil, wantErr
	})

	_, err := providers.Build(providers.BuildConfig{Provider: "broken"})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
