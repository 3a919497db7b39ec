package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saberchat/saber/pkg/chatbot"
)

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	err := loadDotEnv(filepath.Join(t.TempDir(), "no-such.env"))
	assert.NoError(t, err)
}

func TestLoadDotEnv_LoadsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SABER_TEST_VAR=hello\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SABER_TEST_VAR") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("SABER_TEST_VAR"))
}

func TestSeedAPIKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("GOOGLE_API_KEY", "")

	bot := chatbot.New(chatbot.Options{})
	t.Cleanup(func() { _ = bot.Close() })

	seedAPIKeys(bot)

	assert.Equal(t, "sk-from-env", bot.APIKey("openai"))
	assert.Empty(t, bot.APIKey("google_genai"))
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := loadCatalog("")
	require.NoError(t, err)
	assert.NotEmpty(t, catalog.Providers)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"providers:\n  - name: custom\n    models:\n      - m1\n"), 0o600))

	catalog, err = loadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Providers, 1)
	assert.Equal(t, "custom", catalog.Providers[0].Name)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
