package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsvc "nytinsight/internal/app"
	"nytinsight/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"),
		[]byte("Ceasefire talks resumed on Tuesday with mediators from three countries."), 0o600))

	catalog := filepath.Join(t.TempDir(), "sources.toml")
	require.NoError(t, os.WriteFile(catalog,
		[]byte("[sources.\"a.txt\"]\ntitle = \"Talks Resume\"\nurl = \"https://example.com/a\"\n"), 0o600))

	return &config.Config{
		Corpus:   config.CorpusConfig{Dir: dir, CatalogFile: catalog},
		Composer: config.ComposerConfig{Provider: "static"},
	}
}

func TestNewWithConfig_Static(t *testing.T) {
	app, err := NewWithConfig(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Redis)
	assert.Nil(t, app.Limiter)
	assert.False(t, app.StartedAt.IsZero())

	res, err := app.AskService.Ask(context.Background(), appsvc.AskInput{Question: "ceasefire talks"})
	require.NoError(t, err)
	require.Len(t, res.Citations, 1)
	assert.Equal(t, "Talks Resume", res.Citations[0].Title)
}

func TestNewWithConfig_LLMRequiresEndpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Composer.Provider = "llm"

	_, err := NewWithConfig(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init llm composer failed")

	cfg.LLM = config.LLMConfig{BaseURL: "http://127.0.0.1:1/v1", Model: "m"}
	app, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, app.AskService)
}

func TestNewWithConfig_UnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Composer.Provider = "oracle"

	_, err := NewWithConfig(context.Background(), cfg)
	assert.ErrorContains(t, err, `unknown composer provider "oracle"`)
}

func TestNewWithConfig_RateLimitWithUnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, WindowSeconds: 60}
	cfg.Redis = config.RedisConfig{Addr: "127.0.0.1:1"}

	app, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Redis)
	assert.NotNil(t, app.Limiter)
}
