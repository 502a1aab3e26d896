package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyFor(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "sk-openai")
	t.Setenv(EnvAnthropicAPIKey, "")
	t.Setenv(EnvGeminiAPIKey, "")
	t.Setenv(EnvLLMAPIKey, "generic")

	assert.Equal(t, "sk-openai", APIKeyFor(ProviderOpenAI))
	assert.Equal(t, "generic", APIKeyFor(ProviderAnthropic))
	assert.Equal(t, "generic", APIKeyFor(ProviderGemini))

	t.Setenv(EnvLLMAPIKey, "")
	assert.Empty(t, APIKeyFor(ProviderAnthropic))
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("OPENAI_API_KEY=from-file\nTESTMYCODE_EXTRA=extra\n"), 0644))

	t.Setenv(EnvOpenAIAPIKey, "from-env")
	t.Setenv("TESTMYCODE_EXTRA", "")
	require.NoError(t, os.Unsetenv("TESTMYCODE_EXTRA"))

	require.NoError(t, LoadEnvFile(""))

	assert.Equal(t, "from-env", os.Getenv(EnvOpenAIAPIKey))
	assert.Equal(t, "extra", os.Getenv("TESTMYCODE_EXTRA"))
}

func TestLoadEnvFile_MissingDefaultIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnvFile(""))
}

func TestLoadEnvFile_ExplicitPathMustExist(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}
