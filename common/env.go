package common

import (
	"fmt"
	"os"

	"github.com/bitrise-io/testmycode/logger"
	"github.com/joho/godotenv"
)

const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	// EnvLLMAPIKey is used when the provider specific variable is not set
	EnvLLMAPIKey = "LLM_API_KEY"

	defaultEnvFile = ".env"
)

// LoadEnvFile loads variables from a dotenv file without overriding the ones
// already present in the environment. An explicit path must exist; the
// default ./.env is optional.
func LoadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		logger.Infof("Loaded environment from %s", path)
		return nil
	}

	if _, err := os.Stat(defaultEnvFile); err != nil {
		logger.Debug("No .env file found, using process environment")
		return nil
	}
	if err := godotenv.Load(defaultEnvFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", defaultEnvFile, err)
	}
	logger.Infof("Loaded environment from %s", defaultEnvFile)
	return nil
}

// APIKeyFor returns the credential for the provider, or "" if none is set
func APIKeyFor(provider string) string {
	var name string
	switch provider {
	case ProviderOpenAI:
		name = EnvOpenAIAPIKey
	case ProviderAnthropic:
		name = EnvAnthropicAPIKey
	case ProviderGemini:
		name = EnvGeminiAPIKey
	}

	if name != "" {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return os.Getenv(EnvLLMAPIKey)
}
