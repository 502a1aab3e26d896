package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/testmycode/logger"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	DefaultInputLogPath = "input.md"
	MaxTemperature      = 2.0
)

var settingsFilenames = []string{"testmycode.yml", "testmycode.yaml"}

// Settings holds the values that can be provided through the settings file.
// Zero values mean "not set" and leave the preset default in place.
type Settings struct {
	Provider     string   `yaml:"provider"`
	Model        string   `yaml:"model"`
	Temperature  *float64 `yaml:"temperature"`
	MaxTokens    int      `yaml:"max_tokens"`
	APITimeout   int      `yaml:"api_timeout"`
	BaseURL      string   `yaml:"base_url"`
	InputLogPath string   `yaml:"input_log_path"`
	RetryMax     int      `yaml:"retry_max"`
}

func WithDefaultSettings() Settings {
	return Settings{
		Provider:     ProviderOpenAI,
		InputLogPath: DefaultInputLogPath,
	}
}

// WithYamlFile loads the settings file on top of the defaults.
// An explicit path must exist and parse. Without one, the working directory
// and then its subdirectories are searched; a discovered file that fails to
// parse is logged and skipped.
func WithYamlFile(path string) (Settings, error) {
	settings := WithDefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return settings, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
		logger.Infof("Using settings from YAML file: %s", path)
		return settings, nil
	}

	filePath := findSettingsFile(".")
	if filePath == "" {
		logger.Info("No settings file found in the current directory or subdirectories. Using default settings.")
		return settings, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.Warnf("Failed to read settings file %s: %v", filePath, err)
		return settings, nil
	}

	loaded := settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		logger.Warnf("Failed to parse YAML file %s: %v", filePath, err)
		return settings, nil
	}

	logger.Infof("Using settings from YAML file: %s", filePath)
	return loaded, nil
}

func findSettingsFile(root string) string {
	for _, name := range settingsFilenames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	found := ""
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, name := range settingsFilenames {
			if d.Name() == name {
				found = path
				return filepath.SkipAll
			}
		}
		return nil
	})

	return found
}

// Validate checks the ranges of the numeric settings and the provider name
func (s Settings) Validate() error {
	var errs []error

	switch s.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("unsupported provider: %s", s.Provider))
	}
	if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > MaxTemperature) {
		errs = append(errs, fmt.Errorf("temperature must be between 0 and %.0f, got %g", MaxTemperature, *s.Temperature))
	}
	if s.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max_tokens cannot be negative, got %d", s.MaxTokens))
	}
	if s.APITimeout < 0 {
		errs = append(errs, fmt.Errorf("api_timeout cannot be negative, got %d", s.APITimeout))
	}
	if s.RetryMax < 0 {
		errs = append(errs, fmt.Errorf("retry_max cannot be negative, got %d", s.RetryMax))
	}

	return errors.Join(errs...)
}
