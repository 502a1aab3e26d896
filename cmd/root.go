package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/git"
	"github.com/bitrise-io/testmycode/input"
	"github.com/bitrise-io/testmycode/llm"
	"github.com/bitrise-io/testmycode/logger"
	"github.com/bitrise-io/testmycode/pipeline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel    string
	file        string
	output      string
	logInput    bool
	contexts    []string
	model       string
	temperature float64
	provider    string
	preset      string
	configPath  string
	envFile     string
	rev         string
	inputLog    string
}

// NewRootCmd builds the command tree with fresh flag state
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "testmycode",
		Short: "testmycode - generate unit tests for a source file using AI",
		Long: `testmycode reads a source file, wraps it in a prompt describing the unit testing conventions to follow,
optionally appends context files, sends it to an LLM and writes the generated tests to the output file.
The finish reason of the completion is printed to standard output.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.logLevel)
			logger.Debugf("Log level set to: %s", opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")

	flags := rootCmd.Flags()
	// Request
	flags.StringVarP(&opts.file, "file", "f", "", "File to test")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file")
	flags.BoolVar(&opts.logInput, "log-input", false, "Also write the prompt to the input log file (legacy form: -li)")
	flags.StringArrayVarP(&opts.contexts, "context", "c", nil, "Context file appended to the prompt, can be repeated")
	flags.StringVarP(&opts.model, "model", "m", common.PresetExtended.Model, "LLM model to use")
	flags.Float64VarP(&opts.temperature, "temperature", "t", 0, "Sampling temperature, lower is more deterministic")
	flags.StringVar(&opts.rev, "rev", "", "Read the source and context files from this git revision")
	flags.StringVar(&opts.inputLog, "input-log", "", "Path of the input log file (default from settings: input.md)")
	// LLM
	flags.StringVarP(&opts.provider, "provider", "p", common.ProviderOpenAI, "LLM provider to use (openai, anthropic, gemini)")
	// Configuration
	flags.StringVar(&opts.preset, "preset", common.PresetNameExtended, "Tool flavour: classic or extended")
	flags.StringVar(&opts.configPath, "config", "", "Settings file (default: discovered testmycode.yml)")
	flags.StringVar(&opts.envFile, "env-file", "", "Dotenv file to load credentials from (default: ./.env if present)")

	_ = rootCmd.MarkFlagRequired("file")
	_ = rootCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and handles errors
func Execute() error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(NormalizeArgs(os.Args[1:]))
	err := rootCmd.Execute()
	logger.Sync()
	return err
}

func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	runID := uuid.NewString()
	logger.With("run_id", runID)
	logger.Info("Starting testmycode run")

	preset, err := common.LookupPreset(opts.preset)
	if err != nil {
		return err
	}
	if err := checkPresetFlags(cmd, preset); err != nil {
		return err
	}

	if err := common.LoadEnvFile(opts.envFile); err != nil {
		return err
	}

	settings, err := common.WithYamlFile(opts.configPath)
	if err != nil {
		return err
	}
	settings = mergeFlags(cmd, opts, settings)
	settings = pinPresetSettings(preset, settings)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	spec := pipeline.RequestSpec{
		SourcePath:   opts.file,
		OutputPath:   opts.output,
		ContextPaths: opts.contexts,
		Model:        resolveModel(preset, settings),
		Temperature:  preset.Temperature,
		LogInput:     preset.AlwaysLogInput || opts.logInput,
		InputLogPath: settings.InputLogPath,
	}
	if settings.Temperature != nil {
		spec.Temperature = *settings.Temperature
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	logger.Debugf("Using preset %s, settings %+v, request %+v", preset.Name, settings, spec)

	retryConfig := common.DefaultRetryConfig()
	retryConfig.RetryMax = settings.RetryMax
	httpClient := common.NewRetryableClient(retryConfig).StandardClient()

	llmClient, err := llm.NewLLM(settings.Provider, common.APIKeyFor(settings.Provider),
		llm.WithModel(spec.Model),
		llm.WithMaxTokens(settings.MaxTokens),
		llm.WithAPITimeout(settings.APITimeout),
		llm.WithBaseURL(settings.BaseURL),
		llm.WithHTTPClient(httpClient),
	)
	if err != nil {
		return fmt.Errorf("failed to create client for provider: %w", err)
	}

	loader, err := newLoader(opts.rev)
	if err != nil {
		return err
	}

	_, err = pipeline.New(loader, llmClient, cmd.OutOrStdout()).Run(cmd.Context(), spec)
	return err
}

// checkPresetFlags rejects the options a preset does not support
func checkPresetFlags(cmd *cobra.Command, preset common.Preset) error {
	if preset.AcceptsOptions {
		return nil
	}

	var unsupported []string
	for _, name := range []string{"context", "model", "log-input", "temperature"} {
		if cmd.Flags().Changed(name) {
			unsupported = append(unsupported, "--"+name)
		}
	}
	if len(unsupported) > 0 {
		return fmt.Errorf("%s not supported by the %s preset", strings.Join(unsupported, ", "), preset.Name)
	}
	return nil
}

// pinPresetSettings drops the settings file model and temperature for presets
// that fix them
func pinPresetSettings(preset common.Preset, settings common.Settings) common.Settings {
	if preset.AcceptsOptions {
		return settings
	}
	if settings.Model != "" || settings.Temperature != nil {
		logger.Warnf("The %s preset uses model %s at temperature %g, ignoring model and temperature from the settings file",
			preset.Name, preset.Model, preset.Temperature)
	}
	settings.Model = ""
	settings.Temperature = nil
	return settings
}

// mergeFlags applies the explicitly set command line flags over the settings file
func mergeFlags(cmd *cobra.Command, opts *rootOptions, settings common.Settings) common.Settings {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		settings.Provider = opts.provider
	}
	if flags.Changed("model") {
		settings.Model = opts.model
	}
	if flags.Changed("temperature") {
		t := opts.temperature
		settings.Temperature = &t
	}
	if flags.Changed("input-log") {
		settings.InputLogPath = opts.inputLog
	}
	return settings
}

// resolveModel picks the model: flag or settings file first, then the
// preset default, which only names OpenAI models.
func resolveModel(preset common.Preset, settings common.Settings) string {
	if settings.Model != "" {
		return settings.Model
	}
	if settings.Provider == common.ProviderOpenAI {
		return preset.Model
	}
	return ""
}

func newLoader(rev string) (input.Loader, error) {
	if rev == "" {
		return input.FileLoader{}, nil
	}

	client := git.NewClient(git.NewDefaultRunner(""))
	commit, err := client.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}
	logger.Infof("Reading files from revision %s (%s)", rev, commit)

	return input.NewGitLoader(client, rev), nil
}
