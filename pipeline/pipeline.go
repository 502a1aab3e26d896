package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bitrise-io/testmycode/input"
	"github.com/bitrise-io/testmycode/llm"
	"github.com/bitrise-io/testmycode/logger"
	"github.com/bitrise-io/testmycode/output"
	"github.com/bitrise-io/testmycode/prompt"
)

// RequestSpec is everything one run needs, fixed once the command line is parsed
type RequestSpec struct {
	SourcePath   string
	OutputPath   string
	ContextPaths []string
	Model        string
	Temperature  float64
	LogInput     bool
	InputLogPath string
}

func (s RequestSpec) Validate() error {
	var errs []error
	if s.SourcePath == "" {
		errs = append(errs, errors.New("source file path is required"))
	}
	if s.OutputPath == "" {
		errs = append(errs, errors.New("output file path is required"))
	}
	if s.LogInput && s.InputLogPath == "" {
		errs = append(errs, errors.New("input log path is required when logging the input"))
	}
	return errors.Join(errs...)
}

// Pipeline runs Input Loader -> Prompt Builder -> Completion Client -> Output Writer
type Pipeline struct {
	loader input.Loader
	client llm.LLM
	stdout io.Writer
}

func New(loader input.Loader, client llm.LLM, stdout io.Writer) *Pipeline {
	return &Pipeline{
		loader: loader,
		client: client,
		stdout: stdout,
	}
}

// Run executes one request. Every failure is returned as is; the backend is
// only contacted once all inputs are loaded, and the output file is only
// written after a successful completion.
func (p *Pipeline) Run(ctx context.Context, spec RequestSpec) (llm.Response, error) {
	if err := spec.Validate(); err != nil {
		return llm.Response{}, err
	}

	logger.Infof("Loading source file %s", spec.SourcePath)
	source, err := p.loader.Load(spec.SourcePath)
	if err != nil {
		return llm.Response{}, err
	}

	contextFiles, err := input.LoadAll(p.loader, spec.ContextPaths)
	if err != nil {
		return llm.Response{}, err
	}
	if len(contextFiles) > 0 {
		logger.Infof("Loaded %d context file(s)", len(contextFiles))
	}

	document := prompt.Build(source, contextFiles)
	logger.Debug("Prompt:")
	logger.Debug(document)

	if spec.LogInput {
		if err := output.WritePrompt(spec.InputLogPath, document); err != nil {
			return llm.Response{}, err
		}
	}

	resp, err := p.client.Prompt(ctx, llm.Request{
		Model:       spec.Model,
		Temperature: spec.Temperature,
		UserPrompt:  document,
	})
	if err != nil {
		return llm.Response{}, err
	}

	if resp.FinishReason != llm.FinishReasonStop {
		logger.Warnf("Completion finished with reason %q, the output may be incomplete", resp.FinishReason)
	}
	if _, err := fmt.Fprintln(p.stdout, resp.FinishReason); err != nil {
		return llm.Response{}, fmt.Errorf("failed to print finish reason: %w", err)
	}

	if err := output.WriteFile(spec.OutputPath, resp.Content); err != nil {
		return llm.Response{}, err
	}

	return resp, nil
}
