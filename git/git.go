package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrPathNotInRevision is returned when a file does not exist at the requested revision
var ErrPathNotInRevision = errors.New("path does not exist in revision")

// Runner defines an interface for running git commands
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// Ensure DefaultRunner implements Runner interface
var _ Runner = (*DefaultRunner)(nil)

// DefaultRunner implements the Runner interface using exec.Command
type DefaultRunner struct {
	RepoPath string
}

// NewDefaultRunner creates a new instance of DefaultRunner
func NewDefaultRunner(repoPath string) *DefaultRunner {
	return &DefaultRunner{
		RepoPath: repoPath,
	}
}

// Run executes a command and returns its untouched stdout
func (r *DefaultRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if r.RepoPath != "" {
		cmd.Dir = r.RepoPath
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("error running command: %s\nstderr: %s", err, stderr.String())
	}

	return stdout.String(), nil
}

// Client reads source files from git history
type Client struct {
	runner Runner
}

// NewClient creates a new Git client
func NewClient(runner Runner) *Client {
	return &Client{
		runner: runner,
	}
}

// ResolveRevision returns the commit hash a revision points to
func (c *Client) ResolveRevision(rev string) (string, error) {
	if rev == "" {
		return "", errors.New("revision cannot be empty")
	}

	output, err := c.runner.Run("git", "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("error resolving revision %s: %w", rev, err)
	}

	return strings.TrimSpace(output), nil
}

// ShowFile returns the content of filePath at the given revision.
// Relative paths are resolved against the runner's working directory.
func (c *Client) ShowFile(rev, filePath string) (string, error) {
	if rev == "" || filePath == "" {
		return "", errors.New("revision and file path cannot be empty")
	}
	if filepath.IsAbs(filePath) {
		return "", fmt.Errorf("absolute path %s cannot be read from a git revision", filePath)
	}

	spec := fmt.Sprintf("%s:./%s", rev, filepath.ToSlash(filepath.Clean(filePath)))
	output, err := c.runner.Run("git", "show", spec)
	if err != nil {
		if isMissingPath(err) {
			return "", fmt.Errorf("%s: %w", spec, ErrPathNotInRevision)
		}
		return "", fmt.Errorf("error reading %s: %w", spec, err)
	}

	return output, nil
}

func isMissingPath(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "does not exist in") || strings.Contains(msg, "exists on disk, but not in")
}
