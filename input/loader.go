package input

import (
	"errors"
	"io/fs"
	"os"

	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/git"
	"github.com/bitrise-io/testmycode/logger"
)

// Loader returns the full textual contents of a file
type Loader interface {
	Load(path string) (string, error)
}

// Entry is a loaded file together with the path it was requested as
type Entry struct {
	Path string
	Text string
}

var (
	_ Loader = FileLoader{}
	_ Loader = (*GitLoader)(nil)
)

// FileLoader reads files from the working tree
type FileLoader struct{}

func (FileLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", common.NewError(common.KindFileNotFound, "file not found: "+path, err)
		}
		return "", common.NewError(common.KindIO, "failed to read "+path, err)
	}

	logger.Debugf("Read %d bytes from %s", len(data), path)
	return string(data), nil
}

// GitLoader reads files as they were at a git revision
type GitLoader struct {
	client *git.Client
	rev    string
}

func NewGitLoader(client *git.Client, rev string) *GitLoader {
	return &GitLoader{
		client: client,
		rev:    rev,
	}
}

func (l *GitLoader) Load(path string) (string, error) {
	content, err := l.client.ShowFile(l.rev, path)
	if err != nil {
		if errors.Is(err, git.ErrPathNotInRevision) {
			return "", common.NewError(common.KindFileNotFound, "file not found at "+l.rev+": "+path, err)
		}
		return "", common.NewError(common.KindIO, "failed to read "+path+" at "+l.rev, err)
	}

	logger.Debugf("Read %d bytes from %s at %s", len(content), path, l.rev)
	return content, nil
}

// LoadAll loads every path in order and stops at the first failure
func LoadAll(loader Loader, paths []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		text, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Path: path, Text: text})
	}
	return entries, nil
}
