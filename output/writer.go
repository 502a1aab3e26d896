package output

import (
	"os"

	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/logger"
)

const filePerm = 0644

// WriteFile overwrites path with content, creating the file if needed.
// The write is not atomic: a failure can leave a partially written file.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return common.NewError(common.KindIO, "failed to write "+path, err)
	}

	logger.Infof("Wrote %d bytes to %s", len(content), path)
	return nil
}

// WritePrompt stores a diagnostic copy of the prompt document
func WritePrompt(path, prompt string) error {
	logger.Debugf("Writing prompt to %s", path)
	return WriteFile(path, prompt)
}
