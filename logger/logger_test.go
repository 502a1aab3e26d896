package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Helper()
	once = sync.Once{}
	logger, base, sugar = nil, nil, nil
}

func TestInitWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter("not-a-level", &buf)

	Debug("hidden")
	Info("visible")
	With("run_id", "abc")
	Warnf("count %d", 2)
	Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "visible", first["msg"])
	assert.NotContains(t, first, "run_id")

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "WARN", second["level"])
	assert.Equal(t, "count 2", second["msg"])
	assert.Equal(t, "abc", second["run_id"])
}

func TestWith_ReplacesEarlierFields(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	InitWithWriter("info", &buf)

	With("run_id", "first")
	With("run_id", "second")
	Info("after")
	Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	assert.Equal(t, 1, strings.Count(last, `"run_id"`), last)
	assert.Contains(t, last, `"run_id":"second"`)
}
