package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := fmt.Errorf("completion failed: %w", NewError(KindNetwork, "request to openai failed", cause))

	assert.True(t, IsKind(err, KindNetwork))
	assert.False(t, IsKind(err, KindService))
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "completion failed: NETWORK_ERROR: request to openai failed: connection reset by peer", err.Error())
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindIO))
	assert.Equal(t, "IO_ERROR: disk full", NewError(KindIO, "disk full", nil).Error())
}
