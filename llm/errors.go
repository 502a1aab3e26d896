package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bitrise-io/testmycode/common"
	"github.com/bitrise-io/testmycode/logger"
)

// NewAuthError reports a missing or rejected credential
func NewAuthError(provider string, cause error) error {
	message := provider + " API key is not set"
	if cause != nil {
		message = provider + " rejected the API key"
	}
	return common.NewError(common.KindAuthentication, message, cause)
}

// NewNetworkError reports a failure to reach the backend
func NewNetworkError(provider string, cause error) error {
	return common.NewError(common.KindNetwork, "request to "+provider+" failed", cause)
}

// NewInvalidResponseError reports a reply that lacks an expected field
func NewInvalidResponseError(provider, message string) error {
	logger.Errorf("Invalid response from %s: %s", provider, message)
	return common.NewError(common.KindService, provider+" returned an invalid response: "+message, nil)
}

// statusError classifies an error the backend answered with an HTTP status
func statusError(provider string, status int, cause error) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewAuthError(provider, cause)
	}
	return common.NewError(common.KindService, fmt.Sprintf("%s returned HTTP %d", provider, status), cause)
}

// NewMalformedResponseError reports a reply whose body could not be decoded
func NewMalformedResponseError(provider string, cause error) error {
	return common.NewError(common.KindService, provider+" returned a malformed response", cause)
}

// isDecodeError reports whether err comes from decoding the response body
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return true
	}
	return strings.Contains(err.Error(), "error parsing response json")
}
