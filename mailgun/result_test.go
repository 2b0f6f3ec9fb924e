package mailgun

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{400, "Bad Request — often missing a required parameter"},
		{401, "Unauthorized — no valid API key provided"},
		{402, "Request Failed — parameters were valid but request failed"},
		{404, "Not Found — the requested item doesn't exist"},
		{500, "Server Errors — something is wrong on the remote end"},
		{502, "Server Errors — something is wrong on the remote end"},
		{503, "Server Errors — something is wrong on the remote end"},
		{504, "Server Errors — something is wrong on the remote end"},
		{403, "Unexpected response status code: 403"},
		{418, "Unexpected response status code: 418"},
		{501, "Unexpected response status code: 501"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			res := FailStatus[struct{}](tt.code)
			assert.False(t, res.Successful)
			assert.Equal(t, tt.want, res.ErrorMessage())
			assert.Equal(t, tt.code, res.StatusCode())
		})
	}
}

func TestResultConstructors(t *testing.T) {
	ok := Success("payload")
	assert.True(t, ok.Successful)
	assert.Equal(t, "payload", ok.Response)
	assert.Nil(t, ok.Failure())
	assert.Empty(t, ok.ErrorMessage())
	assert.NoError(t, ok.Err())

	failed := Fail[string]("connection refused")
	assert.False(t, failed.Successful)
	assert.Equal(t, "connection refused", failed.ErrorMessage())
	assert.Equal(t, 0, failed.StatusCode())
	require.NotNil(t, failed.Failure())
	assert.Equal(t, FailureMessage, failed.Failure().Kind)
}

func TestResultErr(t *testing.T) {
	err := FailStatus[string](404).Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
	assert.Contains(t, apiErr.Error(), "status 404")

	unauthorized := FailStatus[string](401).Err()
	assert.True(t, errors.Is(unauthorized, ErrUnauthorized))

	transport := Fail[string]("dial tcp: timeout").Err()
	assert.Equal(t, "mailgun API error: dial tcp: timeout", transport.Error())
}

func TestContractErrorsMatchSentinel(t *testing.T) {
	var err error = &ArgumentError{Argument: "alias", Reason: "must not be empty"}
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, `invalid argument "alias": must not be empty`, err.Error())

	err = &ValidationError{Field: "tags", Message: "too many tags"}
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
