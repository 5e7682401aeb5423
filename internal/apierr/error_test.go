package apierr

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeErrorRecordsFieldOfTypeError(t *testing.T) {
	var v struct {
		Number int `json:"number"`
	}

	err := json.Unmarshal([]byte(`{"number": "one"}`), &v)
	require.Error(t, err)

	decErr := NewDecodeError("PullRequestEvent", err)
	assert.Equal(t, "PullRequestEvent", decErr.Schema)
	assert.Equal(t, "number", decErr.Field)
	assert.Contains(t, decErr.Error(), `field "number"`)

	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, decErr, &typeErr)
}

func TestMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("IssuesEvent", "issue")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, `decoding IssuesEvent failed, field "issue": required field is missing`, err.Error())
}

func TestNetworkErrorMessages(t *testing.T) {
	transportErr := NewTransportError("https://api.github.com/users/x/events", errors.New("connection refused"))
	assert.Equal(t, "GET https://api.github.com/users/x/events failed: connection refused", transportErr.Error())
	assert.Zero(t, transportErr.StatusCode)

	statusErr := NewStatusError("https://api.github.com/x", 502, []byte("bad gateway"), nil)
	assert.Equal(t, `GET https://api.github.com/x failed with status code 502, response: "bad gateway"`, statusErr.Error())

	wrapped := errors.New("404 Not Found")
	notFound := NewStatusError("https://api.github.com/x", 404, nil, wrapped)
	assert.ErrorIs(t, notFound, wrapped)
}
