package services

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/spotx/internal/shared"
	"github.com/tidwall/gjson"
)

// ProtocolError reports a response that could not be read as the expected JSON record.
type ProtocolError struct {
	URL         string
	ContentType string
	Err         error
}

func (e *ProtocolError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("%v (content-type %q)", e.Err, e.ContentType)
	}
	return e.Err.Error()
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// RemoteError is a JSON response with a non-success status. Body holds the payload verbatim.
type RemoteError struct {
	URL        string
	StatusCode int
	Body       json.RawMessage
	Message    string
}

func newRemoteError(url string, status int, body []byte) *RemoteError {
	msg := gjson.GetBytes(body, "error.message").String()
	// the token endpoint reports errors as {"error": "..."}
	if e := gjson.GetBytes(body, "error"); msg == "" && e.Type == gjson.String {
		msg = e.String()
	}
	return &RemoteError{URL: url, StatusCode: status, Body: body, Message: msg}
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: status %d: %s", shared.ErrRemote, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: status %d", shared.ErrRemote, e.StatusCode)
}

func (e *RemoteError) Unwrap() error { return shared.ErrRemote }
