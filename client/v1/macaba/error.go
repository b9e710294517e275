package macaba

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	StatusError      = "error"
	StatusTimeout    = "timeout"
	StatusParseError = "parsererror"
	failureLineBreak = "<br/>"
)

// Failure describes a REST call that did not produce a usable payload.
// Status is the short label ("error", "timeout", "parsererror") and
// Detail the human-readable reason, which for HTTP-level failures is
// the standard reason phrase of the response code.
type Failure struct {
	Status string
	Detail string

	Code    int
	Message string
	Missing []string
}

func (f *Failure) Error() string {
	msg := f.Status
	if f.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, f.Detail)
	}
	if f.Message != "" {
		msg = fmt.Sprintf("%s (%s)", msg, f.Message)
	} else if len(f.Missing) > 0 {
		msg = fmt.Sprintf("%s (missing %s)", msg, strings.Join(f.Missing, ", "))
	}
	return msg
}

// Render formats the failure for the page region that would have held
// the successful result.
func (f *Failure) Render() string {
	return f.Status + failureLineBreak + f.Detail
}

func transportFailure(err error) *Failure {
	type timeout interface {
		Timeout() bool
	}

	f := &Failure{Status: StatusError, Detail: err.Error()}
	if t, ok := err.(timeout); ok && t.Timeout() {
		f.Status = StatusTimeout
	}
	return f
}

func statusFailure(code int, body []byte) *Failure {
	f := &Failure{
		Status: StatusError,
		Detail: http.StatusText(code),
		Code:   code,
	}

	var e struct {
		Message string   `json:"error"`
		Missing []string `json:"missing"`
	}
	if json.Unmarshal(body, &e) == nil {
		f.Message = e.Message
		f.Missing = e.Missing
	}
	return f
}

func parseFailure(code int, err error) *Failure {
	return &Failure{
		Status: StatusParseError,
		Detail: err.Error(),
		Code:   code,
	}
}

// AsFailure recovers the *Failure from an error returned by the client.
func AsFailure(err error) (*Failure, bool) {
	f, ok := err.(*Failure)
	return f, ok
}
