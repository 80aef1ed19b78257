package gateway

import (
	"errors"
	"fmt"
)

// Reason classifies why a model call produced no usable text. Every reason
// degrades the caller the same way; it exists for logs and traces.
type Reason string

const (
	ReasonNoCredentials Reason = "no_credentials"
	ReasonTimeout       Reason = "timeout"
	ReasonTransport     Reason = "transport_error"
	ReasonMalformed     Reason = "malformed_response"
)

type Error struct {
	Reason Reason
	Site   Site
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "gateway error"
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Site, e.Reason, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Site, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(site Site, reason Reason, err error) *Error {
	return &Error{Reason: reason, Site: site, Err: err}
}

// ReasonOf reports the gateway reason carried by err. Errors that did not
// come from the gateway are reported as malformed, since they arise while
// interpreting a reply.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var ge *Error
	if errors.As(err, &ge) && ge != nil {
		return ge.Reason
	}
	return ReasonMalformed
}

var (
	ErrNoEngine      = errors.New("model engine not configured")
	ErrNoTranscriber = errors.New("transcriber not configured")
	ErrEmptyReply    = errors.New("empty reply")
)
