package forward

import (
	"errors"
	"fmt"
)

// Kind classifies a forwarding failure so the HTTP layer can pick a status.
type Kind int

const (
	KindInternal Kind = iota
	KindClient
	KindConfiguration
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is returned by Forwarder for every failed forward.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UpstreamError reports a non-2xx response from the webhook.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("webhook responded %d: %s", e.StatusCode, e.Body)
}

var (
	ErrMissingType   = errors.New("report type is required")
	ErrNotConfigured = errors.New("FORWARD_WEBHOOK_URL missing")
)

// KindOf returns the kind of err, or KindInternal when err was not produced
// by this package.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
