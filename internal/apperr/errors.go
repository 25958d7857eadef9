package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the closed set of failure categories the API can report. Handlers
// map kinds to responses; nothing downstream branches on raw status codes.
type Kind string

const (
	KindBadInput     Kind = "bad_input"
	KindUnconfigured Kind = "unconfigured"
	KindSoldOut      Kind = "sold_out"
	KindAuth         Kind = "upstream_auth"
	KindRateLimited  Kind = "upstream_rate_limited"
	KindUnavailable  Kind = "upstream_unavailable"
	KindBadUpstream  Kind = "upstream_bad_response"
	KindUpstream     Kind = "upstream_error"
	KindInternal     Kind = "internal"
)

// Error carries a kind, a caller-facing message, and optional detail text.
// UpstreamStatus, when set, is mirrored back to the client for upstream kinds.
type Error struct {
	Kind           Kind
	Message        string
	Details        string
	UpstreamStatus int
	wrapped        error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.wrapped }

// New builds an Error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error, surfacing the
// underlying message as detail text.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	e := New(kind, format, args...)
	if err != nil {
		e.Details = err.Error()
		e.wrapped = err
	}
	return e
}

// HTTPStatus maps a kind to the response status. Upstream kinds mirror the
// upstream status when one was recorded.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindBadInput:
		return http.StatusBadRequest
	case KindSoldOut:
		return http.StatusForbidden
	case KindUnconfigured, KindInternal:
		return http.StatusInternalServerError
	}
	if e.UpstreamStatus >= 400 {
		return e.UpstreamStatus
	}
	return http.StatusBadGateway
}

// From recovers an *Error from err, wrapping unknown errors as KindInternal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(KindInternal, err, "internal error")
}

// ClassifyResponse is the single boundary classifier for upstream HTTP
// failures. Callers pass the status, content type, and a snippet of the
// response body; the result records the upstream status for mirroring.
func ClassifyResponse(status int, contentType string, body []byte) *Error {
	snippet := bodySnippet(body)
	var e *Error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e = New(KindAuth, "upstream rejected credentials")
	case status == http.StatusTooManyRequests:
		e = New(KindRateLimited, "upstream rate limit exceeded")
	case status == http.StatusServiceUnavailable:
		e = New(KindUnavailable, "upstream model unavailable")
	case strings.Contains(contentType, "text/html"):
		e = New(KindBadUpstream, "upstream returned html instead of data")
	default:
		e = New(KindUpstream, "upstream request failed with status %d", status)
	}
	e.UpstreamStatus = status
	e.Details = snippet
	return e
}

func bodySnippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max]
	}
	return s
}
