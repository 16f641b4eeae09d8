package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means the request could not be sent or the response not received.
	ErrNetwork = errors.New("network error")

	// ErrHTTPStatus means the backend answered with a non-success status code.
	ErrHTTPStatus = errors.New("http status error")

	// ErrParse means the body is not valid JSON or does not match the schema.
	ErrParse = errors.New("parse error")

	// ErrBackend means the backend answered 2xx but reported its own failure.
	ErrBackend = errors.New("backend error")
)

// statusMessage is shown for every non-success status, whatever the body says.
const statusMessage = "analysis API did not respond"

// FetchError is returned by AnalysisFetcher for every failure. Message is the
// human-readable text shown to the user; Kind is one of the sentinels above.
type FetchError struct {
	Kind       error
	Message    string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string { return e.Message }

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func networkError(err error) *FetchError {
	return &FetchError{Kind: ErrNetwork, Message: fmt.Sprintf("request failed: %v", err), Err: err}
}

func statusError(code int) *FetchError {
	return &FetchError{Kind: ErrHTTPStatus, Message: statusMessage, StatusCode: code}
}

func parseError(err error) *FetchError {
	return &FetchError{Kind: ErrParse, Message: fmt.Sprintf("invalid analysis response: %v", err), Err: err}
}

func backendError(msg string) *FetchError {
	return &FetchError{Kind: ErrBackend, Message: fmt.Sprintf("analysis failed: %s", msg)}
}
