package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrTransient covers transport failures, rate limits and provider 5xx.
	// The same request may succeed later.
	ErrTransient = errors.New("ai provider temporarily unavailable")
	// ErrRejected means the provider refused the request (bad key, bad model, bad input).
	ErrRejected = errors.New("ai provider rejected the request")
	// ErrMalformedResponse means the provider answered with something that is not a usable completion.
	ErrMalformedResponse = errors.New("ai provider returned a malformed response")
)

// Error pairs one of the sentinel kinds with the underlying cause.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Retryable reports whether repeating the call may succeed.
func (e *Error) Retryable() bool {
	return errors.Is(e.Kind, ErrTransient)
}

// IsRetryable reports whether err is a transient gateway failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: ErrTransient, Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &Error{Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Kind: ErrMalformedResponse, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: ErrTransient, Err: err}
	}

	return &Error{Kind: ErrMalformedResponse, Err: err}
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusTooManyRequests, status == http.StatusRequestTimeout, status >= 500:
		return ErrTransient
	case status >= 400:
		return ErrRejected
	default:
		return ErrMalformedResponse
	}
}
