// ABOUTME: Error kinds for the remote model services and their classification
// ABOUTME: Maps transport and API failures onto the pipeline's error taxonomy
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrServiceUnavailable means the model service could not be reached
	// or timed out.
	ErrServiceUnavailable = errors.New("model service unavailable")

	// ErrModelMismatch means the configured model name is not recognized
	// by the model service.
	ErrModelMismatch = errors.New("model not recognized by service")

	// ErrMalformedResponse means the service answered with an unexpected
	// payload shape, including vectors of the wrong dimensionality.
	ErrMalformedResponse = errors.New("malformed model response")
)

// classify maps an error returned by the OpenAI-compatible client onto
// one of the pipeline error kinds. Caller cancellation passes through
// untouched so an abandoned request is not reported as an outage.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrServiceUnavailable
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusNotFound:
			// Ollama reports unknown models as 404 on /v1 endpoints.
			return ErrModelMismatch
		case apiErr.HTTPStatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "model"):
			return ErrModelMismatch
		case apiErr.HTTPStatusCode >= 500:
			return ErrServiceUnavailable
		default:
			return ErrMalformedResponse
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode >= 500 || reqErr.HTTPStatusCode == 0 {
			return ErrServiceUnavailable
		}
		return ErrMalformedResponse
	}

	// Anything else is a transport-level failure (connection refused,
	// DNS, closed socket).
	return ErrServiceUnavailable
}

// retryable reports whether a classified error is worth another attempt.
// Model mismatches and malformed payloads are deterministic and retrying
// them only burns time.
func retryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
