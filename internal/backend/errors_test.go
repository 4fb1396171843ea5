package backend

import (
	"context"
	"errors"
	"testing"
)

func TestUpstreamErrorMessage(t *testing.T) {
	err := &UpstreamError{Provider: "google", StatusCode: 503, Message: "overloaded"}
	if got := err.Error(); got != "google upstream returned 503: overloaded" {
		t.Errorf("unexpected message %q", got)
	}

	wrapped := &UpstreamError{Provider: "openai", Err: context.DeadlineExceeded}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Error("expected UpstreamError to unwrap its cause")
	}
	if got := wrapped.Error(); got != "openai upstream request failed: context deadline exceeded" {
		t.Errorf("unexpected message %q", got)
	}
}
