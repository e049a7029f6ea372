package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestEngineError_Is(t *testing.T) {
	err := NewEngineError(ErrCodeNavigation, "failed to load page", context.DeadlineExceeded)

	if !errors.Is(err, &EngineError{Code: ErrCodeNavigation}) {
		t.Error("Expected error to match by code")
	}
	if errors.Is(err, &EngineError{Code: ErrCodeTimeout}) {
		t.Error("Expected error not to match a different code")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Expected error to match its underlying error")
	}
}

func TestEngineError_Message(t *testing.T) {
	err := NewEngineError(ErrCodeMarkupRead, "outer html", errors.New("target closed"))
	want := "MARKUP_READ: outer html: target closed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := NewEngineError(ErrCodeNoURLs, "site loi", nil)
	if bare.Error() != "NO_URLS: site loi" {
		t.Errorf("unexpected message: %q", bare.Error())
	}
}

func TestEngineError_WithRetryAndDetail(t *testing.T) {
	err := NewEngineError(ErrCodeTimeout, "navigate", nil).WithRetry().WithDetail("url", "https://example.com")
	if !err.Retryable() {
		t.Error("Expected error to be retryable")
	}
	if err.Details["url"] != "https://example.com" {
		t.Errorf("Expected url detail, got %v", err.Details["url"])
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("scrape: %w", NewEngineError(ErrCodeBrowserStart, "launch", nil))
	if got := CodeOf(wrapped); got != ErrCodeBrowserStart {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeBrowserStart)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}
