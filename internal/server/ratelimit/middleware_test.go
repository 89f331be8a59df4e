package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteHeaders(t *testing.T) {
	w := httptest.NewRecorder()

	result := Result{
		Allowed:    true,
		Limit:      60,
		Remaining:  45,
		ResetAt:    time.Unix(1706012345, 0),
		RetryAfter: 0,
	}

	WriteHeaders(w, result)

	if got := w.Header().Get("X-RateLimit-Limit"); got != "60" {
		t.Errorf("X-RateLimit-Limit = %s, want 60", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "45" {
		t.Errorf("X-RateLimit-Remaining = %s, want 45", got)
	}
	if got := w.Header().Get("X-RateLimit-Reset"); got != "1706012345" {
		t.Errorf("X-RateLimit-Reset = %s, want 1706012345", got)
	}
	if got := w.Header().Get("Retry-After"); got != "" {
		t.Errorf("Retry-After should not be set for allowed requests, got %s", got)
	}
}

func TestWriteHeaders_RateLimited(t *testing.T) {
	w := httptest.NewRecorder()

	result := Result{
		Allowed:    false,
		Limit:      60,
		Remaining:  0,
		ResetAt:    time.Unix(1706012345, 0),
		RetryAfter: 30 * time.Second,
	}

	WriteHeaders(w, result)

	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %s, want 0", got)
	}
	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Retry-After = %s, want 30", got)
	}
}

func TestResponseWriter_InjectsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	result := Result{
		Allowed:   true,
		Limit:     60,
		Remaining: 59,
		ResetAt:   time.Unix(1706012345, 0),
	}

	rw := NewResponseWriter(rec, result)
	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatal(err)
	}

	if got := rec.Header().Get("X-RateLimit-Limit"); got != "60" {
		t.Errorf("X-RateLimit-Limit = %s, want 60", got)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
}
