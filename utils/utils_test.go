package utils

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStringSetNoDuplicates(t *testing.T) {
	s := NewStringSet()

	added := s.Add("In Stock")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("In Stock")
	if added {
		t.Error("second Add of same value should return false")
	}

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestStringSetKeepsInsertionOrder(t *testing.T) {
	s := NewStringSet("New", "Used", "New", "Refurbished")

	got := strings.Join(s.Values(), ",")
	if got != "New,Used,Refurbished" {
		t.Errorf("Values: got %q, want %q", got, "New,Used,Refurbished")
	}
	if !s.Contains("Used") || s.Contains("used") {
		t.Error("Contains must be exact-match")
	}
}

func TestStringSetNil(t *testing.T) {
	var s *StringSet
	if s.Contains("x") || s.Size() != 0 || s.Values() != nil {
		t.Error("nil set should behave as empty")
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NopLogger()}

	err := r.Do(context.Background(), "flaky", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("still down")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NopLogger()}

	err := r.Do(context.Background(), "fetch", func(context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, Logger: NopLogger()}

	calls := 0
	err := r.Do(ctx, "cancelled", func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestLoggerJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWith(LoggerOptions{Level: "warn", Format: "json", Out: &buf})

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"message":"shown 2"`) {
		t.Errorf("expected warn line in output, got %s", out)
	}
}
