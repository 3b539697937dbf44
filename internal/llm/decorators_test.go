package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/imci/internal/store"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func down() MockResponse {
	return MockResponse{Err: &UnavailableError{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	invalid := MockResponse{Err: &InvalidResponseError{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		queue     []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down(), ok}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down(), ok}, true, 3},
		{"rate limit honours retry-after", []MockResponse{{Err: &RateLimitError{RetryAfter: time.Millisecond}}, ok}, false, 2},
		{"truncation not retried", []MockResponse{{Err: &TruncatedError{}}, ok}, true, 1},
		{"rejected request not retried", []MockResponse{{Err: &RequestError{Status: 401}}, ok}, true, 1},
		{"invalid response retried once", []MockResponse{invalid, invalid, ok}, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.queue...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if WithTimeout(slowProvider{}, 0).ModelID() != "slow" {
		t.Fatal("zero timeout should return the provider unchanged")
	}
}

func TestLogging_RecordsRequests(t *testing.T) {
	s, err := store.Open("file:llm_logging?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"ok","home_care":[]}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		down(),
	)
	p := WithLogging(mock, ProviderMock, s.Requests())
	ctx := WithPurpose(context.Background(), "counsel")

	if _, err := p.Generate(ctx, UserPrompt("sys", "hello", counselSchema())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, UserPrompt("sys", "again", nil)); err == nil {
		t.Fatal("expected error from empty queue")
	}

	rows, err := s.Requests().Recent(context.Background(), store.QueryOpts{Purpose: "counsel"})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	failed, succeeded := rows[0], rows[1]
	if !succeeded.Success || succeeded.InputTokens != 12 || succeeded.Model != "mock" {
		t.Fatalf("unexpected success row %+v", succeeded)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("unexpected failure row %+v", failed)
	}
	if want := "[system]\nsys\n\n[user]\nhello\n\n"; succeeded.RequestBody[:len(want)] != want {
		t.Fatalf("request body = %q", succeeded.RequestBody)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig(), nil)
	if err != nil || p != nil {
		t.Fatalf("unconfigured: got (%v, %v), want (nil, nil)", p, err)
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err = NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}

	cfg.Provider = ProviderAnthropic
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for missing anthropic key")
	}
}
