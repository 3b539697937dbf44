package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Err: &RateLimitError{}},
	)

	resp, err := mock.Generate(context.Background(), UserPrompt("sys", "first", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.TotalTokens != 15 || resp.StopReason != "end" {
		t.Fatalf("unexpected response %+v", resp)
	}

	_, err = mock.Generate(context.Background(), Request{})
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %T", err)
	}

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected UnavailableError on empty queue, got %T", err)
	}

	calls := mock.Calls()
	if len(calls) != 3 || calls[0].System != "sys" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]any{"summary": "x"}))
	_, err := mock.Generate(context.Background(), UserPrompt("", "", counselSchema()))
	var invalid *InvalidResponseError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidResponseError, got %T (%v)", err, err)
	}
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unlabelled" {
		t.Fatalf("got %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "counsel")); p != "counsel" {
		t.Fatalf("got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"mock", Config{Provider: ProviderMock}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: ProviderConfig{APIKey: "k"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: ProviderConfig{APIKey: "k"}}, false},
		{"unknown", Config{Provider: "llama"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Discover(t *testing.T) {
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg := DefaultConfig()
	if cfg.Discover() {
		t.Fatal("nothing to discover")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	if !cfg.Discover() || cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("discovered %+v", cfg)
	}

	explicit := Config{Provider: ProviderOpenAI}
	if explicit.Discover() {
		t.Fatal("explicit provider must not be replaced")
	}
}

func TestValidateResponse(t *testing.T) {
	schema := &Schema{
		Name: "test-validate",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"level": map[string]any{"type": "string", "enum": []any{"low", "high"}},
				"count": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"level"},
		},
	}
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{`{"level":"low","count":2}`, false},
		{`{"level":"high"}`, false},
		{`{"count":2}`, true},
		{`{"level":"medium"}`, true},
		{`{"level":"low","count":-1}`, true},
		{`{not json}`, true},
		{``, true},
	}
	for _, tt := range tests {
		err := validateResponse(schema, json.RawMessage(tt.raw))
		if (err != nil) != tt.wantErr {
			t.Errorf("validateResponse(%s) = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		var invalid *InvalidResponseError
		if err != nil && !errors.As(err, &invalid) {
			t.Errorf("validateResponse(%s): expected InvalidResponseError, got %T", tt.raw, err)
		}
	}

	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("nil schema: %v", err)
	}
}

func TestLookupCost(t *testing.T) {
	c, ok := LookupCost("gpt-4o-mini")
	if !ok {
		t.Fatal("expected gpt-4o-mini to be priced")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("cost = %v, want 0.75", got)
	}
	if _, ok := LookupCost("no-such-model"); ok {
		t.Fatal("unexpected price")
	}
}
