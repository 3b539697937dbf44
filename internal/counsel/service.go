// Package counsel turns a finished classification into caregiver
// counselling, using a language model when one is configured and a
// deterministic fallback otherwise.
package counsel

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/llm"
)

// Advice sources.
const (
	SourceModel  = "model"
	SourceStatic = "static"
)

// Advice is counselling for one assessment.
type Advice struct {
	Summary      string   `json:"summary"`
	HomeCare     []string `json:"home_care"`
	WarningSigns []string `json:"warning_signs"`
	FollowUp     string   `json:"follow_up"`
	Source       string   `json:"source"`
}

// Config tunes model requests.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// Service produces Advice. The zero value is not usable; call NewService.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a counselling service. provider may be nil, in
// which case every call returns StaticAdvice.
func NewService(provider llm.Provider, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Service{provider: provider, cfg: cfg}
}

// ModelBacked reports whether a model is configured.
func (s *Service) ModelBacked() bool { return s.provider != nil }

// Advise returns counselling for c. It never fails: any model error is
// logged and the static advice is returned instead. The classification
// itself is never altered.
func (s *Service) Advise(ctx context.Context, c assessment.Classification, role Role) Advice {
	if s.provider == nil {
		return StaticAdvice(c, role)
	}

	adv, err := s.generate(ctx, c, role)
	if err != nil {
		zap.L().Warn("counsel: falling back to static advice",
			zap.String("result", c.ResultID),
			zap.Error(err),
		)
		return StaticAdvice(c, role)
	}
	return adv
}

func (s *Service) generate(ctx context.Context, c assessment.Classification, role Role) (Advice, error) {
	ctx = llm.WithPurpose(ctx, "counsel")

	req := llm.UserPrompt(systemPrompt(role), buildUserMessage(c, role), AdviceSchema)
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Advice{}, err
	}

	var out Advice
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Advice{}, &llm.InvalidResponseError{Content: resp.Content, Err: err}
	}
	out.Source = SourceModel
	// The danger signs are always shown, whatever the model returns.
	out.WarningSigns = mergeUnique(out.WarningSigns, generalDangerSigns)
	return out, nil
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if v != "" && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
