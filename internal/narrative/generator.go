// Package narrative turns a digest into briefing text through a
// text-generation provider, with deterministic fallbacks when the provider
// fails or there is nothing to summarize.
package narrative

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jimdaga/team-pulse/internal/digest"
	"github.com/jimdaga/team-pulse/internal/llm"
)

// Outcome tags how a briefing's text was produced.
type Outcome string

const (
	OutcomeGenerated           Outcome = "generated"
	OutcomeFallbackRateLimited Outcome = "fallback_rate_limited"
	OutcomeFallbackError       Outcome = "fallback_error"
	OutcomeNoData              Outcome = "no_data"
)

// Generator produces briefing text. Generate never returns an error: every
// provider failure becomes fallback text.
type Generator struct {
	provider llm.Provider
	prompt   *PromptTemplate
	logger   *slog.Logger
}

// NewGenerator creates a Generator. A nil prompt uses the embedded default.
func NewGenerator(provider llm.Provider, prompt *PromptTemplate, logger *slog.Logger) (*Generator, error) {
	if provider == nil {
		return nil, fmt.Errorf("narrative: provider is required")
	}
	if prompt == nil {
		var err error
		if prompt, err = DefaultPrompt(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, prompt: prompt, logger: logger}, nil
}

// Generate returns the briefing text for d covering period. An empty digest
// never reaches the provider. The provider is called at most once.
func (g *Generator) Generate(ctx context.Context, d digest.Digest, period string) (string, Outcome) {
	if d.Empty() {
		return NoDataText(period), OutcomeNoData
	}

	count := d.RecordCount()

	prompt, err := g.prompt.Render(d, period)
	if err != nil {
		g.logger.Error("Failed to render briefing prompt", "period", period, "error", err)
		return ErrorText(count, period), OutcomeFallbackError
	}

	text, err := g.provider.GenerateText(ctx, prompt)
	if err != nil {
		if llm.IsRateLimited(err) {
			g.logger.Warn("Briefing provider rate limited, using fallback",
				"period", period,
				"records", count,
				"error", err,
			)
			return RateLimitedText(count), OutcomeFallbackRateLimited
		}
		g.logger.Error("Briefing provider failed, using fallback",
			"period", period,
			"records", count,
			"error", err,
		)
		return ErrorText(count, period), OutcomeFallbackError
	}

	g.logger.Debug("Briefing generated", "period", period, "records", count, "chars", len(text))
	return text, OutcomeGenerated
}

// NoDataText is returned when the window holds no reports.
func NoDataText(period string) string {
	return fmt.Sprintf("No reports found for %s.", period)
}

// RateLimitedText is returned when the provider rejected the call for rate limiting.
func RateLimitedText(records int) string {
	return fmt.Sprintf("%d team members reported; AI summary temporarily unavailable.", records)
}

// ErrorText is returned for every other provider failure.
func ErrorText(records int, period string) string {
	return fmt.Sprintf("Unable to generate summary; %d reports submitted for %s.", records, period)
}
