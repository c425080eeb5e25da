// Package llm generates an optional prose brief of a validation pass. The
// brief is presentation only: it never mutates records or statuses, and a
// failed generation is a warning, not an error.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkoval/citehound/internal/model"
)

// Provider generates a brief from a finished validation pass.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Brief generates a short markdown summary of the pass.
	Brief(ctx context.Context, req BriefRequest) (*BriefResponse, error)
}

// BriefRequest carries the records of one completed pass.
type BriefRequest struct {
	Records   []*model.CitationRecord
	Model     string
	MaxTokens int
}

// BriefResponse is the generated brief.
type BriefResponse struct {
	Brief      string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	Provider  string // "openai", "ollama", "" (disabled)
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int
}

// NewProvider builds a provider from configuration. An empty provider name
// returns nil, nil: the brief is disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// BuildPrompt renders the verification outcomes into the brief prompt.
func BuildPrompt(records []*model.CitationRecord) string {
	var b strings.Builder
	b.WriteString(`You are summarizing the outcome of a legal citation verification pass.

RULES:
1. Describe only the verification outcomes below. Do not speculate about the
   merits of any case, and do not invent citations or URLs.
2. Group the outcomes: verified citations, confirmed case names, and entries
   that could not be verified (including ambiguous candidates).
3. Keep it under 200 words of markdown.

Outcomes:
`)

	for _, r := range records {
		fmt.Fprintf(&b, "- %q: citation %s, case name %s", r.OriginalText, r.CitationStatus, r.CaseNameStatus)
		if r.NormalizedCitation != "" {
			fmt.Fprintf(&b, ", normalized %q", r.NormalizedCitation)
		}
		if r.Notes != "" {
			fmt.Fprintf(&b, ", notes: %s", r.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}
