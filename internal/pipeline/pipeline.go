// Package pipeline reconciles extracted citations against the verification
// service. Each input line flows through a fixed decision tree: local pattern
// extraction, direct citation lookup, server-side blob lookup, and a
// case-name search fallback, in that order of precedence. Every verification
// error counts as "no match" for its step; only a failed store commit is
// fatal to the pass.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mkoval/citehound/internal/courtlistener"
	"github.com/mkoval/citehound/internal/extract"
	"github.com/mkoval/citehound/internal/model"
	"github.com/mkoval/citehound/internal/store"
)

// Verifier is the remote-lookup contract the engine drives. Satisfied by
// *courtlistener.Client; stubbed in tests.
type Verifier interface {
	ValidateCitation(ctx context.Context, citation string) ([]courtlistener.CitationLookupResult, error)
	SearchCaseName(ctx context.Context, caseName string) ([]courtlistener.CaseMatch, error)
	LookupCitationsInText(ctx context.Context, text string) ([]courtlistener.CitationLookupResult, error)
	FetchOpinion(ctx context.Context, clusterID int64) (*courtlistener.Opinion, error)
	AbsoluteURL(relative string) string
}

// Pipeline is the reconciliation engine for one validation pass.
type Pipeline struct {
	extractor *extract.PatternExtractor
	verifier  Verifier
	records   store.Store

	// FetchOpinions pulls the full ruling text for confirmed matches.
	FetchOpinions bool
	// Log receives verbose progress output; nil discards it.
	Log io.Writer
}

// NewPipeline creates a reconciliation engine.
func NewPipeline(verifier Verifier, records store.Store) *Pipeline {
	return &Pipeline{
		extractor: extract.NewPatternExtractor(),
		verifier:  verifier,
		records:   records,
	}
}

// PassResult summarizes one validation pass.
type PassResult struct {
	Records []*model.CitationRecord
	Lines   int // Non-empty lines attempted
}

// Run processes every non-empty trimmed line of text sequentially and commits
// the batch as a single durable unit. Per-line ambiguity is a normal terminal
// outcome, never an error; the returned error is non-nil only when the final
// commit fails or the pass was cancelled between lines. Lines already
// processed when cancellation is observed are committed before returning, so
// no record is left pending.
func (p *Pipeline) Run(ctx context.Context, text string) (*PassResult, error) {
	result := &PassResult{}
	var cancelled error

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}

		record := p.processLine(ctx, line)
		result.Lines++
		if err := p.records.Insert(ctx, record); err != nil {
			p.logf("warning: insert %q: %v\n", line, err)
			continue
		}
		result.Records = append(result.Records, record)
	}

	if err := p.records.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit validation pass: %w", err)
	}
	if cancelled != nil {
		return result, fmt.Errorf("validation pass cancelled: %w", cancelled)
	}
	return result, nil
}

// processLine walks one line through the decision tree. The returned record
// always has both statuses terminal.
func (p *Pipeline) processLine(ctx context.Context, line string) *model.CitationRecord {
	record := model.NewCitationRecord(line)

	if candidate, ok := p.extractor.ExtractCaseNameAndCitation(line); ok {
		record.CaseName = candidate.CaseName
		p.logf("extracted %q / %q\n", candidate.CaseName, candidate.Citation)

		results, err := p.verifier.ValidateCitation(ctx, candidate.Citation)
		if first, found := firstClusterMatch(results, err); found {
			p.applyClusterMatch(ctx, record, first)
			return record
		}

		record.CitationStatus = model.StatusInvalid
		p.searchFallback(ctx, record, candidate.CaseName)
		return record
	}

	// Local extraction failed: let the service extract from the raw line.
	results, err := p.verifier.LookupCitationsInText(ctx, line)
	if first, found := firstClusterMatch(results, err); found {
		p.applyClusterMatch(ctx, record, first)
		return record
	}

	if name, ok := p.extractor.ExtractCaseName(line); ok {
		record.CaseName = name
		record.CitationStatus = model.StatusInvalid
		p.searchFallback(ctx, record, name)
		return record
	}

	record.CitationStatus = model.StatusInvalid
	record.CaseNameStatus = model.StatusInvalid
	return record
}

// firstClusterMatch reports whether a lookup succeeded with a first result
// that carries at least one cluster. Any lookup error is equivalent to "no
// match".
func firstClusterMatch(results []courtlistener.CitationLookupResult, err error) (courtlistener.CitationLookupResult, bool) {
	if err != nil || len(results) == 0 || len(results[0].Clusters) == 0 {
		return courtlistener.CitationLookupResult{}, false
	}
	return results[0], true
}

// applyClusterMatch fills a record from the first cluster of a successful
// lookup: both statuses valid, identifier and URL set together.
func (p *Pipeline) applyClusterMatch(ctx context.Context, record *model.CitationRecord, result courtlistener.CitationLookupResult) {
	cluster := result.Clusters[0]

	record.CitationStatus = model.StatusValid
	record.CaseNameStatus = model.StatusValid
	if len(result.NormalizedCitations) > 0 {
		record.NormalizedCitation = result.NormalizedCitations[0]
	}
	record.CaseName = cluster.CaseName
	record.SetMatch(strconv.FormatInt(cluster.ID, 10), p.verifier.AbsoluteURL(cluster.AbsoluteURL))

	p.fetchOpinion(ctx, record, cluster.ID)
}

// searchFallback reconciles a record by case name. Only a byte-for-byte
// equal name confirms the match; everything else lands in the notes.
func (p *Pipeline) searchFallback(ctx context.Context, record *model.CitationRecord, caseName string) {
	matches, err := p.verifier.SearchCaseName(ctx, caseName)
	if err != nil {
		// Notes stay untouched on a failed search.
		record.CaseNameStatus = model.StatusInvalid
		return
	}

	exactIdx := -1
	for i := range matches {
		if matches[i].CaseName == caseName {
			exactIdx = i
			break
		}
	}

	if exactIdx < 0 {
		record.CaseNameStatus = model.StatusInvalid
		record.ClearMatch()
		if len(matches) > 0 {
			record.Notes = formatCandidates("similar but not exact", matches)
		}
		return
	}

	exact := matches[exactIdx]
	record.CaseNameStatus = model.StatusValid
	record.SetMatch(strconv.FormatInt(exact.ClusterID, 10), p.verifier.AbsoluteURL(exact.AbsoluteURL))

	others := make([]courtlistener.CaseMatch, 0, len(matches)-1)
	for i := range matches {
		if i != exactIdx {
			others = append(others, matches[i])
		}
	}
	if len(others) > 0 {
		record.Notes = formatCandidates("additional candidates", others)
	}

	p.fetchOpinion(ctx, record, exact.ClusterID)
}

// fetchOpinion populates the full ruling text when enabled. Fetch failures
// never affect statuses.
func (p *Pipeline) fetchOpinion(ctx context.Context, record *model.CitationRecord, clusterID int64) {
	if !p.FetchOpinions {
		return
	}
	opinion, err := p.verifier.FetchOpinion(ctx, clusterID)
	if err != nil {
		p.logf("warning: fetch opinion %d: %v\n", clusterID, err)
		return
	}
	record.OpinionText = opinion.PlainText
}

// formatCandidates renders candidate matches for the notes field as
// "prefix: Name (forum, filed date); ...".
func formatCandidates(prefix string, matches []courtlistener.CaseMatch) string {
	entries := make([]string, 0, len(matches))
	for _, m := range matches {
		var details []string
		if m.Court != "" {
			details = append(details, m.Court)
		}
		if m.DateFiled != "" {
			details = append(details, "filed "+m.DateFiled)
		}
		if len(details) > 0 {
			entries = append(entries, fmt.Sprintf("%s (%s)", m.CaseName, strings.Join(details, ", ")))
		} else {
			entries = append(entries, m.CaseName)
		}
	}
	return prefix + ": " + strings.Join(entries, "; ")
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Log != nil {
		fmt.Fprintf(p.Log, format, args...)
	}
}
