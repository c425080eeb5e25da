// Package extract recovers case names and citation strings from single lines
// of text using ordered, best-effort pattern matching. It is pure and
// deterministic: no network calls, no guessing on ambiguous input.
package extract

import (
	"regexp"
	"strings"
)

// Candidate is a (case name, citation) pair recovered from one line.
type Candidate struct {
	CaseName string
	Citation string
}

// PatternExtractor extracts case names and citations with compiled patterns.
type PatternExtractor struct {
	// Citation-shaped token: volume, reporter abbreviation, page,
	// e.g. "534 F.3d 1290", "347 U.S. 483", "999 Z.9 999".
	citationPattern *regexp.Regexp

	// Two capitalized name phrases joined by "v.", "vs." or "versus".
	// The separator keyword is matched case-sensitively.
	caseNamePattern *regexp.Regexp
}

// NewPatternExtractor creates an extractor with compiled patterns.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{
		// Reporter abbreviations start with a letter and may contain
		// letters, digits and periods ("F.3d", "U.S.", "Cal.4th").
		citationPattern: regexp.MustCompile(`\d+\s+[A-Za-z][A-Za-z0-9.]*\s+\d+`),

		// Name phrases are runs of capitalized words; lowercase
		// connectors ("Board of Education") are allowed mid-phrase.
		caseNamePattern: regexp.MustCompile(`[A-Z][A-Za-z0-9.'&\-]*(?:\s+(?:[A-Z][A-Za-z0-9.'&\-]*|of|the|and))*?\s+(?:v\.|vs\.|versus)\s+[A-Z][A-Za-z0-9.'&\-]*(?:\s+(?:[A-Z][A-Za-z0-9.'&\-]*|of|the|and))*`),
	}
}

// ExtractCaseNameAndCitation attempts to recover both a case name and a
// citation from a line. The citation-first heuristic runs first: when a
// citation-shaped token is found and a comma precedes it, the case name is
// the text before the first comma. Otherwise it falls back to locating the
// "v." name pattern and searching the remainder of the line for a citation.
// Returns false unless both parts were recovered.
func (e *PatternExtractor) ExtractCaseNameAndCitation(line string) (Candidate, bool) {
	if loc := e.citationPattern.FindStringIndex(line); loc != nil {
		comma := strings.Index(line, ",")
		if comma >= 0 && comma < loc[0] {
			name := strings.TrimSpace(line[:comma])
			if name != "" {
				return Candidate{
					CaseName: name,
					Citation: line[loc[0]:loc[1]],
				}, true
			}
		}
	}

	// No citation preceded by a comma: anchor on the name pattern instead
	// and look for a citation in the text that follows it.
	nameLoc := e.caseNamePattern.FindStringIndex(line)
	if nameLoc == nil {
		return Candidate{}, false
	}

	rest := line[nameLoc[1]:]
	citation := e.citationPattern.FindString(rest)
	if citation == "" {
		return Candidate{}, false
	}

	return Candidate{
		CaseName: strings.TrimSpace(line[nameLoc[0]:nameLoc[1]]),
		Citation: citation,
	}, true
}

// ExtractCaseName isolates just the "v."/"vs."/"versus" name pattern,
// independent of any citation.
func (e *PatternExtractor) ExtractCaseName(line string) (string, bool) {
	name := e.caseNamePattern.FindString(line)
	if name == "" {
		return "", false
	}
	return strings.TrimSpace(name), true
}
