package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the three-state verification outcome shared by the citation and
// case-name fields of a record.
type Status string

const (
	StatusPending Status = "pending" // Not yet verified
	StatusValid   Status = "valid"   // Confirmed against the lookup service
	StatusInvalid Status = "invalid" // No confirming match found
)

// Severity classifies how a status should be presented.
type Severity string

const (
	SeverityNeutral Severity = "neutral"
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
)

// statusDisplay maps each status to its label and severity. A single lookup
// table serves both status fields.
var statusDisplay = map[Status]struct {
	Label    string
	Severity Severity
}{
	StatusPending: {"Pending", SeverityNeutral},
	StatusValid:   {"Valid", SeverityOK},
	StatusInvalid: {"Invalid", SeverityWarning},
}

// Label returns the human-readable label for the status.
func (s Status) Label() string {
	if d, ok := statusDisplay[s]; ok {
		return d.Label
	}
	return string(s)
}

// DisplaySeverity returns the presentation severity for the status.
func (s Status) DisplaySeverity() Severity {
	if d, ok := statusDisplay[s]; ok {
		return d.Severity
	}
	return SeverityNeutral
}

// CitationRecord is the persisted outcome of verifying one input line.
type CitationRecord struct {
	ID                 uuid.UUID `json:"id"`
	OriginalText       string    `json:"original_text"`
	NormalizedCitation string    `json:"normalized_citation,omitempty"` // Set only on a direct citation-lookup match
	CaseName           string    `json:"case_name,omitempty"`
	CitationStatus     Status    `json:"citation_status"`
	CaseNameStatus     Status    `json:"case_name_status"`
	CaseIdentifier     string    `json:"case_identifier,omitempty"` // External cluster id; set together with ExternalURL
	ExternalURL        string    `json:"external_url,omitempty"`
	OpinionText        string    `json:"opinion_text,omitempty"` // Full ruling text, populated only when fetched
	Notes              string    `json:"notes,omitempty"`        // Candidate matches when no single match was exact
	Timestamp          time.Time `json:"timestamp"`
}

// NewCitationRecord creates a record for one raw input line with both
// statuses pending.
func NewCitationRecord(originalText string) *CitationRecord {
	return &CitationRecord{
		ID:             uuid.New(),
		OriginalText:   originalText,
		CitationStatus: StatusPending,
		CaseNameStatus: StatusPending,
		Timestamp:      time.Now().UTC(),
	}
}

// SetMatch records a confirmed external match. CaseIdentifier and ExternalURL
// are always written together.
func (r *CitationRecord) SetMatch(caseID, absoluteURL string) {
	r.CaseIdentifier = caseID
	r.ExternalURL = absoluteURL
}

// ClearMatch removes a previously recorded external match.
func (r *CitationRecord) ClearMatch() {
	r.CaseIdentifier = ""
	r.ExternalURL = ""
}
