package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mkoval/citehound/internal/courtlistener"
	"github.com/mkoval/citehound/internal/model"
	"github.com/mkoval/citehound/internal/store"
)

// stubVerifier scripts the remote side of a pass.
type stubVerifier struct {
	lookupResults []courtlistener.CitationLookupResult
	lookupErr     error

	textResults []courtlistener.CitationLookupResult
	textErr     error

	searchResults []courtlistener.CaseMatch
	searchErr     error

	opinion    *courtlistener.Opinion
	opinionErr error

	validateCalls []string
	searchCalls   []string
	textCalls     []string
}

func (s *stubVerifier) ValidateCitation(ctx context.Context, citation string) ([]courtlistener.CitationLookupResult, error) {
	s.validateCalls = append(s.validateCalls, citation)
	return s.lookupResults, s.lookupErr
}

func (s *stubVerifier) SearchCaseName(ctx context.Context, caseName string) ([]courtlistener.CaseMatch, error) {
	s.searchCalls = append(s.searchCalls, caseName)
	return s.searchResults, s.searchErr
}

func (s *stubVerifier) LookupCitationsInText(ctx context.Context, text string) ([]courtlistener.CitationLookupResult, error) {
	s.textCalls = append(s.textCalls, text)
	return s.textResults, s.textErr
}

func (s *stubVerifier) FetchOpinion(ctx context.Context, clusterID int64) (*courtlistener.Opinion, error) {
	return s.opinion, s.opinionErr
}

func (s *stubVerifier) AbsoluteURL(relative string) string {
	return "https://caselaw.example.com" + relative
}

func listAll(t *testing.T, s store.Store) []*model.CitationRecord {
	t.Helper()
	records, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	return records
}

func TestRun_DirectCitationMatch(t *testing.T) {
	verifier := &stubVerifier{
		lookupResults: []courtlistener.CitationLookupResult{
			{
				NormalizedCitations: []string{"347 U.S. 483"},
				Status:              200,
				Clusters: []courtlistener.Cluster{
					{ID: 1, CaseName: "Brown v. Board of Education", AbsoluteURL: "/opinion/1/brown/"},
				},
			},
		},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	result, err := p.Run(context.Background(), "Brown v. Board of Education, 347 U.S. 483 (1954)")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}

	r := result.Records[0]
	if r.CitationStatus != model.StatusValid {
		t.Errorf("Expected citation status valid, got %s", r.CitationStatus)
	}
	if r.CaseNameStatus != model.StatusValid {
		t.Errorf("Expected case name status valid, got %s", r.CaseNameStatus)
	}
	if r.CaseIdentifier != "1" {
		t.Errorf("Expected case identifier '1', got %q", r.CaseIdentifier)
	}
	if !strings.HasSuffix(r.ExternalURL, "/opinion/1/brown/") {
		t.Errorf("Expected external URL ending in /opinion/1/brown/, got %q", r.ExternalURL)
	}
	if r.NormalizedCitation != "347 U.S. 483" {
		t.Errorf("Expected normalized citation, got %q", r.NormalizedCitation)
	}
	if r.CaseName != "Brown v. Board of Education" {
		t.Errorf("Expected case name from cluster, got %q", r.CaseName)
	}
	if len(verifier.validateCalls) != 1 || verifier.validateCalls[0] != "347 U.S. 483" {
		t.Errorf("Expected one lookup of '347 U.S. 483', got %v", verifier.validateCalls)
	}

	// The pass committed: the record is visible in the store.
	stored := listAll(t, records)
	if len(stored) != 1 || stored[0].ID != r.ID {
		t.Errorf("Expected the record committed to the store, got %d records", len(stored))
	}
}

func TestRun_EmptyClustersFallsBackToSearch(t *testing.T) {
	verifier := &stubVerifier{
		// 200 with empty clusters: "not found", not an error.
		lookupResults: []courtlistener.CitationLookupResult{{Status: 200}},
		searchResults: []courtlistener.CaseMatch{
			{ClusterID: 7, CaseName: "Some Case Near Miss", Court: "ca9", DateFiled: "1990-03-02"},
			{ClusterID: 8, CaseName: "Another Some Case", Court: "scotus", DateFiled: "1954-05-17"},
		},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	result, err := p.Run(context.Background(), "Some Case, 999 Z.9 999")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := result.Records[0]
	if r.CitationStatus != model.StatusInvalid {
		t.Errorf("Expected citation status invalid, got %s", r.CitationStatus)
	}
	if r.CaseNameStatus != model.StatusInvalid {
		t.Errorf("Expected case name status invalid, got %s", r.CaseNameStatus)
	}
	if r.CaseIdentifier != "" || r.ExternalURL != "" {
		t.Errorf("Expected no match fields, got id=%q url=%q", r.CaseIdentifier, r.ExternalURL)
	}
	if !strings.Contains(r.Notes, "Some Case Near Miss") || !strings.Contains(r.Notes, "Another Some Case") {
		t.Errorf("Expected both candidates in notes, got %q", r.Notes)
	}
	if !strings.Contains(r.Notes, "similar but not exact") {
		t.Errorf("Expected similar-but-not-exact marker, got %q", r.Notes)
	}
	if len(verifier.searchCalls) != 1 || verifier.searchCalls[0] != "Some Case" {
		t.Errorf("Expected one search for 'Some Case', got %v", verifier.searchCalls)
	}
}

func TestRun_ExactMatchIsByteExact(t *testing.T) {
	verifier := &stubVerifier{
		lookupResults: []courtlistener.CitationLookupResult{{Status: 200}},
		searchResults: []courtlistener.CaseMatch{
			// Trailing whitespace: NOT an exact match.
			{ClusterID: 3, CaseName: "Doe v. Roe ", AbsoluteURL: "/opinion/3/doe/"},
		},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	result, err := p.Run(context.Background(), "Doe v. Roe, 12 F.3d 345")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := result.Records[0]
	if r.CaseNameStatus != model.StatusInvalid {
		t.Errorf("Whitespace-differing name must not confirm: got %s", r.CaseNameStatus)
	}
	if r.CaseIdentifier != "" || r.ExternalURL != "" {
		t.Errorf("Expected match fields cleared, got id=%q url=%q", r.CaseIdentifier, r.ExternalURL)
	}
	if !strings.Contains(r.Notes, "Doe v. Roe ") {
		t.Errorf("Expected the near-miss recorded in notes, got %q", r.Notes)
	}
}

func TestRun_ExactMatchConfirmsAndRecordsOthers(t *testing.T) {
	verifier := &stubVerifier{
		lookupErr: &courtlistener.APIError{Kind: courtlistener.KindServer, StatusCode: 500},
		searchResults: []courtlistener.CaseMatch{
			{ClusterID: 11, CaseName: "Doe v. Roe Trucking", Court: "ca2", DateFiled: "2001-01-01"},
			{ClusterID: 12, CaseName: "Doe v. Roe", AbsoluteURL: "/opinion/12/doe/", Court: "scotus"},
		},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	result, err := p.Run(context.Background(), "Doe v. Roe, 12 F.3d 345")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := result.Records[0]
	if r.CitationStatus != model.StatusInvalid {
		t.Errorf("Lookup error resolves citation to invalid, got %s", r.CitationStatus)
	}
	if r.CaseNameStatus != model.StatusValid {
		t.Errorf("Exact name match should confirm, got %s", r.CaseNameStatus)
	}
	if r.CaseIdentifier != "12" {
		t.Errorf("Expected case identifier '12', got %q", r.CaseIdentifier)
	}
	if !strings.HasSuffix(r.ExternalURL, "/opinion/12/doe/") {
		t.Errorf("Expected external URL from the exact match, got %q", r.ExternalURL)
	}
	if !strings.Contains(r.Notes, "Doe v. Roe Trucking") {
		t.Errorf("Expected the other candidate recorded in notes, got %q", r.Notes)
	}
}

func TestRun_SearchErrorLeavesNotesUntouched(t *testing.T) {
	verifier := &stubVerifier{
		lookupResults: []courtlistener.CitationLookupResult{{Status: 200}},
		searchErr:     &courtlistener.APIError{Kind: courtlistener.KindRateLimited, StatusCode: 429},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	result, err := p.Run(context.Background(), "Doe v. Roe, 12 F.3d 345")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := result.Records[0]
	if r.CaseNameStatus != model.StatusInvalid {
		t.Errorf("Expected case name status invalid, got %s", r.CaseNameStatus)
	}
	if r.Notes != "" {
		t.Errorf("Notes must stay untouched on a search error, got %q", r.Notes)
	}
}

func TestRun_BlobLookupWhenExtractionFails(t *testing.T) {
	verifier := &stubVerifier{
		textResults: []courtlistener.CitationLookupResult{
			{
				NormalizedCitations: []string{"418 U.S. 683"},
				Status:              200,
				Clusters: []courtlistener.Cluster{
					{ID: 42, CaseName: "United States v. Nixon", AbsoluteURL: "/opinion/42/nixon/"},
				},
			},
		},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	// No citation-shaped token and no comma: local extraction fails.
	result, err := p.Run(context.Background(), "the nixon tapes ruling")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := result.Records[0]
	if r.CitationStatus != model.StatusValid || r.CaseNameStatus != model.StatusValid {
		t.Errorf("Expected both statuses valid, got %s/%s", r.CitationStatus, r.CaseNameStatus)
	}
	if r.CaseIdentifier != "42" {
		t.Errorf("Expected case identifier '42', got %q", r.CaseIdentifier)
	}
	if len(verifier.textCalls) != 1 {
		t.Errorf("Expected one blob lookup, got %d", len(verifier.textCalls))
	}
	if len(verifier.validateCalls) != 0 {
		t.Errorf("Expected no direct lookup when extraction fails, got %v", verifier.validateCalls)
	}
}

func TestRun_EverythingFails(t *testing.T) {
	verifier := &stubVerifier{
		textErr: &courtlistener.APIError{Kind: courtlistener.KindUnauthorized},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	result, err := p.Run(context.Background(), "nothing recognizable here")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := result.Records[0]
	if r.CitationStatus != model.StatusInvalid || r.CaseNameStatus != model.StatusInvalid {
		t.Errorf("Expected both statuses invalid, got %s/%s", r.CitationStatus, r.CaseNameStatus)
	}
	if r.CaseIdentifier != "" || r.ExternalURL != "" || r.Notes != "" {
		t.Errorf("Expected no match fields and no notes, got id=%q url=%q notes=%q",
			r.CaseIdentifier, r.ExternalURL, r.Notes)
	}
	if len(verifier.searchCalls) != 0 {
		t.Errorf("Expected no search without a case name, got %v", verifier.searchCalls)
	}
}

func TestRun_FailuresNeverAbortLaterLines(t *testing.T) {
	verifier := &stubVerifier{
		lookupErr: errors.New("boom"),
		searchErr: errors.New("boom"),
		textErr:   errors.New("boom"),
	}
	records := store.NewMemoryStore()

	text := "Doe v. Roe, 12 F.3d 345\n\nnothing here\nSmith v. Jones, 1 U.S. 1\n"
	p := NewPipeline(verifier, records)
	result, err := p.Run(context.Background(), text)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Lines != 3 {
		t.Errorf("Expected 3 non-empty lines attempted, got %d", result.Lines)
	}
	if len(result.Records) != 3 {
		t.Errorf("Expected 3 records despite failures, got %d", len(result.Records))
	}
	for _, r := range result.Records {
		if r.CitationStatus == model.StatusPending || r.CaseNameStatus == model.StatusPending {
			t.Errorf("Record %q left pending: %s/%s", r.OriginalText, r.CitationStatus, r.CaseNameStatus)
		}
	}
}

func TestRun_CommitAtomicityAndIdempotence(t *testing.T) {
	verifier := &stubVerifier{
		lookupResults: []courtlistener.CitationLookupResult{
			{Status: 200, Clusters: []courtlistener.Cluster{{ID: 1, CaseName: "Doe v. Roe", AbsoluteURL: "/opinion/1/"}}},
		},
	}
	records := store.NewMemoryStore()
	p := NewPipeline(verifier, records)

	// Two passes over the same input: store invariants hold after each.
	for pass := 0; pass < 2; pass++ {
		if _, err := p.Run(context.Background(), "Doe v. Roe, 12 F.3d 345"); err != nil {
			t.Fatalf("Pass %d failed: %v", pass, err)
		}

		for _, r := range listAll(t, records) {
			if r.OriginalText == "" {
				t.Error("Record with empty original text")
			}
			if r.CitationStatus == model.StatusPending || r.CaseNameStatus == model.StatusPending {
				t.Errorf("Committed record left pending: %s/%s", r.CitationStatus, r.CaseNameStatus)
			}
			if (r.CaseIdentifier == "") != (r.ExternalURL == "") {
				t.Errorf("Identifier and URL must be set together: id=%q url=%q", r.CaseIdentifier, r.ExternalURL)
			}
		}
	}

	if got := len(listAll(t, records)); got != 2 {
		t.Errorf("Expected 2 records after two passes, got %d", got)
	}
}

func TestRun_CancellationBetweenLines(t *testing.T) {
	verifier := &stubVerifier{
		lookupResults: []courtlistener.CitationLookupResult{{Status: 200}},
		searchResults: nil,
	}
	records := store.NewMemoryStore()
	p := NewPipeline(verifier, records)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Run(ctx, "Doe v. Roe, 12 F.3d 345\nSmith v. Jones, 1 U.S. 1")
	if err == nil {
		t.Fatal("Expected a cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in the chain, got %v", err)
	}
	if result == nil {
		t.Fatal("Expected the partial result alongside the cancellation error")
	}
	// Nothing pending may be durable.
	for _, r := range listAll(t, records) {
		if r.CitationStatus == model.StatusPending || r.CaseNameStatus == model.StatusPending {
			t.Errorf("Pending record committed during cancellation: %+v", r)
		}
	}
}

func TestRun_CommitFailureIsFatal(t *testing.T) {
	verifier := &stubVerifier{
		lookupResults: []courtlistener.CitationLookupResult{{Status: 200}},
	}
	records := &failingCommitStore{Store: store.NewMemoryStore()}
	p := NewPipeline(verifier, records)

	_, err := p.Run(context.Background(), "Doe v. Roe, 12 F.3d 345")
	if err == nil {
		t.Fatal("Expected commit failure to surface")
	}
	if !strings.Contains(err.Error(), "commit") {
		t.Errorf("Expected a commit error, got %v", err)
	}
}

// failingCommitStore wraps a store and fails every commit.
type failingCommitStore struct {
	store.Store
}

func (s *failingCommitStore) Commit(ctx context.Context) error {
	return errors.New("disk full")
}

func TestRun_FetchOpinions(t *testing.T) {
	verifier := &stubVerifier{
		lookupResults: []courtlistener.CitationLookupResult{
			{Status: 200, Clusters: []courtlistener.Cluster{{ID: 5, CaseName: "Doe v. Roe", AbsoluteURL: "/opinion/5/"}}},
		},
		opinion: &courtlistener.Opinion{ID: 5, PlainText: "It is so ordered."},
	}
	records := store.NewMemoryStore()

	p := NewPipeline(verifier, records)
	p.FetchOpinions = true

	result, err := p.Run(context.Background(), "Doe v. Roe, 12 F.3d 345")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Records[0].OpinionText != "It is so ordered." {
		t.Errorf("Expected opinion text populated, got %q", result.Records[0].OpinionText)
	}
}
