package doctext

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractText_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brief.txt")
	content := "Brown v. Board of Education, 347 U.S. 483 (1954)\nDoe v. Roe, 12 F.3d 345\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if got != content {
		t.Errorf("Expected file content verbatim, got %q", got)
	}
}

func TestExtractText_HTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brief.html")
	content := `<html><body>
	<p>Brown v. Board of Education, 347 U.S. 483 (1954)</p>
	<p>Doe v. Roe, 12 F.3d 345</p>
	<script>ignore_me();</script>
	</body></html>`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	// Block elements become separate lines so each citation stays on its own.
	lines := strings.Split(got, "\n")
	var nonEmpty []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(l))
		}
	}
	if len(nonEmpty) != 2 {
		t.Fatalf("Expected 2 text lines, got %d: %q", len(nonEmpty), nonEmpty)
	}
	if !strings.Contains(nonEmpty[0], "347 U.S. 483") {
		t.Errorf("Expected first citation line, got %q", nonEmpty[0])
	}
	if strings.Contains(got, "ignore_me") {
		t.Error("Script content leaked into extracted text")
	}
}

func TestExtractText_UnsupportedFormat(t *testing.T) {
	_, err := ExtractText("brief.pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractText_MissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("Expected ErrExtractionFailed, got %v", err)
	}
}
