package builders

import (
	"errors"
	"testing"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

func strPtr(s string) *string { return &s }

func testBuildContext() BuildContext {
	return BuildContext{
		SiteIdentity: "example.org",
		Tenant:       "acme",
		IndexedBy:    "vecbridge-go",
		Now:          func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func textChunk(content, source string, index int) *models.Chunk {
	return &models.Chunk{
		Content:    content,
		Source:     source,
		ChunkIndex: index,
	}
}

func TestForKindCoversAllKinds(t *testing.T) {
	buildCtx := testBuildContext()

	tests := []struct {
		kind models.ContentKind
	}{
		{kind: models.KindVideo},
		{kind: models.KindDocument},
		{kind: models.KindWebpage},
		{kind: models.KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			builder := ForKind(tt.kind, buildCtx)
			if builder == nil {
				t.Fatal("Expected non-nil builder")
			}
			if builder.Kind() != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, builder.Kind())
			}
			if len(builder.RequiredFields()) == 0 {
				t.Error("Expected at least one required field")
			}
		})
	}
}

func TestRecordEnvelope(t *testing.T) {
	builder := NewGenericBuilder(testBuildContext())
	chunk := textChunk("Some content to index.", "notes/today.txt", 2)

	record, err := builder.Build(chunk, "notes", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if record.SourceURL != "notes/today.txt" {
		t.Errorf("Expected source preserved, got %s", record.SourceURL)
	}
	if record.ChunkIndex != 2 {
		t.Errorf("Expected chunk index 2, got %d", record.ChunkIndex)
	}
	if record.IndexedBy != "vecbridge-go" {
		t.Errorf("Expected indexed_by from build context, got %s", record.IndexedBy)
	}
	if record.SiteIdentity != "example.org" {
		t.Errorf("Expected site identity from build context, got %s", record.SiteIdentity)
	}
	if record.Tenant != "acme" {
		t.Errorf("Expected tenant from build context, got %s", record.Tenant)
	}
	if !record.IndexedAt.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected injected clock to stamp indexed_at, got %v", record.IndexedAt)
	}
}

func TestValidationErrorType(t *testing.T) {
	builder := NewWebpageBuilder(testBuildContext())
	chunk := textChunk("content exists", "not-a-url", 0)

	_, err := builder.Build(chunk, "kb", nil)
	if err == nil {
		t.Fatal("Expected validation error for non-URL source")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if vErr.Field != "url_source" {
		t.Errorf("Expected field 'url_source', got %s", vErr.Field)
	}
}

func TestIsHTTPURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "https url", input: "https://example.com/page", expected: true},
		{name: "http url", input: "http://example.com", expected: true},
		{name: "relative path", input: "docs/file.pdf", expected: false},
		{name: "ftp scheme", input: "ftp://example.com/file", expected: false},
		{name: "scheme without host", input: "https://", expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHTTPURL(tt.input); got != tt.expected {
				t.Errorf("isHTTPURL(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	content := "x\nA line of a reasonable title length\nanother one"

	if got := firstLine(content, 10, 100, nil); got != "A line of a reasonable title length" {
		t.Errorf("Expected second line, got %q", got)
	}
	if got := firstLine(content, 200, 300, nil); got != "" {
		t.Errorf("Expected no qualifying line, got %q", got)
	}

	skip := func(line string) bool { return line == "A line of a reasonable title length" }
	if got := firstLine(content, 10, 100, skip); got != "" {
		t.Errorf("Expected skip filter to reject the line, got %q", got)
	}
}

func TestFilenameFromSource(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{name: "url with file", source: "https://example.com/docs/user-guide.pdf", expected: "user guide"},
		{name: "plain path", source: "reports/q3_summary.docx", expected: "q3 summary"},
		{name: "windows path", source: `C:\files\annual_report.pdf`, expected: "annual report"},
		{name: "no extension", source: "https://example.com/about", expected: "about"},
		{name: "root path", source: "https://example.com/", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filenameFromSource(tt.source); got != tt.expected {
				t.Errorf("filenameFromSource(%q) = %q, expected %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("Expected no truncation, got %q", got)
	}
	long := "a very long string that definitely exceeds the maximum allowed rune budget"
	got := truncate(long, 20)
	if len([]rune(got)) > 23 { // 20 runes plus ellipsis
		t.Errorf("Expected truncation to 20 runes plus ellipsis, got %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "english prose",
			content:  "This is a simple piece of English text about software engineering.",
			expected: "en",
		},
		{
			name:     "french prose",
			content:  "Le chat est dans la maison avec les enfants et il dort pour le moment.",
			expected: "fr",
		},
		{
			name:     "empty defaults to english",
			content:  "",
			expected: "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectLanguage(tt.content); got != tt.expected {
				t.Errorf("detectLanguage() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
