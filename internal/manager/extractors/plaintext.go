package extractors

import (
	"strings"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

// PlainTextExtractor passes already-extracted text (or raw WebVTT for video
// content) straight through as RawContent of a fixed kind.
type PlainTextExtractor struct {
	kind models.ContentKind
}

// NewPlainTextExtractor creates a passthrough extractor for the given kind.
func NewPlainTextExtractor(kind models.ContentKind) *PlainTextExtractor {
	return &PlainTextExtractor{kind: kind}
}

// GetContentKind returns the kind of content this extractor produces.
func (e *PlainTextExtractor) GetContentKind() models.ContentKind {
	return e.kind
}

// Extract wraps raw bytes as RawContent. Video content keeps its exact text
// so the VTT segmenter sees the original structure.
func (e *PlainTextExtractor) Extract(raw []byte, source string) (*models.RawContent, error) {
	text := string(raw)
	if e.kind != models.KindVideo && strings.TrimSpace(text) == "" {
		return nil, ErrNoExtractableText
	}

	return &models.RawContent{
		Text:   text,
		Source: source,
		Kind:   e.kind,
	}, nil
}
