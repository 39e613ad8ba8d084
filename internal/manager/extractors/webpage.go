// Package extractors turns collaborator-supplied raw bytes into RawContent.
// Binary formats (PDF, DOCX) are extracted externally; these cover the
// text-shaped inputs the pipeline accepts directly.
package extractors

import (
	"errors"
	"strings"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/util"
	"github.com/rs/zerolog"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var ErrNoExtractableText = errors.New("no extractable text in input")

// WebpageExtractor converts raw HTML into markdown text for the pipeline.
type WebpageExtractor struct {
	markdownConverter *md.Converter
	logger            zerolog.Logger
}

// NewWebpageExtractor creates a webpage extractor.
func NewWebpageExtractor() *WebpageExtractor {
	return &WebpageExtractor{
		markdownConverter: md.NewConverter("", true, nil),
		logger:            util.NewLogger(zerolog.ErrorLevel),
	}
}

// GetContentKind returns the kind of content this extractor produces.
func (e *WebpageExtractor) GetContentKind() models.ContentKind {
	return models.KindWebpage
}

// Extract converts HTML bytes to markdown RawContent. Input that is not
// HTML passes through as plain text.
func (e *WebpageExtractor) Extract(raw []byte, source string) (*models.RawContent, error) {
	text := string(raw)

	if strings.Contains(text, "<") {
		markdown, err := e.markdownConverter.ConvertString(text)
		if err != nil {
			e.logger.Error().Err(err).Str("source", source).Msg("failed to convert HTML to markdown")
			return nil, err
		}
		text = markdown
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrNoExtractableText
	}

	return &models.RawContent{
		Text:   text,
		Source: source,
		Kind:   models.KindWebpage,
	}, nil
}
