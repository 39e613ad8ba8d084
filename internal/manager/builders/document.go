package builders

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

// Noise lines that should never become a document title.
var (
	listItemPattern   = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s`)
	pageNumberPattern = regexp.MustCompile(`(?i)^(?:page\s+)?\d+(?:\s+of\s+\d+)?$`)
)

// DocumentBuilder builds records for extracted document chunks.
type DocumentBuilder struct {
	buildCtx BuildContext
}

// NewDocumentBuilder creates a document content builder.
func NewDocumentBuilder(buildCtx BuildContext) *DocumentBuilder {
	return &DocumentBuilder{buildCtx: buildCtx}
}

// Kind returns the content kind this builder handles.
func (b *DocumentBuilder) Kind() models.ContentKind {
	return models.KindDocument
}

// RequiredFields returns the field names every document record carries.
func (b *DocumentBuilder) RequiredFields() []string {
	return []string{"document_title", "document_content", "url_source"}
}

// Validate rejects chunks without content or without a URL or path source.
func (b *DocumentBuilder) Validate(chunk *models.Chunk, _ *models.Metadata) error {
	if strings.TrimSpace(chunk.Content) == "" {
		return &ValidationError{Field: "document_content", Reason: "content is required"}
	}
	if strings.TrimSpace(chunk.Source) == "" {
		return &ValidationError{Field: "url_source", Reason: "source URL or path is required"}
	}
	return nil
}

// Build produces the document-schema record for one chunk.
func (b *DocumentBuilder) Build(
	chunk *models.Chunk,
	collection string,
	meta *models.Metadata,
) (*models.ContentRecord, error) {
	if err := b.Validate(chunk, meta); err != nil {
		return nil, err
	}

	record := newRecord(models.KindDocument, chunk, b.buildCtx)
	record.Fields["document_title"] = b.ExtractTitle(chunk, meta)
	record.Fields["document_content"] = chunk.Content
	record.Fields["url_source"] = chunk.Source

	if ext := fileExtension(chunk.Source); ext != "" {
		record.Fields["file_extension"] = ext
	}

	if meta != nil && meta.Document != nil {
		dm := meta.Document
		setOptional(record.Fields, "author", dm.Author)
		setOptional(record.Fields, "file_type", dm.FileType)
		setOptional(record.Fields, "creation_date", dm.CreationDate)
		if dm.FileSize != nil && *dm.FileSize > 0 {
			record.Fields["file_size"] = *dm.FileSize
		}
		if dm.PageCount != nil && *dm.PageCount > 0 {
			record.Fields["page_count"] = *dm.PageCount
		}
	}

	return record, nil
}

// ExtractTitle derives a title: explicit metadata, then the first content
// line that is not list or page-number noise, then the source filename, then
// a part-numbered fallback.
func (b *DocumentBuilder) ExtractTitle(chunk *models.Chunk, meta *models.Metadata) string {
	if meta != nil && meta.Document != nil && meta.Document.Title != nil {
		if title := strings.TrimSpace(*meta.Document.Title); title != "" {
			return title
		}
	}

	skip := func(line string) bool {
		return listItemPattern.MatchString(line) || pageNumberPattern.MatchString(line)
	}
	if line := firstLine(chunk.Content, 10, 100, skip); line != "" {
		return line
	}

	if name := filenameFromSource(chunk.Source); name != "" {
		return titleCaseWords(name)
	}

	return fmt.Sprintf("Document (Part %d)", chunk.ChunkIndex+1)
}

// fileExtension returns the lower-cased source path suffix without the dot.
func fileExtension(source string) string {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := path.Ext(strings.ReplaceAll(p, "\\", "/"))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
