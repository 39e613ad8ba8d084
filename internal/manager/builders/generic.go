package builders

import (
	"strings"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

// GenericBuilder emits the legacy flat schema for content without a more
// specific kind, kept for backward compatibility with pre-existing records.
type GenericBuilder struct {
	buildCtx BuildContext
}

// NewGenericBuilder creates a generic content builder.
func NewGenericBuilder(buildCtx BuildContext) *GenericBuilder {
	return &GenericBuilder{buildCtx: buildCtx}
}

// Kind returns the content kind this builder handles.
func (b *GenericBuilder) Kind() models.ContentKind {
	return models.KindGeneric
}

// RequiredFields returns the field names every generic record carries.
func (b *GenericBuilder) RequiredFields() []string {
	return []string{"post_title", "post_content"}
}

// Validate rejects chunks without content. Generic content has no source
// format requirement.
func (b *GenericBuilder) Validate(chunk *models.Chunk, _ *models.Metadata) error {
	if strings.TrimSpace(chunk.Content) == "" {
		return &ValidationError{Field: "post_content", Reason: "content is required"}
	}
	return nil
}

// Build produces the legacy flat-schema record for one chunk. post_type is
// the collection name.
func (b *GenericBuilder) Build(
	chunk *models.Chunk,
	collection string,
	meta *models.Metadata,
) (*models.ContentRecord, error) {
	if err := b.Validate(chunk, meta); err != nil {
		return nil, err
	}

	record := newRecord(models.KindGeneric, chunk, b.buildCtx)
	record.Fields["post_title"] = b.ExtractTitle(chunk, meta)
	record.Fields["post_content"] = chunk.Content
	record.Fields["post_type"] = collection
	record.Fields["post_status"] = "publish"
	record.Fields["post_date"] = record.IndexedAt.Format(time.RFC3339)

	if strings.TrimSpace(chunk.Source) != "" {
		record.Fields["url_source"] = chunk.Source
	}

	if meta != nil && meta.Generic != nil {
		gm := meta.Generic
		setOptional(record.Fields, "post_excerpt", gm.Excerpt)
		setOptional(record.Fields, "post_author", gm.Author)
		if gm.Status != nil && *gm.Status != "" {
			record.Fields["post_status"] = *gm.Status
		}
		if gm.Date != nil && *gm.Date != "" {
			record.Fields["post_date"] = *gm.Date
		}
	}

	return record, nil
}

// ExtractTitle derives a title: explicit metadata, then the first line under
// 100 characters, then truncated content.
func (b *GenericBuilder) ExtractTitle(chunk *models.Chunk, meta *models.Metadata) string {
	if meta != nil && meta.Generic != nil && meta.Generic.Title != nil {
		if title := strings.TrimSpace(*meta.Generic.Title); title != "" {
			return title
		}
	}

	if line := firstLine(chunk.Content, 1, 99, nil); line != "" {
		return line
	}

	return truncate(strings.TrimSpace(chunk.Content), 60)
}
