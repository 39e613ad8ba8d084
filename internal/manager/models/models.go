package models

import (
	"errors"
	"time"
)

// ContentKind is the closed set of schema variants a record can carry.
type ContentKind int

const (
	KindGeneric ContentKind = iota
	KindWebpage
	KindDocument
	KindVideo
)

var ErrUnknownContentKind = errors.New("unknown content kind")

// String returns the wire name of the content kind.
func (k ContentKind) String() string {
	switch k {
	case KindWebpage:
		return "webpage"
	case KindDocument:
		return "document"
	case KindVideo:
		return "video"
	default:
		return "generic"
	}
}

// ParseContentKind maps a wire name back to a ContentKind.
func ParseContentKind(s string) (ContentKind, error) {
	switch s {
	case "webpage":
		return KindWebpage, nil
	case "document":
		return KindDocument, nil
	case "video":
		return KindVideo, nil
	case "generic", "":
		return KindGeneric, nil
	default:
		return KindGeneric, ErrUnknownContentKind
	}
}

// RawContent is extracted plain text (or raw WebVTT) handed to the pipeline.
// Immutable once constructed.
type RawContent struct {
	Text   string      `json:"text"`
	Source string      `json:"source"`
	Kind   ContentKind `json:"content_kind"`
}

// Chunk is a contiguous, possibly overlapping slice of normalized content
// sized for embedding. ChunkIndex is 0-based and dense per source+collection.
type Chunk struct {
	Content         string    `json:"content"`
	Source          string    `json:"source"`
	ChunkIndex      int       `json:"chunk_index"`
	CharacterCount  int       `json:"character_count"`
	EstimatedTokens int       `json:"estimated_token_count"`
	CreatedAt       time.Time `json:"created_at"`

	// Video-only fields, set by the time-based assembler.
	StartTime    *float64 `json:"start_time,omitempty"`
	EndTime      *float64 `json:"end_time,omitempty"`
	VideoCue     *string  `json:"video_cue,omitempty"`
	SegmentCount *int     `json:"segment_count,omitempty"`
}

// VttSegment is a single timestamped text segment parsed from a WebVTT cue.
type VttSegment struct {
	CueID     *string `json:"cue_id,omitempty"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Text      string  `json:"text"`
	Duration  float64 `json:"duration"`
}

// VideoMetadata carries optional fields supplied with video content.
type VideoMetadata struct {
	Title        *string  `json:"video_title,omitempty"`
	Speaker      *string  `json:"speaker,omitempty"`
	Description  *string  `json:"description,omitempty"`
	VideoFileURL *string  `json:"video_file_url,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
}

// DocumentMetadata carries optional fields supplied with document content.
type DocumentMetadata struct {
	Title        *string `json:"document_title,omitempty"`
	Author       *string `json:"author,omitempty"`
	FileType     *string `json:"file_type,omitempty"`
	CreationDate *string `json:"creation_date,omitempty"`
	FileSize     *int64  `json:"file_size,omitempty"`
	PageCount    *int    `json:"page_count,omitempty"`
}

// WebpageMetadata carries optional fields supplied with webpage content.
type WebpageMetadata struct {
	Title           *string `json:"post_title,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	PublishDate     *string `json:"publish_date,omitempty"`
	Author          *string `json:"author,omitempty"`
	SiteName        *string `json:"site_name,omitempty"`
	Language        *string `json:"language,omitempty"`
}

// GenericMetadata carries optional fields for the legacy flat schema.
type GenericMetadata struct {
	Title   *string `json:"post_title,omitempty"`
	Status  *string `json:"post_status,omitempty"`
	Date    *string `json:"post_date,omitempty"`
	Excerpt *string `json:"post_excerpt,omitempty"`
	Author  *string `json:"post_author,omitempty"`
}

// Metadata is the typed union of per-kind metadata. Only the member matching
// the content kind is consulted by a builder; the rest stay nil.
type Metadata struct {
	Video    *VideoMetadata    `json:"video,omitempty"`
	Document *DocumentMetadata `json:"document,omitempty"`
	Webpage  *WebpageMetadata  `json:"webpage,omitempty"`
	Generic  *GenericMetadata  `json:"generic,omitempty"`
}

// ContentRecord is the schema-shaped output of a content builder, ready for
// submission. Fields holds the kind-specific payload with empty optionals
// omitted; the remaining members are the shared envelope.
type ContentRecord struct {
	Kind         ContentKind    `json:"content_kind"`
	SourceURL    string         `json:"source_url"`
	ChunkIndex   int            `json:"chunk_index"`
	IndexedBy    string         `json:"indexed_by"`
	SiteIdentity string         `json:"site_identity"`
	Tenant       string         `json:"tenant"`
	IndexedAt    time.Time      `json:"indexed_at"`
	Fields       map[string]any `json:"fields"`
}

// Flatten merges the envelope and the kind-specific fields into the single
// flat map the store submission contract expects.
func (r *ContentRecord) Flatten() map[string]any {
	flat := make(map[string]any, len(r.Fields)+7)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat["content_kind"] = r.Kind.String()
	flat["source_url"] = r.SourceURL
	flat["chunk_index"] = r.ChunkIndex
	flat["indexed_by"] = r.IndexedBy
	flat["site_identity"] = r.SiteIdentity
	flat["indexed_at"] = r.IndexedAt.Format(time.RFC3339)
	if r.Tenant != "" {
		flat["tenant"] = r.Tenant
	}
	return flat
}

// SubmissionMeta rides along with every submitted document.
type SubmissionMeta struct {
	SystemTag  string `json:"system_tag"`
	Action     string `json:"action"`
	OriginSite string `json:"origin_site"`
}

// IndexDocument is one entry of a batch submission to the remote store.
type IndexDocument struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
	Meta SubmissionMeta `json:"meta"`
}

// BatchResult aggregates the outcome of one submission run. Errors never
// abort remaining batches; the caller decides whether they are fatal.
type BatchResult struct {
	IndexedCount int      `json:"indexed_count"`
	Errors       []string `json:"errors"`
}

// ProbeResult is the outcome of a store connectivity check.
type ProbeResult struct {
	Reachable       bool      `json:"reachable"`
	EndpointMasked  string    `json:"endpoint_masked"`
	SchemaAvailable bool      `json:"schema_available"`
	CheckedAt       time.Time `json:"checked_at"`
}

// Job is a queued processing request. The core only enqueues; scheduling,
// retries and job-state persistence belong to the host queue.
type Job struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Collection string     `json:"collection"`
	Kind       string     `json:"content_kind"`
	Payload    *string    `json:"payload,omitempty"`
	Status     string     `json:"status"`
	Error      *string    `json:"error,omitempty"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
