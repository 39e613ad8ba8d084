package interfaces

import (
	"context"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

// ProcessResult represents the outcome of one full pipeline run for a source.
type ProcessResult struct {
	Source       string
	Collection   string
	ChunkCount   int
	BuiltCount   int
	SkippedCount int
	IndexedCount int
	Errors       []string
}

// Extractor turns raw bytes from a collaborator (file upload, HTTP fetch)
// into plain text ready for the pipeline. Extraction of binary formats is
// external; implementations here only cover text-shaped inputs.
type Extractor interface {
	// Extract produces RawContent from raw input bytes
	Extract(raw []byte, source string) (*models.RawContent, error)

	// GetContentKind returns the kind of content this extractor produces
	GetContentKind() models.ContentKind
}

// Chunker defines the interface for breaking normalized text into chunks.
type Chunker interface {
	// ChunkText splits text into overlapping chunks for the given source
	ChunkText(text, source string) ([]*models.Chunk, error)

	// GetChunkingStrategy returns the strategy name used by this chunker
	GetChunkingStrategy() string
}

// ContentBuilder turns a chunk plus metadata into a schema-shaped record.
// Implementations are pure given their inputs and the injected build context.
type ContentBuilder interface {
	// Kind returns the content kind this builder handles
	Kind() models.ContentKind

	// Build produces a ContentRecord for one chunk
	Build(chunk *models.Chunk, collection string, meta *models.Metadata) (*models.ContentRecord, error)

	// RequiredFields returns the field names every record of this kind carries
	RequiredFields() []string

	// Validate rejects chunks that cannot produce a valid record
	Validate(chunk *models.Chunk, meta *models.Metadata) error

	// ExtractTitle derives a human-readable title for the chunk
	ExtractTitle(chunk *models.Chunk, meta *models.Metadata) string
}

// StoreClient is the remote vector store collaborator. The wire protocol is
// owned by implementations; the core only depends on this contract.
type StoreClient interface {
	// SubmitBatch indexes one batch and returns the indexed document count
	SubmitBatch(ctx context.Context, docs []*models.IndexDocument) (int, error)

	// Probe checks connectivity and schema availability
	Probe(ctx context.Context) (*models.ProbeResult, error)

	// DeleteBySource removes every document of a source from a collection
	DeleteBySource(ctx context.Context, source, collection string) error
}

// JobQueue is the host-managed scheduling collaborator. The core enqueues
// work and never runs, retries, or persists jobs itself.
type JobQueue interface {
	// Enqueue records a processing request and returns it with a fresh ID
	Enqueue(ctx context.Context, source, collection string, kind models.ContentKind, payload *string) (*models.Job, error)

	// List returns the most recently enqueued jobs, newest first
	List(ctx context.Context, limit int) ([]models.Job, error)

	// MarkStarted transitions a job to running
	MarkStarted(ctx context.Context, jobID string) error

	// MarkFinished records a terminal state; errMsg is nil on success
	MarkFinished(ctx context.Context, jobID string, errMsg *string) error
}
