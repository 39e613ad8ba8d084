package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/code-sleuth/vecbridge-go/internal/manager/builders"
	"github.com/code-sleuth/vecbridge-go/internal/manager/chunkers"
	"github.com/code-sleuth/vecbridge-go/internal/manager/interfaces"
	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/rs/zerolog"
)

// indexedBy identifies this indexer in every record envelope.
const indexedBy = "vecbridge-go"

// IngestionEngine runs the full pipeline for one source: normalize, chunk,
// build records, derive IDs and submit. It is synchronous and holds no
// mutable state across invocations; concurrent runs over the same source
// must be serialized by the caller.
type IngestionEngine struct {
	cfg         models.Config
	sentence    *chunkers.SentenceChunker
	segmenter   *chunkers.VTTSegmenter
	timeChunker *chunkers.TimeChunker
	submitter   *Submitter
	store       interfaces.StoreClient
	logger      zerolog.Logger
}

// NewIngestionEngine creates an engine from a validated run config and a
// store client.
func NewIngestionEngine(cfg models.Config, store interfaces.StoreClient) (*IngestionEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sentence, err := chunkers.NewSentenceChunker(cfg)
	if err != nil {
		return nil, err
	}
	timeChunker, err := chunkers.NewTimeChunker(cfg)
	if err != nil {
		return nil, err
	}

	return &IngestionEngine{
		cfg:         cfg,
		sentence:    sentence,
		segmenter:   chunkers.NewVTTSegmenter(),
		timeChunker: timeChunker,
		submitter:   NewSubmitter(store, cfg),
		store:       store,
		logger:      util.NewLogger(zerolog.ErrorLevel),
	}, nil
}

// ProcessContent runs the pipeline for one piece of raw content. A chunk the
// builder rejects is skipped and reported while its siblings continue; batch
// errors are accumulated, never fatal. A VTT parse failure fails the run.
func (e *IngestionEngine) ProcessContent(
	ctx context.Context,
	raw *models.RawContent,
	collection string,
	meta *models.Metadata,
) (*interfaces.ProcessResult, error) {
	result := &interfaces.ProcessResult{
		Source:     raw.Source,
		Collection: collection,
	}

	chunks, err := e.chunk(raw)
	if err != nil {
		e.logger.Error().Err(err).Str("source", raw.Source).Msg("chunking failed")
		return nil, err
	}
	result.ChunkCount = len(chunks)

	if len(chunks) == 0 {
		e.logger.Info().Str("source", raw.Source).Msg("no content to index")
		return result, nil
	}

	builder := builders.ForKind(raw.Kind, builders.BuildContext{
		SiteIdentity: e.cfg.SiteIdentity,
		Tenant:       e.cfg.Tenant,
		IndexedBy:    indexedBy,
	})

	records := make([]*models.ContentRecord, 0, len(chunks))
	for _, chunk := range chunks {
		record, err := builder.Build(chunk, collection, meta)
		if err != nil {
			var vErr *builders.ValidationError
			if errors.As(err, &vErr) {
				e.logger.Warn().
					Str("source", raw.Source).
					Int("chunk_index", chunk.ChunkIndex).
					Str("field", vErr.Field).
					Msg("chunk failed validation, skipping")
				result.SkippedCount++
				result.Errors = append(result.Errors,
					fmt.Sprintf("chunk %d: %v", chunk.ChunkIndex, err))
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}
	result.BuiltCount = len(records)

	if len(records) == 0 {
		return result, nil
	}

	e.logger.Info().
		Str("source", raw.Source).
		Str("collection", collection).
		Int("records", len(records)).
		Int("batch_size", e.cfg.BatchSize).
		Msg("starting submission")

	batch := e.submitter.Submit(ctx, records, collection)
	result.IndexedCount = batch.IndexedCount
	result.Errors = append(result.Errors, batch.Errors...)

	return result, nil
}

// Probe checks store connectivity.
func (e *IngestionEngine) Probe(ctx context.Context) (*models.ProbeResult, error) {
	return e.store.Probe(ctx)
}

// DeleteSource removes a previously indexed source from a collection.
func (e *IngestionEngine) DeleteSource(ctx context.Context, source, collection string) error {
	return e.store.DeleteBySource(ctx, source, collection)
}

// chunk routes content to the right chunking path: video transcripts go
// through the VTT segmenter and time-based assembly, everything else through
// sentence chunking.
func (e *IngestionEngine) chunk(raw *models.RawContent) ([]*models.Chunk, error) {
	if raw.Kind == models.KindVideo {
		segments, err := e.segmenter.Parse(raw.Text)
		if err != nil {
			return nil, err
		}
		return e.timeChunker.ChunkSegments(segments, raw.Source), nil
	}
	return e.sentence.ChunkText(raw.Text, raw.Source)
}
