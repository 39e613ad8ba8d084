package services

import (
	"context"
	"fmt"

	"github.com/code-sleuth/vecbridge-go/internal/manager/identity"
	"github.com/code-sleuth/vecbridge-go/internal/manager/interfaces"
	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	systemTag  = "vecbridge"
	bulkAction = "bulk-index"
)

// Submitter groups built records into fixed-size batches and submits them
// under a fixed-interval QPS cap. A failed batch is recorded and the run
// continues; there are no internal retries.
type Submitter struct {
	store     interfaces.StoreClient
	limiter   *rate.Limiter
	batchSize int
	origin    string
	logger    zerolog.Logger
}

// NewSubmitter creates a submitter for the given run config.
func NewSubmitter(store interfaces.StoreClient, cfg models.Config) *Submitter {
	// Burst of 1 turns the limiter into a fixed inter-request interval
	// rather than a burst bucket.
	return &Submitter{
		store:     store,
		limiter:   rate.NewLimiter(rate.Limit(cfg.QPS), 1),
		batchSize: cfg.BatchSize,
		origin:    cfg.SiteIdentity,
		logger:    util.NewLogger(zerolog.ErrorLevel),
	}
}

// Submit sends all records for a collection. Document IDs are derived from
// (source, collection, chunk_index), so resubmitting the same source upserts
// rather than duplicates.
func (s *Submitter) Submit(
	ctx context.Context,
	records []*models.ContentRecord,
	collection string,
) *models.BatchResult {
	result := &models.BatchResult{}
	if len(records) == 0 {
		return result
	}

	docs := make([]*models.IndexDocument, len(records))
	for i, record := range records {
		docs[i] = &models.IndexDocument{
			ID:   identity.GenerateID(record.SourceURL, collection, record.ChunkIndex),
			Data: record.Flatten(),
			Meta: models.SubmissionMeta{
				SystemTag:  systemTag,
				Action:     bulkAction,
				OriginSite: s.origin,
			},
		}
	}

	batchNum := 0
	for start := 0; start < len(docs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batchNum++

		if err := s.limiter.Wait(ctx); err != nil {
			// Context cancelled while throttled; report the remaining batches
			// as one error and stop.
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", batchNum, err))
			return result
		}

		count, err := s.store.SubmitBatch(ctx, docs[start:end])
		if err != nil {
			s.logger.Error().Err(err).Int("batch", batchNum).Msg("batch submission failed")
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", batchNum, err))
			continue
		}

		s.logger.Debug().Int("batch", batchNum).Int("indexed", count).Msg("batch indexed")
		result.IndexedCount += count
	}

	return result
}
