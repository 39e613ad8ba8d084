package chunkers

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/util"
	"github.com/rs/zerolog"

	"github.com/tiktoken-go/tokenizer"
)

// TimeChunker assembles WebVTT segments into chunks bounded by both elapsed
// duration and text size, with a temporal overlap carried between chunks.
// Used only for video content.
type TimeChunker struct {
	encoding        tokenizer.Codec
	chunkDuration   float64
	maxChars        int
	overlapDuration float64
	logger          zerolog.Logger
}

// NewTimeChunker creates a time-based chunker for the given run config.
func NewTimeChunker(cfg models.Config) (*TimeChunker, error) {
	logger := util.NewLogger(getLogLevelFromEnv())

	encoding, err := getTokenizerEncoding(getTokenizerFromEnv())
	if err != nil {
		logger.Error().Err(err).Msg("failed to get tokenizer")
		return nil, err
	}

	return &TimeChunker{
		encoding:        encoding,
		chunkDuration:   cfg.ChunkDurationSeconds,
		maxChars:        cfg.MaxChunkChars,
		overlapDuration: cfg.OverlapDurationSeconds,
		logger:          logger,
	}, nil
}

// GetChunkingStrategy returns the strategy name used by this chunker.
func (t *TimeChunker) GetChunkingStrategy() string {
	return "time"
}

// ChunkSegments walks segments in order, finalizing a chunk once the elapsed
// duration since its first segment exceeds the duration budget or its text
// exceeds the size budget. The next chunk is seeded with the whole trailing
// segments whose start falls within the overlap window of the finalized
// chunk's end; segments are never split.
func (t *TimeChunker) ChunkSegments(segments []*models.VttSegment, source string) []*models.Chunk {
	if len(segments) == 0 {
		return []*models.Chunk{}
	}

	var (
		chunks  []*models.Chunk
		current []*models.VttSegment
		curLen  int
		fresh   bool
	)
	now := time.Now()

	finalize := func() {
		chunk := t.buildChunk(current, source, len(chunks), now)
		chunks = append(chunks, chunk)

		cutoff := *chunk.EndTime - t.overlapDuration
		var seed []*models.VttSegment
		for i := len(current) - 1; i >= 0; i-- {
			if current[i].StartTime < cutoff {
				break
			}
			seed = append([]*models.VttSegment{current[i]}, seed...)
		}

		current = seed
		curLen = 0
		for _, seg := range seed {
			curLen += utf8.RuneCountInString(seg.Text) + 1
		}
		fresh = false
	}

	for _, seg := range segments {
		current = append(current, seg)
		curLen += utf8.RuneCountInString(seg.Text) + 1
		fresh = true

		elapsed := seg.EndTime - current[0].StartTime
		if elapsed > t.chunkDuration || curLen > t.maxChars {
			finalize()
		}
	}

	// Flush the tail, but never emit a chunk that is nothing but overlap seed.
	if len(current) > 0 && fresh {
		finalize()
	}

	return chunks
}

func (t *TimeChunker) buildChunk(segs []*models.VttSegment, source string, index int, now time.Time) *models.Chunk {
	texts := make([]string, len(segs))
	for i, seg := range segs {
		texts[i] = seg.Text
	}
	content := strings.Join(texts, " ")

	start := segs[0].StartTime
	end := segs[len(segs)-1].EndTime
	cue := FormatVTTTimestamp(start) + " --> " + FormatVTTTimestamp(end)
	count := len(segs)

	return &models.Chunk{
		Content:         content,
		Source:          source,
		ChunkIndex:      index,
		CharacterCount:  utf8.RuneCountInString(content),
		EstimatedTokens: t.countTokens(content),
		CreatedAt:       now,
		StartTime:       &start,
		EndTime:         &end,
		VideoCue:        &cue,
		SegmentCount:    &count,
	}
}

func (t *TimeChunker) countTokens(text string) int {
	ids, _, err := t.encoding.Encode(text)
	if err != nil {
		t.logger.Debug().Err(err).Msg("tokenizer failed, using character estimate")
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(ids)
}
