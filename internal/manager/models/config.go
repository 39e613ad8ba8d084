package models

import "errors"

var (
	ErrChunkSizeOutOfRange       = errors.New("chunk_size_tokens must be between 100 and 5000")
	ErrOverlapPercentOutOfRange  = errors.New("overlap_percent must be between 0 and 50")
	ErrBatchSizeOutOfRange       = errors.New("batch_size must be between 1 and 1000")
	ErrQPSOutOfRange             = errors.New("qps must be between 0.1 and 100")
	ErrChunkDurationNotPositive  = errors.New("chunk_duration_seconds must be positive")
	ErrMaxChunkCharsNotPositive  = errors.New("max_chunk_chars must be positive")
	ErrOverlapDurationNegative   = errors.New("overlap_duration_seconds must not be negative")
)

const (
	chunkSizeTokensDefault = 1000
	overlapPercentDefault  = 20
	batchSizeDefault       = 100
	qpsDefault             = 2.0

	chunkDurationSecondsDefault   = 60.0
	maxChunkCharsDefault          = 1000
	overlapDurationSecondsDefault = 5.0

	// Empirical ratio of tokens per character for English prose. The
	// character budget is the token budget divided by this ratio.
	tokensPerChar = 0.25
)

// Config is the read-only configuration snapshot for one pipeline run.
// It is constructed once by the caller and passed in explicitly; no
// component reads ambient state.
type Config struct {
	ChunkSizeTokens int     `json:"chunk_size_tokens"`
	OverlapPercent  int     `json:"overlap_percent"`
	BatchSize       int     `json:"batch_size"`
	QPS             float64 `json:"qps"`
	Tenant          string  `json:"tenant"`
	SiteIdentity    string  `json:"site_identity"`

	// Video path (time-based assembly).
	ChunkDurationSeconds   float64 `json:"chunk_duration_seconds"`
	MaxChunkChars          int     `json:"max_chunk_chars"`
	OverlapDurationSeconds float64 `json:"overlap_duration_seconds"`
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSizeTokens:        chunkSizeTokensDefault,
		OverlapPercent:         overlapPercentDefault,
		BatchSize:              batchSizeDefault,
		QPS:                    qpsDefault,
		ChunkDurationSeconds:   chunkDurationSecondsDefault,
		MaxChunkChars:          maxChunkCharsDefault,
		OverlapDurationSeconds: overlapDurationSecondsDefault,
	}
}

// Validate checks every tunable against its documented range.
func (c Config) Validate() error {
	if c.ChunkSizeTokens < 100 || c.ChunkSizeTokens > 5000 {
		return ErrChunkSizeOutOfRange
	}
	if c.OverlapPercent < 0 || c.OverlapPercent > 50 {
		return ErrOverlapPercentOutOfRange
	}
	if c.BatchSize < 1 || c.BatchSize > 1000 {
		return ErrBatchSizeOutOfRange
	}
	if c.QPS < 0.1 || c.QPS > 100 {
		return ErrQPSOutOfRange
	}
	if c.ChunkDurationSeconds <= 0 {
		return ErrChunkDurationNotPositive
	}
	if c.MaxChunkChars <= 0 {
		return ErrMaxChunkCharsNotPositive
	}
	if c.OverlapDurationSeconds < 0 {
		return ErrOverlapDurationNegative
	}
	return nil
}

// TargetChars is the character budget per chunk derived from the token budget.
func (c Config) TargetChars() int {
	return int(float64(c.ChunkSizeTokens) / tokensPerChar)
}

// OverlapChars is the character budget for the overlap carried between chunks.
func (c Config) OverlapChars() int {
	return c.TargetChars() * c.OverlapPercent / 100
}
