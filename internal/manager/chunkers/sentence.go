package chunkers

import (
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/util"
	"github.com/rs/zerolog"

	"github.com/tiktoken-go/tokenizer"
)

const (
	// Trailing-unit buffers only need to cover the largest plausible overlap.
	sentenceTrailingMax = 3
	wordTrailingMax     = 20

	// A sentence-mode chunk larger than this multiple of the target triggers
	// the word-mode fallback.
	oversizeFactor = 1.5
)

// Boundary patterns, in declaration order. The candidate producing the most
// non-empty segments wins; ties go to the earlier pattern.
var (
	sentenceBoundary = regexp.MustCompile(`([.!?])\s+([A-Z])`)
	numberedBoundary = regexp.MustCompile(`(\.)\s+([0-9])`)
	paragraphBreak   = regexp.MustCompile(`\n{2,}`)
)

// SentenceChunker splits normalized text into sentence-like units and
// assembles them into target-sized chunks with a trailing overlap. When
// sentence assembly produces an oversized chunk it falls back to word mode.
type SentenceChunker struct {
	encoding     tokenizer.Codec
	targetChars  int
	overlapChars int
	logger       zerolog.Logger
}

// NewSentenceChunker creates a sentence chunker for the given run config.
func NewSentenceChunker(cfg models.Config) (*SentenceChunker, error) {
	logger := util.NewLogger(getLogLevelFromEnv())

	encoding, err := getTokenizerEncoding(getTokenizerFromEnv())
	if err != nil {
		logger.Error().Err(err).Msg("failed to get tokenizer")
		return nil, err
	}

	return &SentenceChunker{
		encoding:     encoding,
		targetChars:  cfg.TargetChars(),
		overlapChars: cfg.OverlapChars(),
		logger:       logger,
	}, nil
}

// GetChunkingStrategy returns the strategy name used by this chunker.
func (s *SentenceChunker) GetChunkingStrategy() string {
	return "sentence"
}

// ChunkText normalizes text and splits it into overlapping chunks. Empty
// input yields an empty chunk list, not an error.
func (s *SentenceChunker) ChunkText(text, source string) ([]*models.Chunk, error) {
	normalized := NormalizeText(text)
	if normalized == "" {
		s.logger.Debug().Str("source", source).Msg("empty content, nothing to chunk")
		return []*models.Chunk{}, nil
	}

	sentences := SplitSentences(normalized)
	pieces := s.assemble(sentences, sentenceTrailingMax)

	if s.hasOversized(pieces) {
		s.logger.Debug().
			Str("source", source).
			Int("target_chars", s.targetChars).
			Msg("oversized sentence chunk, falling back to word mode")
		words := strings.Fields(normalized)
		pieces = s.assemble(words, wordTrailingMax)
	}

	now := time.Now()
	chunks := make([]*models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &models.Chunk{
			Content:         piece,
			Source:          source,
			ChunkIndex:      i,
			CharacterCount:  utf8.RuneCountInString(piece),
			EstimatedTokens: s.countTokens(piece),
			CreatedAt:       now,
		})
	}
	return chunks, nil
}

// SplitSentences applies the three boundary patterns to the whole text and
// returns the segmentation with the most non-empty segments. If no pattern
// yields more than one segment the whole text is a single segment.
func SplitSentences(text string) []string {
	candidates := [][]string{
		splitAtBoundaries(text, sentenceBoundary),
		splitAtBoundaries(text, numberedBoundary),
		splitOnBreaks(text, paragraphBreak),
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) > len(best) {
			best = c
		}
	}

	if len(best) <= 1 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	return best
}

// splitAtBoundaries cuts after the boundary punctuation (submatch 1) and
// starts the next segment at the following capital/digit (submatch 2).
func splitAtBoundaries(text string, re *regexp.Regexp) []string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return trimNonEmpty([]string{text})
	}

	var segments []string
	prev := 0
	for _, m := range matches {
		end := m[3]  // just past the punctuation
		next := m[4] // at the first rune of the next unit
		segments = append(segments, text[prev:end])
		prev = next
	}
	segments = append(segments, text[prev:])
	return trimNonEmpty(segments)
}

func splitOnBreaks(text string, re *regexp.Regexp) []string {
	return trimNonEmpty(re.Split(text, -1))
}

func trimNonEmpty(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// assemble accumulates units into chunks of at most targetChars, seeding each
// new chunk with whole trailing units worth up to overlapChars. Units are
// never split; a unit always enters an empty buffer even when it alone
// exceeds the target, which guarantees forward progress.
func (s *SentenceChunker) assemble(units []string, trailingMax int) []string {
	var (
		chunks   []string
		current  string
		curLen   int
		trailing []string
	)

	for _, unit := range units {
		unitLen := utf8.RuneCountInString(unit)

		if current != "" && curLen+1+unitLen > s.targetChars {
			chunks = append(chunks, current)
			current, curLen = s.seedOverlap(trailing)
		}

		if current == "" {
			current = unit
			curLen = unitLen
		} else {
			current += " " + unit
			curLen += 1 + unitLen
		}

		trailing = append(trailing, unit)
		if len(trailing) > trailingMax {
			trailing = trailing[1:]
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// seedOverlap walks the trailing-unit buffer backward, prepending whole units
// until adding another would exceed the overlap budget. The most recent unit
// is always included when any overlap is configured, even if it alone
// exceeds the budget.
func (s *SentenceChunker) seedOverlap(trailing []string) (string, int) {
	if s.overlapChars == 0 || len(trailing) == 0 {
		return "", 0
	}

	var seed []string
	acc := 0
	for i := len(trailing) - 1; i >= 0; i-- {
		unitLen := utf8.RuneCountInString(trailing[i])
		if len(seed) > 0 && acc+1+unitLen > s.overlapChars {
			break
		}
		seed = append([]string{trailing[i]}, seed...)
		if acc == 0 {
			acc = unitLen
		} else {
			acc += 1 + unitLen
		}
	}

	return strings.Join(seed, " "), acc
}

func (s *SentenceChunker) hasOversized(pieces []string) bool {
	limit := int(oversizeFactor * float64(s.targetChars))
	for _, p := range pieces {
		if utf8.RuneCountInString(p) > limit {
			return true
		}
	}
	return false
}

// countTokens estimates the token count of text, falling back to a chars/4
// approximation when the tokenizer rejects the input.
func (s *SentenceChunker) countTokens(text string) int {
	ids, _, err := s.encoding.Encode(text)
	if err != nil {
		s.logger.Debug().Err(err).Msg("tokenizer failed, using character estimate")
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(ids)
}

// getTokenizerFromEnv returns the tokenizer name from environment or default.
func getTokenizerFromEnv() string {
	tokenizerName := os.Getenv("CHUNKER_TOKENIZER")
	if tokenizerName == "" {
		return "cl100k_base"
	}
	return tokenizerName
}

// getTokenizerEncoding returns the tokenizer encoding for the given name.
func getTokenizerEncoding(name string) (tokenizer.Codec, error) {
	switch strings.ToLower(name) {
	case "cl100k_base":
		return tokenizer.Get(tokenizer.Cl100kBase)
	case "p50k_base":
		return tokenizer.Get(tokenizer.P50kBase)
	case "r50k_base":
		return tokenizer.Get(tokenizer.R50kBase)
	default:
		// Default to cl100k_base for unknown tokenizers
		return tokenizer.Get(tokenizer.Cl100kBase)
	}
}

// getLogLevelFromEnv returns the log level from environment or default.
func getLogLevelFromEnv() zerolog.Level {
	logLevel := os.Getenv("CHUNKER_LOG_LEVEL")
	switch strings.ToLower(logLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.ErrorLevel
	}
}
