package cmd

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/extractors"
	"github.com/code-sleuth/vecbridge-go/internal/manager/interfaces"
	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/internal/manager/services"
	"github.com/code-sleuth/vecbridge-go/internal/manager/stores"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	inputFile      string
	contentSource  string
	collectionName string
	contentKind    string
	chunkTokens    int
	overlapPct     int
	batchSize      int
	qps            float64
	tenant         string
	siteIdentity   string
	processTimeout time.Duration

	metaTitle    string
	metaAuthor   string
	metaSpeaker  string
	metaLanguage string
	metaExcerpt  string
)

// processCmd represents the process command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Chunk a piece of content and submit it to the vector index",
	Long: `Process one piece of content end to end: extract, normalize, chunk,
build schema-shaped records and submit them in rate-limited batches.

Examples:
  # Index a web page export
  vecbridge process --file page.html --source "https://example.com/post" --collection kb --kind webpage

  # Index a video transcript (WebVTT)
  vecbridge process --file talk.vtt --source "https://youtube.com/watch?v=abc123" --collection talks --kind video

  # Index a document with custom chunking
  vecbridge process --file report.txt --source "reports/q3.pdf" --collection docs --kind document --chunk-tokens 500 --overlap 10`,
	Run: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Input file to process (defaults to stdin)")
	processCmd.Flags().StringVarP(&contentSource, "source", "u", "", "Source URL or path of the content (required)")
	processCmd.Flags().StringVarP(&collectionName, "collection", "c", "", "Target collection (required)")
	processCmd.Flags().StringVarP(&contentKind, "kind", "k", "generic", "Content kind (generic, webpage, document, video)")
	processCmd.Flags().IntVarP(&chunkTokens, "chunk-tokens", "t", envInt("VECBRIDGE_CHUNK_TOKENS", 1000), "Token budget per chunk")
	processCmd.Flags().IntVar(&overlapPct, "overlap", envInt("VECBRIDGE_OVERLAP_PERCENT", 20), "Chunk overlap percentage")
	processCmd.Flags().IntVarP(&batchSize, "batch-size", "b", envInt("VECBRIDGE_BATCH_SIZE", 100), "Documents per submission batch")
	processCmd.Flags().Float64Var(&qps, "qps", envFloat("VECBRIDGE_QPS", 2.0), "Maximum submission requests per second")
	processCmd.Flags().StringVar(&tenant, "tenant", os.Getenv("VECBRIDGE_TENANT"), "Tenant label for multi-tenant stores")
	processCmd.Flags().StringVar(&siteIdentity, "site", os.Getenv("VECBRIDGE_SITE_IDENTITY"), "Originating site identity")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 5*time.Minute, "Timeout for the entire operation")

	processCmd.Flags().StringVar(&metaTitle, "title", "", "Title override for the content")
	processCmd.Flags().StringVar(&metaAuthor, "author", "", "Author of the content")
	processCmd.Flags().StringVar(&metaSpeaker, "speaker", "", "Speaker name (video content)")
	processCmd.Flags().StringVar(&metaLanguage, "language", "", "Content language code (webpage content)")
	processCmd.Flags().StringVar(&metaExcerpt, "excerpt", "", "Excerpt override (generic content)")

	for _, flag := range []string{"source", "collection"} {
		if err := processCmd.MarkFlagRequired(flag); err != nil {
			return
		}
	}
}

func runProcess(_ *cobra.Command, _ []string) {
	logger := util.NewLogger(zerolog.InfoLevel)

	kind, err := models.ParseContentKind(contentKind)
	if err != nil {
		logger.Fatal().Err(err).Str("kind", contentKind).Msg("unknown content kind")
	}

	cfg := models.DefaultConfig()
	cfg.ChunkSizeTokens = chunkTokens
	cfg.OverlapPercent = overlapPct
	cfg.BatchSize = batchSize
	cfg.QPS = qps
	cfg.Tenant = tenant
	cfg.SiteIdentity = siteIdentity
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	input, err := readInput(inputFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", inputFile).Msg("failed to read input")
	}

	raw, err := extractorForKind(kind).Extract(input, contentSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to extract content")
	}

	store, err := stores.NewHTTPStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create store client")
	}
	engine, err := services.NewIngestionEngine(cfg, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create engine")
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	result, err := engine.ProcessContent(ctx, raw, collectionName, buildMetadata(kind))
	if err != nil {
		logger.Fatal().Err(err).Msg("processing failed")
	}

	event := logger.Info().
		Str("source", result.Source).
		Str("collection", result.Collection).
		Int("chunks", result.ChunkCount).
		Int("built", result.BuiltCount).
		Int("skipped", result.SkippedCount).
		Int("indexed", result.IndexedCount)
	if len(result.Errors) > 0 {
		event.Strs("errors", result.Errors)
	}
	event.Msg("processing complete")
}

func extractorForKind(kind models.ContentKind) interfaces.Extractor {
	if kind == models.KindWebpage {
		return extractors.NewWebpageExtractor()
	}
	return extractors.NewPlainTextExtractor(kind)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// buildMetadata maps flag values onto the metadata variant for the kind.
func buildMetadata(kind models.ContentKind) *models.Metadata {
	meta := &models.Metadata{}
	switch kind {
	case models.KindVideo:
		meta.Video = &models.VideoMetadata{}
		setIfSet(&meta.Video.Title, metaTitle)
		setIfSet(&meta.Video.Speaker, metaSpeaker)
	case models.KindDocument:
		meta.Document = &models.DocumentMetadata{}
		setIfSet(&meta.Document.Title, metaTitle)
		setIfSet(&meta.Document.Author, metaAuthor)
	case models.KindWebpage:
		meta.Webpage = &models.WebpageMetadata{}
		setIfSet(&meta.Webpage.Title, metaTitle)
		setIfSet(&meta.Webpage.Author, metaAuthor)
		setIfSet(&meta.Webpage.Language, metaLanguage)
	default:
		meta.Generic = &models.GenericMetadata{}
		setIfSet(&meta.Generic.Title, metaTitle)
		setIfSet(&meta.Generic.Author, metaAuthor)
		setIfSet(&meta.Generic.Excerpt, metaExcerpt)
	}
	return meta
}

func setIfSet(dst **string, value string) {
	if value != "" {
		*dst = &value
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
