package cmd

import (
	"github.com/code-sleuth/vecbridge-go/pkg/util"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vecbridge",
	Short: "A CLI tool for chunking content and indexing it into a vector store",
	Long: `vecbridge normalizes and chunks text, transcripts, documents and web
pages, builds schema-shaped records, and submits them in rate-limited
batches to a remote vector index.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger := util.NewLogger(zerolog.ErrorLevel)
		logger.Fatal().Err(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// A missing .env is fine; configuration can come from the environment.
	if err := godotenv.Load(); err != nil {
		logger := util.NewLogger(zerolog.WarnLevel)
		logger.Warn().Msg("no .env file found, using environment variables")
	}
}
