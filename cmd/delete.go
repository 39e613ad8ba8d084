package cmd

import (
	"context"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/stores"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	deleteSource     string
	deleteCollection string
	deleteTimeout    time.Duration
)

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove all indexed chunks for a source from a collection",
	Long: `Delete every document previously indexed for a source within a
collection. Use this before re-indexing a source whose chunk count shrank,
so stale higher-index chunks do not linger.`,
	Run: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVarP(&deleteSource, "source", "u", "", "Source URL or path to delete (required)")
	deleteCmd.Flags().StringVarP(&deleteCollection, "collection", "c", "", "Collection to delete from (required)")
	deleteCmd.Flags().DurationVar(&deleteTimeout, "timeout", 30*time.Second, "Timeout for the operation")

	for _, flag := range []string{"source", "collection"} {
		if err := deleteCmd.MarkFlagRequired(flag); err != nil {
			return
		}
	}
}

func runDelete(_ *cobra.Command, _ []string) {
	logger := util.NewLogger(zerolog.InfoLevel)

	store, err := stores.NewHTTPStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create store client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	if err := store.DeleteBySource(ctx, deleteSource, deleteCollection); err != nil {
		logger.Fatal().Err(err).
			Str("source", deleteSource).
			Str("collection", deleteCollection).
			Msg("delete failed")
	}

	logger.Info().
		Str("source", deleteSource).
		Str("collection", deleteCollection).
		Msg("source deleted")
}
