package cmd

import (
	"context"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/stores"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var probeTimeout time.Duration

// probeCmd represents the probe command.
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check connectivity to the configured vector store",
	Long: `Probe the remote vector store endpoint and report whether it is
reachable and exposes its schema. Credentials are never printed; the
endpoint is masked down to scheme and host.`,
	Run: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second, "Timeout for the probe")
}

func runProbe(_ *cobra.Command, _ []string) {
	logger := util.NewLogger(zerolog.InfoLevel)

	store, err := stores.NewHTTPStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create store client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	result, err := store.Probe(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("probe failed")
	}

	logger.Info().
		Str("endpoint", result.EndpointMasked).
		Bool("reachable", result.Reachable).
		Bool("schema_available", result.SchemaAvailable).
		Time("checked_at", result.CheckedAt).
		Msg("store probe complete")
}
