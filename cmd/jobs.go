package cmd

import (
	"context"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/internal/manager/repository"
	"github.com/code-sleuth/vecbridge-go/pkg/db"
	"github.com/code-sleuth/vecbridge-go/pkg/util"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	jobSource     string
	jobCollection string
	jobKind       string
	jobPayload    string
	jobListLimit  int
)

// jobsCmd represents the jobs command group.
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage queued processing requests",
	Long:  `Enqueue processing requests and inspect their status. Scheduling and execution belong to the host; these commands only manage queue state.`,
}

var jobsEnqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Enqueue a processing request",
	Run:   runJobsEnqueue,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently enqueued jobs",
	Run:   runJobsList,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsEnqueueCmd)
	jobsCmd.AddCommand(jobsListCmd)

	jobsEnqueueCmd.Flags().StringVarP(&jobSource, "source", "u", "", "Source URL or path (required)")
	jobsEnqueueCmd.Flags().StringVarP(&jobCollection, "collection", "c", "", "Target collection (required)")
	jobsEnqueueCmd.Flags().StringVarP(&jobKind, "kind", "k", "generic", "Content kind (generic, webpage, document, video)")
	jobsEnqueueCmd.Flags().StringVarP(&jobPayload, "payload", "p", "", "Inline content payload (optional)")
	for _, flag := range []string{"source", "collection"} {
		if err := jobsEnqueueCmd.MarkFlagRequired(flag); err != nil {
			return
		}
	}

	jobsListCmd.Flags().IntVarP(&jobListLimit, "limit", "n", 20, "Maximum number of jobs to list")
}

func runJobsEnqueue(_ *cobra.Command, _ []string) {
	logger := util.NewLogger(zerolog.InfoLevel)

	kind, err := models.ParseContentKind(jobKind)
	if err != nil {
		logger.Fatal().Err(err).Str("kind", jobKind).Msg("unknown content kind")
	}

	database, repo := jobRepository(logger)
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var payload *string
	if jobPayload != "" {
		payload = &jobPayload
	}

	job, err := repo.Enqueue(ctx, jobSource, jobCollection, kind, payload)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to enqueue job")
	}

	logger.Info().
		Str("job_id", job.ID).
		Str("source", job.Source).
		Str("collection", job.Collection).
		Str("kind", job.Kind).
		Msg("job enqueued")
}

func runJobsList(_ *cobra.Command, _ []string) {
	logger := util.NewLogger(zerolog.InfoLevel)

	database, repo := jobRepository(logger)
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	jobs, err := repo.List(ctx, jobListLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to list jobs")
	}

	for _, job := range jobs {
		event := logger.Info().
			Str("job_id", job.ID).
			Str("source", job.Source).
			Str("collection", job.Collection).
			Str("kind", job.Kind).
			Str("status", job.Status).
			Time("enqueued_at", job.EnqueuedAt)
		if job.Error != nil {
			event.Str("error", *job.Error)
		}
		event.Msg("job")
	}
	logger.Info().Int("count", len(jobs)).Msg("jobs listed")
}

func jobRepository(logger zerolog.Logger) (*db.DB, *repository.JobRepository) {
	database, err := db.NewConnection()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	return database, repository.NewJobRepository(database)
}
