package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dermtrack/dermtrack/internal/analytics"
	"github.com/dermtrack/dermtrack/internal/config"
	"github.com/dermtrack/dermtrack/internal/database"
	"github.com/dermtrack/dermtrack/internal/services/ai"
	"github.com/dermtrack/dermtrack/internal/services/ingredients"
)

// NewReportCmd creates the report command with generate and show subcommands.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate or inspect session reports",
		Long:  "Generate a report directly from the database, bypassing the job queue, or show the stored report for a session.",
	}
	cmd.AddCommand(newReportGenerateCmd())
	cmd.AddCommand(newReportShowCmd())
	return cmd
}

func newReportGenerateCmd() *cobra.Command {
	var save bool
	var withSummary bool

	cmd := &cobra.Command{
		Use:   "generate <session-id>",
		Short: "Generate a report for a session",
		Long:  "Load the session from the database, run the full analysis, and print the report as JSON. Use --save to persist it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			ctx := context.Background()
			sessionRepo := database.NewSessionRepository(db)
			analysisRepo := database.NewAnalysisRepository(db)

			session, err := sessionRepo.GetByID(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			analyses, err := analysisRepo.GetForSession(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("get session analyses: %w", err)
			}
			history, err := analysisRepo.GetHistory(ctx, sessionID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: analysis history unavailable: %v\n", err)
				history = nil
			}

			var summaries analytics.SummaryProvider
			if withSummary {
				if cfg.OpenAIKey == "" {
					return fmt.Errorf("--with-summary requires OPENAI_API_KEY")
				}
				summaries = ai.NewOpenAIProviderWithConfig(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel)
			}

			generator := &analytics.Generator{
				Summaries:   summaries,
				Ingredients: ingredients.New(nil),
			}

			report := generator.Generate(ctx, analytics.ReportInput{
				Session:  *session,
				Analyses: analyses,
				History:  history,
			})
			if report == nil {
				return fmt.Errorf("session has fewer than 2 analyzed check-ins; nothing to report")
			}

			if save {
				reportRepo := database.NewReportRepository(db)
				if err := reportRepo.Save(ctx, report); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
				fmt.Fprintln(os.Stderr, "Report saved.")
			}

			return printJSON(report)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Persist the generated report to the database")
	cmd.Flags().BoolVar(&withSummary, "with-summary", false, "Include an LLM-generated summary (requires OPENAI_API_KEY)")
	return cmd
}

func newReportShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the stored report for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			reportRepo := database.NewReportRepository(db)
			report, err := reportRepo.GetBySessionID(context.Background(), sessionID)
			if err != nil {
				return fmt.Errorf("get report: %w", err)
			}
			if report == nil {
				fmt.Println("No report stored for this session. Use 'report generate' to create one.")
				return nil
			}
			return printJSON(report)
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
