package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dermtrack/dermtrack/internal/config"
	"github.com/dermtrack/dermtrack/internal/database"
)

// NewSessionCmd creates the session inspection command.
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect tracking sessions",
	}
	cmd.AddCommand(newSessionShowCmd())
	return cmd
}

func newSessionShowCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a tracking session and its check-ins",
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

			sessionRepo := database.NewSessionRepository(db)
			session, err := sessionRepo.GetByID(context.Background(), sessionID)
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}

			if full {
				return printJSON(session)
			}

			fmt.Printf("Session %s\n", session.ID)
			fmt.Printf("  Status:     %s\n", session.Status)
			fmt.Printf("  Started:    %s\n", session.StartDate.Format("2006-01-02"))
			fmt.Printf("  Check-ins:  %d\n", len(session.CheckIns))
			for _, c := range session.CheckIns {
				reliability := "unscored"
				if c.Reliability != nil {
					reliability = fmt.Sprintf("%.2f (%s)", c.Reliability.Score, c.Reliability.Level)
				}
				fmt.Printf("    day %-2d  %s  reliability %s\n",
					c.Day, c.CaptureDate.Format("2006-01-02"), reliability)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print the full session as JSON")
	return cmd
}
