package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dermtrack/dermtrack/cmd/dermctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "dermctl",
		Short: "Operations tool for the DermTrack API",
		Long:  "CLI tool for inspecting tracking sessions, generating reports offline, and managing the job queue",
	}

	rootCmd.AddCommand(commands.NewReportCmd())
	rootCmd.AddCommand(commands.NewSessionCmd())
	rootCmd.AddCommand(commands.NewQueueCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
