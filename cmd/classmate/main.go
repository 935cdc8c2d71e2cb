package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/classmate/internal/cli"
	"github.com/cloo-solutions/classmate/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "classmate",
		Short: "Classmate CLI - chat with the school helper",
		Long: `Classmate CLI talks to a classmated server.

Environment variables:
  CLASSMATE_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.FactsCmd())
	rootCmd.AddCommand(client.HintCmd())
	rootCmd.AddCommand(client.HomeworkCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
