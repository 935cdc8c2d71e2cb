package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/classmate/internal/cli"
	"github.com/cloo-solutions/classmate/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "classmated",
		Short: "Classmate daemon and admin CLI",
		Long:  "Classmate daemon for running the API server, building the knowledge corpus and curating logged turns",
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.CorpusCmd())
	rootCmd.AddCommand(admin.CurateCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
