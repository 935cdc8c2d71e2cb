package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the assistant a single question",
		Long: `Sends one prompt to the model router. Use --section Investigations for
questions that need the reasoning model.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			user, _, _, err := profileFor("", "", "")
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")
			req := chatRequest{Prompt: strings.Join(args, " "), Section: section, User: user}
			return runAsk(cmd.Context(), api, cmd.OutOrStdout(), req, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&section, "section", "s", "", "Section: Knowledge or Investigations")
	return cmd
}

func runAsk(ctx context.Context, api *APIClient, out io.Writer, req chatRequest, outputJSON bool) error {
	var resp chatResponse
	if err := api.PostInto(ctx, "/chat", req, &resp); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	if outputJSON {
		return printJSON(out, resp)
	}
	fmt.Fprintln(out, resp.Reply)
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
