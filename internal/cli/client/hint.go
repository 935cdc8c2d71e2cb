package client

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// HintCmd creates the hint command.
func HintCmd() *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "hint <questionId>",
		Short: "Show a hint for a quiz question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			q := url.Values{"questionId": {args[0]}, "hintLevel": {strconv.Itoa(level)}}
			var resp hintResponse
			if err := api.GetInto(cmd.Context(), "/hint?"+q.Encode(), &resp); err != nil {
				return fmt.Errorf("failed to fetch hint: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Hint)
			return nil
		},
	}
	cmd.Flags().IntVarP(&level, "level", "l", 0, "Hint level, 0 is the gentlest")
	return cmd
}
