package client

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"
)

// HomeworkCmd creates the homework command group.
func HomeworkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homework",
		Short: "List or post homework",
	}
	cmd.AddCommand(homeworkListCmd())
	cmd.AddCommand(homeworkAddCmd())
	return cmd
}

func homeworkListCmd() *cobra.Command {
	var schoolID, grade string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List this week's homework for a class",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			_, schoolID, grade, err = profileFor("", schoolID, grade)
			if err != nil {
				return err
			}
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runHomeworkList(cmd.Context(), api, cmd.OutOrStdout(), schoolID, grade, outputJSON)
		},
	}
	cmd.Flags().StringVar(&schoolID, "school", "", "School ID")
	cmd.Flags().StringVar(&grade, "grade", "", "Grade")
	return cmd
}

func runHomeworkList(ctx context.Context, api *APIClient, out io.Writer, schoolID, grade string, outputJSON bool) error {
	q := url.Values{}
	if schoolID != "" {
		q.Set("school_id", schoolID)
	}
	if grade != "" {
		q.Set("grade", grade)
	}
	path := "/homework"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var entries []homeworkEntry
	if err := api.GetInto(ctx, path, &entries); err != nil {
		return fmt.Errorf("failed to list homework: %w", err)
	}
	if outputJSON {
		return printJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No homework listed for this week.")
		return nil
	}
	for _, hw := range entries {
		fmt.Fprintf(out, "• %s: %s\n", hw.Subject, hw.Description)
	}
	return nil
}

func homeworkAddCmd() *cobra.Command {
	var req homeworkRequest

	cmd := &cobra.Command{
		Use:   "add <subject> <description>",
		Short: "Post homework for a class",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			req.Subject, req.Description = args[0], args[1]

			var created homeworkEntry
			if err := api.PostInto(cmd.Context(), "/homework", req, &created); err != nil {
				return fmt.Errorf("failed to post homework: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s for grade %s (week of %s)\n",
				created.ID, created.Grade, created.WeekStart.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.SchoolID, "school", "", "School ID")
	cmd.Flags().StringVar(&req.Grade, "grade", "", "Grade")
	cmd.Flags().StringVar(&req.CreatedBy, "by", "", "Teacher name")
	cmd.Flags().StringVar(&req.WeekStart, "week", "", "Any day of the week, YYYY-MM-DD (default: this week)")
	_ = cmd.MarkFlagRequired("school")
	_ = cmd.MarkFlagRequired("grade")
	return cmd
}
