package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/pagination"
	"github.com/cloo-solutions/classmate/internal/repository"
	"github.com/cloo-solutions/classmate/internal/service"
	"github.com/spf13/cobra"
)

const curatePreviewChars = 160

// CurateCmd returns the curate command
func CurateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curate",
		Short: "List flagged assistant turns for review",
		Long: `List turns flagged for readability, length or negative feedback.
Reads the turn_logs table when a database is configured, otherwise the
JSON-lines turn log file.`,
		RunE: runCurate,
	}
	cmd.Flags().Duration("since", 7*24*time.Hour, "How far back to look")
	cmd.Flags().String("file", "", "Read this turn log file instead of the database")
	cmd.Flags().Bool("json", false, "Output as JSON lines")
	return cmd
}

func runCurate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, logger, err := setupCLI(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	window, _ := cmd.Flags().GetDuration("since")
	since := time.Now().UTC().Add(-window)
	file, _ := cmd.Flags().GetString("file")

	var turns []domain.TurnRecord
	if file == "" && cfg.HasDatabase() {
		pool, err := openDatabase(ctx, cfg, logger, "", false)
		if err != nil {
			return err
		}
		defer pool.Close()
		turns, err = allFlagged(ctx, repository.NewTurnLogRepository(pool), since)
		if err != nil {
			return err
		}
	} else {
		if file == "" {
			file = cfg.TurnLogPath
		}
		turns, err = flaggedFromFile(file, since)
		if err != nil {
			return err
		}
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, t := range turns {
			if err := enc.Encode(t); err != nil {
				return err
			}
		}
		return nil
	}
	writeCurationReport(cmd.OutOrStdout(), turns)
	return nil
}

type flaggedLister interface {
	ListFlagged(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) ([]domain.TurnRecord, error)
}

// allFlagged walks every page of flagged turns since the given time.
func allFlagged(ctx context.Context, lister flaggedLister, since time.Time) ([]domain.TurnRecord, error) {
	var (
		all    []domain.TurnRecord
		cursor *pagination.Cursor
	)
	for {
		rows, err := lister.ListFlagged(ctx, since, cursor, pagination.MaxLimit)
		if err != nil {
			return nil, err
		}
		page := pagination.NewPage(rows, pagination.MaxLimit,
			func(t domain.TurnRecord) string { return t.ID },
			func(t domain.TurnRecord) time.Time { return t.Timestamp })
		all = append(all, page.Items...)
		if !page.HasMore {
			return all, nil
		}
		if cursor, err = pagination.DecodeCursor(page.Cursor); err != nil {
			return nil, err
		}
	}
}

func flaggedFromFile(path string, since time.Time) ([]domain.TurnRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open turn log: %w", err)
	}
	defer f.Close()

	records, err := service.ReadTurnLog(f)
	if err != nil {
		return nil, err
	}
	var out []domain.TurnRecord
	for _, r := range service.FlaggedTurns(records) {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func writeCurationReport(w io.Writer, turns []domain.TurnRecord) {
	if len(turns) == 0 {
		fmt.Fprintln(w, "No flagged turns.")
		return
	}
	counts := map[string]int{}
	for _, t := range turns {
		for _, f := range t.Flags {
			counts[f]++
		}
		fmt.Fprintf(w, "%s  %-12s %-24s readability=%.1f length=%d\n",
			t.Timestamp.Format(time.RFC3339), t.User, strings.Join(t.Flags, ","), t.ReadabilityScore, t.Length)
		fmt.Fprintf(w, "    %s\n", preview(t.FinalReply))
	}
	fmt.Fprintf(w, "\n%d flagged turns (readability %d, length %d, negative feedback %d)\n",
		len(turns), counts[domain.FlagReadability], counts[domain.FlagLength], counts[domain.FlagNegativeFeedback])
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= curatePreviewChars {
		return text
	}
	return string([]rune(text)[:curatePreviewChars]) + "..."
}
