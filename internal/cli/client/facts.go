package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/knowledge"
	"github.com/cloo-solutions/classmate/internal/storage"
	"github.com/spf13/cobra"
)

type factsOptions struct {
	k          int
	normalized bool
	semantic   bool

	offline    bool
	structured string
	text       string
	topics     string
}

// FactsCmd creates the facts command.
func FactsCmd() *cobra.Command {
	var opts factsOptions

	cmd := &cobra.Command{
		Use:   "facts <query>",
		Short: "Show the school facts that best match a query",
		Long: `Ranks knowledge chunks by keyword and topic overlap.

With --offline the corpus is built locally from --json and --text instead
of asking the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			var (
				resp *factsResponse
				err  error
			)
			if opts.offline {
				resp, err = offlineFacts(cmd.Context(), args[0], opts)
			} else {
				var api *APIClient
				api, err = NewAPIClientWithCmd(cmd)
				if err != nil {
					return err
				}
				resp, err = remoteFacts(cmd.Context(), api, args[0], opts)
			}
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			printFacts(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.k, "k", "k", 3, "Number of facts to return")
	cmd.Flags().BoolVar(&opts.normalized, "normalized", false, "Scale scores to [0,1]")
	cmd.Flags().BoolVar(&opts.semantic, "semantic", false, "Use the server's embedding index")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Rank against local knowledge files")
	cmd.Flags().StringVar(&opts.structured, "json", "data/knowledge.json", "Structured knowledge file or URI (offline)")
	cmd.Flags().StringVar(&opts.text, "text", "data/knowledge.txt", "Line-oriented knowledge file or URI (offline)")
	cmd.Flags().StringVar(&opts.topics, "topics", "", "Topic table YAML (offline)")
	return cmd
}

func remoteFacts(ctx context.Context, api *APIClient, query string, opts factsOptions) (*factsResponse, error) {
	req := factsRequest{Query: query, K: opts.k, Normalized: opts.normalized, Semantic: opts.semantic}
	var resp factsResponse
	if err := api.PostInto(ctx, "/facts", req, &resp); err != nil {
		return nil, fmt.Errorf("facts request failed: %w", err)
	}
	return &resp, nil
}

func offlineFacts(ctx context.Context, query string, opts factsOptions) (*factsResponse, error) {
	if opts.semantic {
		return nil, fmt.Errorf("--semantic needs the server's embedding index")
	}

	tagger := knowledge.NewTagger(nil)
	if opts.topics != "" {
		table, err := knowledge.LoadTopicTable(opts.topics)
		if err != nil {
			return nil, err
		}
		tagger = knowledge.NewTagger(table)
	}

	sourceOpts := storage.OpenOptions{HTTPClient: &http.Client{Timeout: 10 * time.Second}}
	cfg := knowledge.BuilderConfig{Tagger: tagger, SourceTimeout: 10 * time.Second}
	structured, err := storage.Open(opts.structured, sourceOpts)
	if err != nil {
		return nil, err
	}
	if structured != nil {
		cfg.Structured = structured
	}
	text, err := storage.Open(opts.text, sourceOpts)
	if err != nil {
		return nil, err
	}
	if text != nil {
		cfg.Text = text
	}

	corpus := knowledge.NewBuilder(cfg).Build(ctx)
	ranker := knowledge.NewRanker(tagger)

	var facts []domain.ScoredFact
	if opts.normalized {
		facts = ranker.RankNormalized(query, corpus.Chunks, opts.k)
	} else {
		facts = ranker.Rank(query, corpus.Chunks, opts.k)
	}

	resp := &factsResponse{Query: query, Topics: ranker.QueryTopics(query), Facts: make([]scoredFact, len(facts))}
	for i, f := range facts {
		resp.Facts[i] = scoredFact{Text: f.Text, Topics: f.Topics, Score: f.Score}
	}
	return resp, nil
}

func printFacts(out io.Writer, resp *factsResponse) {
	if len(resp.Facts) == 0 {
		fmt.Fprintln(out, "No matching facts.")
		return
	}
	fmt.Fprintf(out, "Topics: %v\n\n", resp.Topics)
	for i, f := range resp.Facts {
		fmt.Fprintf(out, "%d. %s (%.2f)\n", i+1, f.Text, f.Score)
	}
}
