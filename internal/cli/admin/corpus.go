package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/knowledge"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CorpusCmd returns the corpus command group
func CorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Build and publish the knowledge corpus",
	}
	cmd.AddCommand(corpusBuildCmd())
	cmd.AddCommand(corpusPublishCmd())
	return cmd
}

func corpusBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the corpus from the configured sources and print its stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, logger, err := setupCLI(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			s3Client, err := openS3(ctx, cfg)
			if err != nil {
				return err
			}
			tagger, err := loadTagger(cfg)
			if err != nil {
				return err
			}
			builder, err := newCorpusBuilder(cfg, s3Client, tagger, logger)
			if err != nil {
				return err
			}
			corpus := builder.Build(ctx)

			dump, _ := cmd.Flags().GetBool("chunks")
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return writeCorpusJSON(cmd.OutOrStdout(), corpus, dump)
			}
			writeCorpusStats(cmd.OutOrStdout(), corpus, dump)
			return nil
		},
	}
	cmd.Flags().Bool("chunks", false, "Include every chunk in the output")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func corpusPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Upload a knowledge document to the S3 knowledge bucket",
		Long: `Upload a knowledge document so servers can load it with
CLASSMATE_KNOWLEDGE_JSON or CLASSMATE_KNOWLEDGE_TEXT set to s3://<bucket>/<key>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, logger, err := setupCLI(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			s3Client, err := openS3(ctx, cfg)
			if err != nil {
				return err
			}
			if s3Client == nil {
				return fmt.Errorf("S3 is not configured: set CLASSMATE_S3_ENDPOINT, CLASSMATE_S3_ACCESS_KEY_ID and CLASSMATE_S3_SECRET_ACCESS_KEY")
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			key, _ := cmd.Flags().GetString("key")
			if key == "" {
				key = filepath.Base(path)
			}

			// Reject documents that would build an empty corpus.
			facts := len(knowledge.Flatten(data))
			if filepath.Ext(path) != ".json" {
				facts = len(knowledge.ParseLines(string(data)))
			}
			if facts == 0 {
				return fmt.Errorf("%s contains no facts", path)
			}

			if err := s3Client.EnsureBucket(ctx); err != nil {
				return fmt.Errorf("failed to ensure bucket: %w", err)
			}
			if err := s3Client.PutObject(ctx, key, contentTypeFor(path), data); err != nil {
				return err
			}
			meta, err := s3Client.HeadObject(ctx, key)
			if err != nil {
				return err
			}
			logger.Info("knowledge document published", zap.String("key", key), zap.Int64("bytes", meta.ContentLength))
			fmt.Fprintf(cmd.OutOrStdout(), "published s3://%s/%s (%d facts, %d bytes)\n", s3Client.Bucket(), key, facts, meta.ContentLength)
			return nil
		},
	}
	cmd.Flags().String("key", "", "Object key (default: the file name)")
	return cmd
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "text/plain; charset=utf-8"
}

type corpusReport struct {
	Chunks  int                     `json:"chunks"`
	Topics  map[string]int          `json:"topics"`
	Sources []domain.SourceStats    `json:"sources"`
	Items   []domain.KnowledgeChunk `json:"items,omitempty"`
}

func writeCorpusJSON(w io.Writer, corpus *domain.Corpus, withChunks bool) error {
	report := corpusReport{Chunks: corpus.Len(), Topics: corpus.TopicCounts(), Sources: corpus.Sources}
	if withChunks {
		report.Items = corpus.Chunks
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeCorpusStats(w io.Writer, corpus *domain.Corpus, withChunks bool) {
	fmt.Fprintf(w, "chunks: %d\n", corpus.Len())
	for _, src := range corpus.Sources {
		if src.Error != "" {
			fmt.Fprintf(w, "  %s: failed (%s)\n", src.Name, src.Error)
			continue
		}
		fmt.Fprintf(w, "  %s: %d facts, %d chunks\n", src.Name, src.Facts, src.Chunks)
	}

	counts := corpus.TopicCounts()
	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	fmt.Fprintln(w, "topics:")
	for _, t := range topics {
		fmt.Fprintf(w, "  %-12s %d\n", t, counts[t])
	}

	if withChunks {
		fmt.Fprintln(w, "items:")
		for i, c := range corpus.Chunks {
			fmt.Fprintf(w, "%4d %v %s\n", i, c.Topics, c.Text)
		}
	}
}
