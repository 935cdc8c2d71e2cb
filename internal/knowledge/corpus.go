package knowledge

import (
	"context"
	"time"

	"github.com/cloo-solutions/classmate/internal/domain"
	"github.com/cloo-solutions/classmate/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source supplies the raw bytes of one knowledge document.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// BuilderConfig configures a corpus Builder.
type BuilderConfig struct {
	// Structured is a JSON document flattened into facts. Optional.
	Structured Source
	// Text is a line-oriented document, one fact per line. Optional.
	Text Source
	// Tagger assigns topics. Defaults to the school topic table.
	Tagger *Tagger
	// MaxChunkChars bounds chunk length. Defaults to domain.MaxChunkChars.
	MaxChunkChars int
	// SourceTimeout bounds each source fetch. Zero means no extra timeout.
	SourceTimeout time.Duration
	Logger        *zap.Logger
}

// Builder assembles a corpus from a structured and a text source.
type Builder struct {
	cfg    BuilderConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.Tagger == nil {
		cfg.Tagger = defaultTagger
	}
	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = domain.MaxChunkChars
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cfg: cfg, logger: logger, now: time.Now}
}

type loadResult struct {
	facts []string
	stats domain.SourceStats
}

// Build fetches both sources concurrently and returns the chunked, tagged
// corpus. A missing or failing source is logged and contributes nothing;
// Build itself never fails. Structured facts precede text facts.
func (b *Builder) Build(ctx context.Context) *domain.Corpus {
	ctx, span := telemetry.StartSpan(ctx, "corpus.build", telemetry.SpanAttributes{Operation: "build"})
	defer span.End()

	var structured, text loadResult
	var g errgroup.Group
	g.Go(func() error {
		structured = b.load(ctx, b.cfg.Structured, Flatten)
		return nil
	})
	g.Go(func() error {
		text = b.load(ctx, b.cfg.Text, func(data []byte) []string { return ParseLines(string(data)) })
		return nil
	})
	_ = g.Wait()

	corpus := &domain.Corpus{
		Chunks:  make([]domain.KnowledgeChunk, 0, len(structured.facts)+len(text.facts)),
		BuiltAt: b.now().UTC(),
	}
	for _, res := range []*loadResult{&structured, &text} {
		if res.stats.Name == "" {
			continue
		}
		before := len(corpus.Chunks)
		corpus.Chunks = b.appendChunks(corpus.Chunks, res.facts)
		res.stats.Chunks = len(corpus.Chunks) - before
		corpus.Sources = append(corpus.Sources, res.stats)
	}

	b.logger.Info("knowledge corpus built",
		zap.Int("chunks", len(corpus.Chunks)),
		zap.Int("structured_facts", len(structured.facts)),
		zap.Int("text_facts", len(text.facts)),
	)
	return corpus
}

func (b *Builder) load(ctx context.Context, src Source, parse func([]byte) []string) loadResult {
	if src == nil {
		return loadResult{}
	}
	res := loadResult{stats: domain.SourceStats{Name: src.Name()}}
	ctx, span := telemetry.StartSpan(ctx, "corpus.fetch", telemetry.SpanAttributes{Source: src.Name(), Operation: "fetch"})
	defer span.End()

	if b.cfg.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.SourceTimeout)
		defer cancel()
	}

	data, err := src.Fetch(ctx)
	if err != nil {
		b.logger.Warn("knowledge source unavailable",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		telemetry.AddBreadcrumb(ctx, "knowledge", "source unavailable: "+src.Name())
		span.SetTag("error", err.Error())
		res.stats.Error = err.Error()
		return res
	}

	res.facts = parse(data)
	res.stats.Facts = len(res.facts)
	b.logger.Debug("knowledge source loaded",
		zap.String("source", src.Name()),
		zap.Int("facts", len(res.facts)),
	)
	return res
}

func (b *Builder) appendChunks(dst []domain.KnowledgeChunk, facts []string) []domain.KnowledgeChunk {
	for _, fact := range facts {
		for _, chunk := range ChunkFact(fact, b.cfg.MaxChunkChars) {
			dst = append(dst, domain.KnowledgeChunk{
				Text:   chunk,
				Topics: b.cfg.Tagger.Tag(chunk),
			})
		}
	}
	return dst
}

// BuildFromFacts chunks and tags already-extracted facts in order.
func (b *Builder) BuildFromFacts(facts []string) []domain.KnowledgeChunk {
	return b.appendChunks(nil, facts)
}
