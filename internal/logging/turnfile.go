package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cloo-solutions/classmate/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TurnFile appends turn records to a JSON-lines file, one object per turn
// with no level, message or logger time of its own.
type TurnFile struct {
	logger *zap.Logger
	closer io.Closer
}

// OpenTurnFile opens path for appending, creating it and its directory.
func OpenTurnFile(path string) (*TurnFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create turn log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open turn log: %w", err)
	}
	t := NewTurnWriter(f)
	t.closer = f
	return t, nil
}

// NewTurnWriter writes turn records to w.
func NewTurnWriter(w io.Writer) *TurnFile {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "",
		LevelKey:       "",
		TimeKey:        "",
		NameKey:        "",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(w)), zapcore.InfoLevel)
	return &TurnFile{logger: zap.New(core)}
}

// WriteTurn appends one record.
func (t *TurnFile) WriteTurn(ctx context.Context, record *domain.TurnRecord) error {
	facts := record.RetrievedFacts
	if facts == nil {
		facts = []string{}
	}
	flags := record.Flags
	if flags == nil {
		flags = []string{}
	}
	t.logger.Info("",
		zap.Time("timestamp", record.Timestamp),
		zap.String("user", record.User),
		zap.Strings("retrieved_facts", facts),
		zap.String("raw_reply", record.RawReply),
		zap.String("final_reply", record.FinalReply),
		zap.Int("length", record.Length),
		zap.Float64("readability_score", record.ReadabilityScore),
		zap.Strings("flags", flags),
		zap.String("model", record.Model),
		zap.Int64("elapsed", record.ElapsedMS),
	)
	return nil
}

// Close flushes and closes the underlying file.
func (t *TurnFile) Close() error {
	_ = t.logger.Sync()
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}
