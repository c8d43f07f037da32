package core

import (
	"context"
	"fmt"
	"time"

	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// DefaultBatchSize is the number of records written per store call.
const DefaultBatchSize = 100

// DefaultStoreCallTimeout bounds one store call when none is configured.
const DefaultStoreCallTimeout = 30 * time.Second

// RecordWriter persists records. InsertBatch must be all-or-nothing.
type RecordWriter interface {
	InsertBatch(ctx context.Context, def EntityDefinition, records []Record) error
	InsertOne(ctx context.Context, def EntityDefinition, record Record) error
}

// Loader writes records in fixed-size batches. A rejected batch is retried
// one record at a time so a single bad record costs only itself.
type Loader struct {
	writer      RecordWriter
	batchSize   int
	callTimeout time.Duration
	metrics     *Metrics
}

// NewLoader creates a loader. Non-positive arguments select the defaults.
func NewLoader(w RecordWriter, batchSize int, callTimeout time.Duration) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if callTimeout <= 0 {
		callTimeout = DefaultStoreCallTimeout
	}
	return &Loader{writer: w, batchSize: batchSize, callTimeout: callTimeout}
}

// WithMetrics attaches metrics.
func (l *Loader) WithMetrics(m *Metrics) *Loader {
	l.metrics = m
	return l
}

// Load writes records and reports what was persisted. ctx is checked only
// between batches; a batch already started runs to completion on a context
// that ignores cancellation but still honors the per-call timeout. When ctx
// is cancelled the partial result is returned with ctx.Err().
func (l *Loader) Load(ctx context.Context, def EntityDefinition, records []Record) (LoadResult, error) {
	logger := logging.WithFields(ctx, "entity", def.Info.Key)
	result := LoadResult{Attempted: len(records)}

	for start := 0; start < len(records); start += l.batchSize {
		if err := ctx.Err(); err != nil {
			logger.Warn("load cancelled between batches",
				"loaded", result.Loaded,
				"remaining", len(records)-start,
			)
			return result, err
		}

		end := min(start+l.batchSize, len(records))
		batch := records[start:end]
		result.Batches++

		err := l.call(ctx, func(callCtx context.Context) error {
			return l.writer.InsertBatch(callCtx, def, batch)
		})
		if err == nil {
			result.Loaded += len(batch)
			l.observe(def, "batch", len(batch))
			logger.Debug("batch written", "batch", result.Batches, "records", len(batch))
			continue
		}

		result.FallbackBatches++
		logger.Warn("batch rejected, inserting records individually",
			"batch", result.Batches,
			"records", len(batch),
			"error", err,
		)
		if l.metrics != nil {
			l.metrics.BatchFallbacks.WithLabelValues(def.Info.Key).Inc()
		}

		for _, rec := range batch {
			err := l.call(ctx, func(callCtx context.Context) error {
				return l.writer.InsertOne(callCtx, def, rec)
			})
			if err == nil {
				result.Loaded++
				l.observe(def, "single", 1)
				continue
			}

			origin := rec.Origin()
			logger.Warn("record rejected",
				"ordinal", origin.Ordinal,
				"line", origin.Line,
				"name", rec.DisplayName(),
				"error", err,
			)
			result.Failed = append(result.Failed, FailedRow{
				FileName:   origin.SourceFile,
				LineNumber: origin.Line,
				Ordinal:    origin.Ordinal,
				Stage:      StageLoad,
				Reason:     fmt.Sprintf("insert: %v", err),
				Data:       origin.Raw,
			})
		}
	}

	return result, nil
}

// call runs fn detached from ctx cancellation and bounded by the call timeout.
func (l *Loader) call(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.callTimeout)
	defer cancel()
	return fn(callCtx)
}

func (l *Loader) observe(def EntityDefinition, mode string, n int) {
	if l.metrics != nil {
		l.metrics.RecordsLoaded.WithLabelValues(def.Info.Key, mode).Add(float64(n))
	}
}
