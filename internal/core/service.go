package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// ServiceConfig holds the run settings a Service needs.
type ServiceConfig struct {
	Owner            uuid.UUID
	DataDir          string
	BatchSize        int
	StoreCallTimeout time.Duration
	RunTimeout       time.Duration
}

// ConfirmFunc asks whether a destructive step may proceed.
type ConfirmFunc func(prompt string) bool

// RunOptions controls one import run.
type RunOptions struct {
	Entity string

	// FilePath is the export to read; empty means discover it in the data dir.
	FilePath string

	// TruncateExisting deletes the owner's rows of this entity first.
	TruncateExisting bool

	// Force skips Confirm before truncating.
	Force bool

	// Confirm is asked before truncating unless Force is set. A nil Confirm
	// without Force declines, so unattended callers must opt in explicitly.
	Confirm ConfirmFunc

	// DryRun extracts and transforms without touching stored rows.
	DryRun bool

	// RunID is generated when empty.
	RunID string

	// All imports every registered entity through RunAll; Entity and
	// FilePath must be empty.
	All bool
}

// DefaultRunOptions returns options matching the CLI defaults.
func DefaultRunOptions(entity string) RunOptions {
	return RunOptions{Entity: entity, TruncateExisting: true}
}

// Service runs imports for one owner.
type Service struct {
	cfg      ServiceConfig
	store    Store
	cache    *LookupCache
	resolver *Resolver
	guard    *RunGuard
	metrics  *Metrics
}

// NewService creates a service. The lookup cache lives as long as the
// service and is invalidated by truncates and loads.
func NewService(store Store, cfg ServiceConfig) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.StoreCallTimeout <= 0 {
		cfg.StoreCallTimeout = DefaultStoreCallTimeout
	}

	metrics := DefaultMetrics()
	cache := NewLookupCache(store, cfg.Owner, cfg.StoreCallTimeout).WithMetrics(metrics)

	return &Service{
		cfg:      cfg,
		store:    store,
		cache:    cache,
		resolver: NewResolver(cache),
		guard:    NewRunGuard(),
		metrics:  metrics,
	}
}

// Cache exposes the lookup cache, e.g. for an explicit refresh.
func (s *Service) Cache() *LookupCache {
	return s.cache
}

// Guard exposes the in-process run guard.
func (s *Service) Guard() *RunGuard {
	return s.guard
}

// Owner returns the owner runs are scoped to.
func (s *Service) Owner() uuid.UUID {
	return s.cfg.Owner
}

// ResolveSource returns the file a run for def would read.
func (s *Service) ResolveSource(def EntityDefinition, path string) (string, error) {
	if path == "" {
		return DiscoverSource(s.cfg.DataDir, def.Info.FilePattern)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	return path, nil
}

// Run imports one entity. Row-level problems are reported in the result;
// an error means the run itself could not complete.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	def, ok := Get(opts.Entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, opts.Entity)
	}

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, opts.RunID)
	logger := logging.WithFields(ctx, "entity", def.Info.Key, "owner", s.cfg.Owner)

	path, err := s.ResolveSource(def, opts.FilePath)
	if err != nil {
		return nil, err
	}

	if !s.guard.TryAcquire(s.cfg.Owner, opts.RunID) {
		holder, _ := s.guard.Holder(s.cfg.Owner)
		logger.Warn("another import is running for this owner", "holder_run_id", holder)
		return nil, fmt.Errorf("%w: run %s", ErrRunInProgress, holder)
	}
	defer s.guard.Release(s.cfg.Owner)

	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	started := time.Now()
	result, err := s.run(ctx, def, path, opts)
	if result != nil {
		result.Duration = time.Since(started)
	}

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		logger.Error("import failed", "file", path, "error", err)
	case result.FailedCount() > 0:
		outcome = "partial"
	}
	s.metrics.RunsTotal.WithLabelValues(def.Info.Key, outcome).Inc()
	s.metrics.RunDuration.WithLabelValues(def.Info.Key).Observe(time.Since(started).Seconds())

	if err != nil {
		return result, err
	}

	logger.Info("import finished",
		"file", result.SourceFile,
		"rows", result.TotalRows,
		"skipped", result.Skipped,
		"loaded", result.Loaded,
		"failed", result.FailedCount(),
		"fallback_batches", result.FallbackBatch,
		"dry_run", result.DryRun,
		"duration", result.Duration,
	)
	if len(result.Degraded) > 0 {
		logger.Warn("lookups served from built-in defaults, references may be unresolved",
			"lookups", result.Degraded)
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, def EntityDefinition, path string, opts RunOptions) (*RunResult, error) {
	logger := logging.WithFields(ctx, "entity", def.Info.Key)
	result := &RunResult{
		RunID:      opts.RunID,
		Entity:     def.Info.Key,
		SourceFile: path,
		DryRun:     opts.DryRun,
	}

	if !opts.DryRun {
		var release func()
		if err := s.storeCall(ctx, func(ctx context.Context) error {
			var err error
			release, err = s.store.Lock(ctx, s.cfg.Owner)
			return err
		}); err != nil {
			return nil, err
		}
		defer release()
		s.metrics.RunsActive.Inc()
		defer s.metrics.RunsActive.Dec()

		if err := s.storeCall(ctx, func(ctx context.Context) error {
			return s.store.EnsureOwner(ctx, s.cfg.Owner)
		}); err != nil {
			return nil, err
		}
	}

	// Extraction runs before truncation so a file that cannot be read
	// leaves the stored rows untouched.
	extracted, err := NewExtractor(NewTransformer(s.cfg.Owner, s.resolver)).
		ExtractAndTransform(ctx, def, path)
	if err != nil {
		return nil, err
	}
	result.TotalRows = extracted.TotalRows
	result.Skipped = extracted.Skipped
	result.Transformed = len(extracted.Records)
	result.MissingColumns = extracted.MissingColumns
	result.Failed = append(result.Failed, extracted.Failed...)
	s.metrics.RowsExtracted.WithLabelValues(def.Info.Key).Add(float64(extracted.TotalRows))
	for _, f := range extracted.Failed {
		s.metrics.RowsFailed.WithLabelValues(def.Info.Key, f.Stage).Inc()
	}
	result.Degraded = s.cache.Degraded()

	if opts.DryRun {
		return result, nil
	}

	if opts.TruncateExisting {
		n, err := s.truncate(ctx, def, opts)
		if err != nil {
			return nil, err
		}
		result.Truncated = n
	}

	loader := NewLoader(s.store, s.cfg.BatchSize, s.cfg.StoreCallTimeout).WithMetrics(s.metrics)
	loaded, loadErr := loader.Load(ctx, def, extracted.Records)
	result.Loaded = loaded.Loaded
	result.FallbackBatch = loaded.FallbackBatches
	result.Failed = append(result.Failed, loaded.Failed...)
	for range loaded.Failed {
		s.metrics.RowsFailed.WithLabelValues(def.Info.Key, StageLoad).Inc()
	}

	// Loaded rows change what later entities resolve against.
	if loaded.Loaded > 0 {
		s.invalidate(def)
	}

	if loadErr != nil {
		return result, fmt.Errorf("load %s: %w", def.Info.Key, loadErr)
	}

	if err := s.storeCall(ctx, func(ctx context.Context) error {
		n, err := s.store.Count(ctx, def, s.cfg.Owner)
		result.FinalCount = n
		return err
	}); err != nil {
		logger.Warn("could not count rows after load", "error", err)
	}

	return result, nil
}

func (s *Service) truncate(ctx context.Context, def EntityDefinition, opts RunOptions) (int64, error) {
	if !opts.Force {
		prompt := fmt.Sprintf("Delete all existing %s for owner %s?", def.Info.Key, s.cfg.Owner)
		if opts.Confirm == nil || !opts.Confirm(prompt) {
			return 0, ErrTruncateDeclined
		}
	}

	var deleted int64
	err := s.storeCall(ctx, func(ctx context.Context) error {
		n, err := s.store.Truncate(ctx, def, s.cfg.Owner)
		deleted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("truncate %s: %w", def.Info.Key, err)
	}

	s.invalidate(def)
	logging.FromContext(ctx).Info("existing rows truncated", "entity", def.Info.Key, "deleted", deleted)
	return deleted, nil
}

// RunAll imports every registered entity in order, projects before tasks so
// task references resolve against freshly loaded projects. It stops at the
// first fatal error and returns the results gathered so far.
func (s *Service) RunAll(ctx context.Context, opts RunOptions) ([]*RunResult, error) {
	if opts.FilePath != "" {
		return nil, fmt.Errorf("%w: a single file path cannot be used for all entities", ErrInvalidOption)
	}
	opts.All = false

	var results []*RunResult
	for _, def := range All() {
		o := opts
		o.Entity = def.Info.Key
		o.RunID = ""
		res, err := s.Run(ctx, o)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, fmt.Errorf("%s: %w", def.Info.Key, err)
		}
	}
	return results, nil
}

// invalidate drops the lookups def makes stale. An entity without any
// leaves the cache alone; Invalidate with no arguments would clear it all.
func (s *Service) invalidate(def EntityDefinition) {
	if len(def.Info.Invalidates) > 0 {
		s.cache.Invalidate(def.Info.Invalidates...)
	}
}

// storeCall bounds fn with the configured per-call timeout.
func (s *Service) storeCall(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreCallTimeout)
	defer cancel()
	return fn(callCtx)
}
