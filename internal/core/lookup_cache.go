package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// NamedID is one row of a lookup table.
type NamedID struct {
	ID   int32
	Name string
}

// LookupSource performs the bulk reads that prime a LookupCache.
type LookupSource interface {
	ListFields(ctx context.Context) ([]NamedID, error)
	ListProjects(ctx context.Context, owner uuid.UUID) ([]NamedID, error)
}

// DefaultFieldLookup is used when the fields table cannot be read. It
// matches the two categories seeded by the schema migration.
var DefaultFieldLookup = []NamedID{
	{ID: 1, Name: "Private"},
	{ID: 2, Name: "Work"},
}

// defaultLookups holds the degraded-mode contents per entity type. Projects
// have no sensible default, so references stay unresolved.
var defaultLookups = map[EntityType][]NamedID{
	EntityField:   DefaultFieldLookup,
	EntityProject: nil,
}

// Lookup is an immutable name to id mapping. Keys keeps the source order
// so substring fallback is deterministic.
type Lookup struct {
	ids  map[string]int32
	keys []string
}

// NewLookup builds a Lookup. For names that normalize to the same key the
// first entry wins.
func NewLookup(entries []NamedID) Lookup {
	l := Lookup{
		ids:  make(map[string]int32, len(entries)),
		keys: make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		key := NormalizeKey(e.Name)
		if key == "" {
			continue
		}
		if _, dup := l.ids[key]; dup {
			continue
		}
		l.ids[key] = e.ID
		l.keys = append(l.keys, key)
	}
	return l
}

// ID looks up an already-normalized key.
func (l Lookup) ID(key string) (int32, bool) {
	id, ok := l.ids[key]
	return id, ok
}

// Keys returns normalized keys in source order.
func (l Lookup) Keys() []string {
	return l.keys
}

// Len returns the number of entries.
func (l Lookup) Len() int {
	return len(l.keys)
}

// LookupCache lazily loads one Lookup per entity type and keeps it until
// Invalidate. It is scoped to a single owner because projects are.
type LookupCache struct {
	source  LookupSource
	owner   uuid.UUID
	timeout time.Duration
	metrics *Metrics

	mu       sync.RWMutex
	entries  map[EntityType]Lookup
	degraded map[EntityType]bool

	// loadMu serializes priming so concurrent first calls read the store once.
	loadMu sync.Mutex
}

// NewLookupCache creates an empty cache. timeout bounds each priming read.
func NewLookupCache(source LookupSource, owner uuid.UUID, timeout time.Duration) *LookupCache {
	return &LookupCache{
		source:   source,
		owner:    owner,
		timeout:  timeout,
		entries:  make(map[EntityType]Lookup),
		degraded: make(map[EntityType]bool),
	}
}

// WithMetrics attaches metrics for degraded-mode reporting.
func (c *LookupCache) WithMetrics(m *Metrics) *LookupCache {
	c.metrics = m
	return c
}

// Get returns the lookup for t, priming it on first use. A failed read
// yields the built-in default for t and marks the cache degraded.
func (c *LookupCache) Get(ctx context.Context, t EntityType) Lookup {
	c.mu.RLock()
	l, ok := c.entries[t]
	c.mu.RUnlock()
	if ok {
		return l
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.RLock()
	l, ok = c.entries[t]
	c.mu.RUnlock()
	if ok {
		return l
	}

	l, err := c.load(ctx, t)
	degraded := err != nil
	if degraded {
		logging.FromContext(ctx).Warn("lookup cache priming failed, using built-in defaults",
			"entity", t,
			"default_entries", len(defaultLookups[t]),
			"error", err,
		)
		if c.metrics != nil {
			c.metrics.CacheDegraded.WithLabelValues(string(t)).Inc()
		}
		l = NewLookup(defaultLookups[t])
	} else {
		logging.FromContext(ctx).Debug("lookup cache primed", "entity", t, "entries", l.Len())
	}

	c.mu.Lock()
	c.entries[t] = l
	c.degraded[t] = degraded
	c.mu.Unlock()

	return l
}

func (c *LookupCache) load(ctx context.Context, t EntityType) (Lookup, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		rows []NamedID
		err  error
	)
	switch t {
	case EntityField:
		rows, err = c.source.ListFields(ctx)
	case EntityProject:
		rows, err = c.source.ListProjects(ctx, c.owner)
	default:
		return Lookup{}, ErrUnknownEntity
	}
	if err != nil {
		return Lookup{}, err
	}
	return NewLookup(rows), nil
}

// Invalidate drops cached lookups so the next Get reads the store again.
// With no arguments every entity type is dropped.
func (c *LookupCache) Invalidate(types ...EntityType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(types) == 0 {
		c.entries = make(map[EntityType]Lookup)
		c.degraded = make(map[EntityType]bool)
		return
	}
	for _, t := range types {
		delete(c.entries, t)
		delete(c.degraded, t)
	}
}

// Degraded lists entity types currently served from built-in defaults.
func (c *LookupCache) Degraded() []EntityType {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []EntityType
	for _, t := range []EntityType{EntityField, EntityProject} {
		if c.degraded[t] {
			out = append(out, t)
		}
	}
	return out
}
