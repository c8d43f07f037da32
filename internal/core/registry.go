package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// EntityInfo describes an importable export file.
type EntityInfo struct {
	Key             string   // "projects"
	Label           string   // "Project", used for synthesized names
	FilePattern     string   // glob within the data directory
	Order           int      // position in an import-all run
	Columns         []string // expected header names
	IdentityColumns []string // rows blank across these are skipped

	// Invalidates lists lookup tables that go stale when this entity is
	// truncated or loaded.
	Invalidates []EntityType
}

// TransformFunc converts one source row into a record.
type TransformFunc func(ctx context.Context, rc RowContext, row SourceRow) (Record, error)

// CopyFunc writes records with the COPY protocol. It must be all-or-nothing.
type CopyFunc func(ctx context.Context, db DBTX, records []Record) (int64, error)

// InsertFunc writes a single record.
type InsertFunc func(ctx context.Context, db DBTX, record Record) error

// TruncateFunc deletes all of an owner's rows and returns the count deleted.
type TruncateFunc func(ctx context.Context, db DBTX, owner uuid.UUID) (int64, error)

// CountFunc counts an owner's rows.
type CountFunc func(ctx context.Context, db DBTX, owner uuid.UUID) (int64, error)

// EntityDefinition contains everything needed to import one entity.
type EntityDefinition struct {
	Info      EntityInfo
	Transform TransformFunc
	Copy      CopyFunc
	Insert    InsertFunc
	Truncate  TruncateFunc
	Count     CountFunc
}

// SupportsCopy reports whether batches can go through COPY instead of a
// transaction of single inserts.
func (d EntityDefinition) SupportsCopy() bool {
	return d.Copy != nil
}

var (
	registry   = make(map[string]EntityDefinition)
	registryMu sync.RWMutex
)

// Register adds an entity definition to the registry.
// Panics if an entity with the same key is already registered.
func Register(def EntityDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Info.Key))
	}
	if def.Transform == nil || def.Insert == nil {
		panic(fmt.Sprintf("entity %s: Transform and Insert are required", def.Info.Key))
	}

	registry[def.Info.Key] = def
}

// Get returns an entity definition by key.
func Get(key string) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered definitions in import order.
func All() []EntityDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]EntityDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Order != result[j].Info.Order {
			return result[i].Info.Order < result[j].Info.Order
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Keys returns registered entity keys in import order.
func Keys() []string {
	defs := All()
	keys := make([]string, len(defs))
	for i, d := range defs {
		keys[i] = d.Info.Key
	}
	return keys
}

// Clear removes all registered entities.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]EntityDefinition)
}
