// Package coretest provides an in-memory core.Store for tests.
package coretest

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

// ErrRejected is what the reject hooks usually return.
var ErrRejected = errors.New("rejected by test store")

// Row is a stored record with the id the store assigned it.
type Row struct {
	ID     int32
	Record core.Record
}

// MemStore keeps records per entity key. Batches are all-or-nothing like
// the real store. The exported hooks are read under the store's lock and
// must be set before use.
type MemStore struct {
	// Fields is returned by ListFields; nil means core.DefaultFieldLookup.
	Fields []core.NamedID

	// ProjectEntity is the entity key whose records ListProjects returns.
	ProjectEntity string

	// LookupErr makes both lookup reads fail.
	LookupErr error

	// RejectBatch and RejectRecord fail a write when they return non-nil.
	RejectBatch  func(records []core.Record) error
	RejectRecord func(record core.Record) error

	// AfterBatch runs after each accepted batch.
	AfterBatch func(size int)

	// TruncateErr makes Truncate fail.
	TruncateErr error

	// LockWait makes Lock block until ctx is done, like a lock query stuck
	// behind a saturated pool.
	LockWait bool

	mu      sync.Mutex
	rows    map[string][]Row
	nextID  int32
	locked  map[uuid.UUID]bool
	batches int
	singles int
	reads   map[string]int
	owners  map[uuid.UUID]bool
}

// NewMemStore returns an empty store that treats "projects" as the
// project entity.
func NewMemStore() *MemStore {
	return &MemStore{
		ProjectEntity: "projects",
		rows:          make(map[string][]Row),
		locked:        make(map[uuid.UUID]bool),
		reads:         make(map[string]int),
		owners:        make(map[uuid.UUID]bool),
	}
}

func (s *MemStore) ListFields(ctx context.Context) ([]core.NamedID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads["fields"]++

	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	if s.Fields == nil {
		return append([]core.NamedID(nil), core.DefaultFieldLookup...), nil
	}
	return append([]core.NamedID(nil), s.Fields...), nil
}

func (s *MemStore) ListProjects(ctx context.Context, owner uuid.UUID) ([]core.NamedID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads["projects"]++

	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	var out []core.NamedID
	for _, r := range s.rows[s.ProjectEntity] {
		if r.Record.Owner() == owner {
			out = append(out, core.NamedID{ID: r.ID, Name: r.Record.DisplayName()})
		}
	}
	return out, nil
}

func (s *MemStore) EnsureOwner(ctx context.Context, owner uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[owner] = true
	return nil
}

func (s *MemStore) InsertBatch(ctx context.Context, def core.EntityDefinition, records []core.Record) error {
	s.mu.Lock()
	if s.RejectBatch != nil {
		if err := s.RejectBatch(records); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	for _, rec := range records {
		if s.RejectRecord != nil {
			if err := s.RejectRecord(rec); err != nil {
				s.mu.Unlock()
				return err
			}
		}
	}
	for _, rec := range records {
		s.appendLocked(def.Info.Key, rec)
	}
	s.batches++
	after := s.AfterBatch
	s.mu.Unlock()

	if after != nil {
		after(len(records))
	}
	return nil
}

func (s *MemStore) InsertOne(ctx context.Context, def core.EntityDefinition, record core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.RejectRecord != nil {
		if err := s.RejectRecord(record); err != nil {
			return err
		}
	}
	s.appendLocked(def.Info.Key, record)
	s.singles++
	return nil
}

func (s *MemStore) appendLocked(entity string, rec core.Record) {
	s.nextID++
	s.rows[entity] = append(s.rows[entity], Row{ID: s.nextID, Record: rec})
}

func (s *MemStore) Truncate(ctx context.Context, def core.EntityDefinition, owner uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.TruncateErr != nil {
		return 0, s.TruncateErr
	}
	var (
		kept    []Row
		deleted int64
	)
	for _, r := range s.rows[def.Info.Key] {
		if r.Record.Owner() == owner {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.rows[def.Info.Key] = kept
	return deleted, nil
}

func (s *MemStore) Count(ctx context.Context, def core.EntityDefinition, owner uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, r := range s.rows[def.Info.Key] {
		if r.Record.Owner() == owner {
			n++
		}
	}
	return n, nil
}

// Lock fails with core.ErrRunInProgress while owner is already locked.
func (s *MemStore) Lock(ctx context.Context, owner uuid.UUID) (func(), error) {
	s.mu.Lock()
	wait := s.LockWait
	s.mu.Unlock()
	if wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked[owner] {
		return nil, core.ErrRunInProgress
	}
	s.locked[owner] = true
	return func() {
		s.mu.Lock()
		delete(s.locked, owner)
		s.mu.Unlock()
	}, nil
}

// Rows returns a copy of the rows stored for entity.
func (s *MemStore) Rows(entity string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows[entity]...)
}

// Seed stores records for entity as if a previous run had loaded them.
func (s *MemStore) Seed(entity string, records ...core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.appendLocked(entity, rec)
	}
}

// Reads returns how often ListFields ("fields") or ListProjects
// ("projects") was called.
func (s *MemStore) Reads(lookup string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[lookup]
}

// Writes returns the number of accepted batch and single inserts.
func (s *MemStore) Writes() (batches, singles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches, s.singles
}

// HasOwner reports whether EnsureOwner was called for owner.
func (s *MemStore) HasOwner(owner uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owners[owner]
}

var _ core.Store = (*MemStore)(nil)
