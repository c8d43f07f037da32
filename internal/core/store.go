package core

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/koeppern/gtd-system-sub000/internal/database"
	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// Store is everything a run needs from the target database.
type Store interface {
	LookupSource
	RecordWriter

	EnsureOwner(ctx context.Context, owner uuid.UUID) error
	Truncate(ctx context.Context, def EntityDefinition, owner uuid.UUID) (int64, error)
	Count(ctx context.Context, def EntityDefinition, owner uuid.UUID) (int64, error)

	// Lock takes the cross-process run lock for owner. It returns
	// ErrRunInProgress when another session holds it.
	Lock(ctx context.Context, owner uuid.UUID) (release func(), err error)
}

// PgStore implements Store on a pgx pool.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a store over pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) ListFields(ctx context.Context) ([]NamedID, error) {
	rows, err := db.New(s.pool).ListFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	out := make([]NamedID, len(rows))
	for i, r := range rows {
		out[i] = NamedID{ID: r.ID, Name: r.Name}
	}
	return out, nil
}

func (s *PgStore) ListProjects(ctx context.Context, owner uuid.UUID) ([]NamedID, error) {
	rows, err := db.New(s.pool).ListProjectNames(ctx, ToPgUUID(owner))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]NamedID, len(rows))
	for i, r := range rows {
		out[i] = NamedID{ID: r.ID, Name: r.ProjectName}
	}
	return out, nil
}

func (s *PgStore) EnsureOwner(ctx context.Context, owner uuid.UUID) error {
	if err := db.New(s.pool).EnsureUser(ctx, ToPgUUID(owner)); err != nil {
		return fmt.Errorf("ensure owner %s: %w", owner, err)
	}
	return nil
}

// InsertBatch writes records with a single COPY when the entity supports it,
// otherwise inside one transaction. Either way the batch lands whole or not at all.
func (s *PgStore) InsertBatch(ctx context.Context, def EntityDefinition, records []Record) error {
	if def.SupportsCopy() {
		n, err := def.Copy(ctx, s.pool, records)
		if err != nil {
			return fmt.Errorf("copy %s: %w", def.Info.Key, err)
		}
		if n != int64(len(records)) {
			return fmt.Errorf("copy %s: wrote %d of %d rows", def.Info.Key, n, len(records))
		}
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := def.Insert(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert %s row %d: %w", def.Info.Key, rec.Origin().Ordinal, err)
			}
		}
		return nil
	})
}

func (s *PgStore) InsertOne(ctx context.Context, def EntityDefinition, record Record) error {
	return def.Insert(ctx, s.pool, record)
}

func (s *PgStore) Truncate(ctx context.Context, def EntityDefinition, owner uuid.UUID) (int64, error) {
	if def.Truncate == nil {
		return 0, fmt.Errorf("entity %s cannot be truncated", def.Info.Key)
	}
	return def.Truncate(ctx, s.pool, owner)
}

func (s *PgStore) Count(ctx context.Context, def EntityDefinition, owner uuid.UUID) (int64, error) {
	if def.Count == nil {
		return 0, nil
	}
	return def.Count(ctx, s.pool, owner)
}

// Lock takes a session-level advisory lock on a dedicated connection. The
// connection stays checked out until release so the lock lives as long as the run.
func (s *PgStore) Lock(ctx context.Context, owner uuid.UUID) (func(), error) {
	key := advisoryLockKey("gtd-import:" + owner.String())

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	locked, err := db.New(conn).TryAdvisoryLock(ctx, key)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, ErrRunInProgress
	}

	return func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if _, err := db.New(conn).AdvisoryUnlock(unlockCtx, key); err != nil {
			logging.FromContext(ctx).Warn("advisory unlock failed, dropping connection", "error", err)
			_ = conn.Conn().Close(unlockCtx)
		}
		conn.Release()
	}, nil
}

func advisoryLockKey(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
