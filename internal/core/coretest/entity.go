package coretest

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

// Record is a minimal core.Record carrying a name and an optional reference.
type Record struct {
	OwnerID uuid.UUID
	From    core.Origin
	Name    string
	Ref     string
	RefID   int32
	HasRef  bool
}

func (r *Record) Owner() uuid.UUID    { return r.OwnerID }
func (r *Record) Origin() core.Origin { return r.From }
func (r *Record) DisplayName() string { return r.Name }

// ErrBadRow is returned by Entity's transform for rows whose Name is "!fail".
var ErrBadRow = errors.New("bad row")

// Entity returns a definition for CSVs with "Name" and "Project" columns.
// Project cells are resolved as project references. A Name of "!panic"
// panics and "!fail" errors, to exercise transform failure handling.
func Entity(key, label string, order int, invalidates ...core.EntityType) core.EntityDefinition {
	return core.EntityDefinition{
		Info: core.EntityInfo{
			Key:             key,
			Label:           label,
			FilePattern:     label + "s*.csv",
			Order:           order,
			Columns:         []string{"Name", "Project"},
			IdentityColumns: []string{"Name", "Project"},
			Invalidates:     invalidates,
		},
		Transform: func(ctx context.Context, rc core.RowContext, row core.SourceRow) (core.Record, error) {
			switch row.Get("Name") {
			case "!panic":
				panic("boom")
			case "!fail":
				return nil, ErrBadRow
			}
			rec := &Record{
				OwnerID: rc.Owner,
				From:    rc.Origin(),
				Name:    rc.NameOr(row.Get("Name")),
			}
			if row.Has("Project") {
				name, id := rc.Resolver.ResolveProjectReference(ctx, row.Get("Project"))
				rec.Ref = name.String
				rec.RefID, rec.HasRef = id.Int32, id.Valid
			}
			return rec, nil
		},
		Insert: func(ctx context.Context, db core.DBTX, record core.Record) error {
			return errors.New("coretest entities are written through MemStore")
		},
	}
}
