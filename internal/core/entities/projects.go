package entities

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/koeppern/gtd-system-sub000/internal/core"
	db "github.com/koeppern/gtd-system-sub000/internal/database"
)

// Project export columns.
const (
	colProjectName          = "Name"
	colProjectField         = "Field"
	colKeywords             = "Keywords"
	colMotherProject        = "Mother project"
	colRelatedMotherProject = "Related Mother Projects"
	colRelatedKnowledge     = "Related Knowledge Vault"
	colRelatedTasks         = "Related Tasks"
	colProjectThisWeek      = "Do this week"
	colProjectDone          = "Done"
)

// ProjectRecord is a transformed row of the projects export.
type ProjectRecord struct {
	Params db.InsertProjectParams
	owner  uuid.UUID
	origin core.Origin
}

func (r *ProjectRecord) Owner() uuid.UUID    { return r.owner }
func (r *ProjectRecord) Origin() core.Origin { return r.origin }
func (r *ProjectRecord) DisplayName() string { return r.Params.ProjectName }

func init() {
	registerProjects()
}

func registerProjects() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:         "projects",
			Label:       "Project",
			FilePattern: "Projects*.csv",
			Order:       1,
			Columns: []string{
				colProjectName, colProjectField, colKeywords, colMotherProject,
				colRelatedMotherProject, colRelatedKnowledge, colRelatedTasks,
				colProjectThisWeek, colProjectDone,
			},
			IdentityColumns: []string{colProjectName, colKeywords, colMotherProject},
			Invalidates:     []core.EntityType{core.EntityProject},
		},
		Transform: transformProject,
		Copy: func(ctx context.Context, dbtx core.DBTX, records []core.Record) (int64, error) {
			params := make([]db.CopyProjectsParams, len(records))
			for i, rec := range records {
				p, err := projectParams(rec)
				if err != nil {
					return 0, err
				}
				params[i] = db.CopyProjectsParams(p)
			}
			return db.New(dbtx).CopyProjects(ctx, params)
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, record core.Record) error {
			p, err := projectParams(record)
			if err != nil {
				return err
			}
			return db.New(dbtx).InsertProject(ctx, p)
		},
		Truncate: func(ctx context.Context, dbtx core.DBTX, owner uuid.UUID) (int64, error) {
			return db.New(dbtx).DeleteProjectsByUser(ctx, core.ToPgUUID(owner))
		},
		Count: func(ctx context.Context, dbtx core.DBTX, owner uuid.UUID) (int64, error) {
			return db.New(dbtx).CountProjectsByUser(ctx, core.ToPgUUID(owner))
		},
	})
}

func transformProject(ctx context.Context, rc core.RowContext, row core.SourceRow) (core.Record, error) {
	return &ProjectRecord{
		owner:  rc.Owner,
		origin: rc.Origin(),
		Params: db.InsertProjectParams{
			UserID:                core.ToPgUUID(rc.Owner),
			NotionExportRow:       core.ToPgOrdinal(rc.Ordinal),
			ProjectName:           rc.NameOr(cell(row, colProjectName, "Project name", "Project")),
			FieldID:               rc.Resolver.ResolveField(ctx, row.Get(colProjectField)),
			Keywords:              core.CleanText(row.Get(colKeywords)),
			MotherProject:         core.CleanText(row.Get(colMotherProject)),
			RelatedMotherProjects: core.CleanText(row.Get(colRelatedMotherProject)),
			RelatedKnowledgeVault: core.CleanText(row.Get(colRelatedKnowledge)),
			RelatedTasks:          core.CleanText(row.Get(colRelatedTasks)),
			DoThisWeek:            core.BoolFlag(row.Get(colProjectThisWeek)),
			DoneStatus:            core.BoolFlag(row.Get(colProjectDone)),
			SourceFile:            core.CleanText(rc.SourceFile),
		},
	}, nil
}

func projectParams(rec core.Record) (db.InsertProjectParams, error) {
	p, ok := rec.(*ProjectRecord)
	if !ok {
		return db.InsertProjectParams{}, fmt.Errorf("projects: unexpected record type %T", rec)
	}
	return p.Params, nil
}
