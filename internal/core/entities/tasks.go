package entities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koeppern/gtd-system-sub000/internal/core"
	db "github.com/koeppern/gtd-system-sub000/internal/database"
)

// Task export columns.
const (
	colTaskName     = "Name"
	colTaskProject  = "Project"
	colTaskField    = "Field"
	colTaskDone     = "Done"
	colDoToday      = "Do today"
	colTaskThisWeek = "Do this week"
	colReading      = "Reading"
	colWaitFor      = "Wait for"
	colPostponed    = "Postponed"
	colReviewed     = "Reviewed"
	colDoOnDate     = "Do on date"
	colLastEdited   = "Last edited time"
	colCreated      = "Created time"
	colTaskPriority = "Priority"
)

// TaskRecord is a transformed row of the tasks export.
type TaskRecord struct {
	Params db.InsertTaskParams
	owner  uuid.UUID
	origin core.Origin
}

func (r *TaskRecord) Owner() uuid.UUID    { return r.owner }
func (r *TaskRecord) Origin() core.Origin { return r.origin }
func (r *TaskRecord) DisplayName() string { return r.Params.TaskName }

func init() {
	registerTasks()
}

func registerTasks() {
	core.Register(core.EntityDefinition{
		Info: core.EntityInfo{
			Key:         "tasks",
			Label:       "Task",
			FilePattern: "Tasks*.csv",
			Order:       2,
			Columns: []string{
				colTaskName, colTaskProject, colTaskField, colTaskDone,
				colDoToday, colTaskThisWeek, colReading, colWaitFor,
				colPostponed, colReviewed, colDoOnDate, colLastEdited,
				colCreated, colTaskPriority,
			},
			IdentityColumns: []string{colTaskName, colTaskProject, colDoOnDate},
		},
		Transform: transformTask,
		Copy: func(ctx context.Context, dbtx core.DBTX, records []core.Record) (int64, error) {
			params := make([]db.CopyTasksParams, len(records))
			for i, rec := range records {
				p, err := taskParams(rec)
				if err != nil {
					return 0, err
				}
				params[i] = db.CopyTasksParams(p)
			}
			return db.New(dbtx).CopyTasks(ctx, params)
		},
		Insert: func(ctx context.Context, dbtx core.DBTX, record core.Record) error {
			p, err := taskParams(record)
			if err != nil {
				return err
			}
			return db.New(dbtx).InsertTask(ctx, p)
		},
		Truncate: func(ctx context.Context, dbtx core.DBTX, owner uuid.UUID) (int64, error) {
			return db.New(dbtx).DeleteTasksByUser(ctx, core.ToPgUUID(owner))
		},
		Count: func(ctx context.Context, dbtx core.DBTX, owner uuid.UUID) (int64, error) {
			return db.New(dbtx).CountTasksByUser(ctx, core.ToPgUUID(owner))
		},
	})
}

func transformTask(ctx context.Context, rc core.RowContext, row core.SourceRow) (core.Record, error) {
	projectRef, projectID := rc.Resolver.ResolveProjectReference(ctx, row.Get(colTaskProject))
	lastEdited := core.NormalizeDate(cell(row, colLastEdited, "Last edited"))

	return &TaskRecord{
		owner:  rc.Owner,
		origin: rc.Origin(),
		Params: db.InsertTaskParams{
			UserID:           core.ToPgUUID(rc.Owner),
			NotionExportRow:  core.ToPgOrdinal(rc.Ordinal),
			TaskName:         rc.NameOr(cell(row, colTaskName, "Task name", "Task")),
			ProjectID:        projectID,
			ProjectReference: projectRef,
			FieldID:          rc.Resolver.ResolveField(ctx, row.Get(colTaskField)),
			DoneAt:           doneAt(row.Get(colTaskDone), lastEdited),
			DoToday:          core.BoolFlag(row.Get(colDoToday)),
			DoThisWeek:       core.BoolFlag(row.Get(colTaskThisWeek)),
			IsReading:        core.BoolFlag(row.Get(colReading)),
			WaitFor:          core.BoolFlag(row.Get(colWaitFor)),
			PostponedTask:    core.BoolFlag(row.Get(colPostponed)),
			Reviewed:         core.BoolFlag(row.Get(colReviewed)),
			DoOnDate:         core.NormalizeDateOnly(row.Get(colDoOnDate)),
			LastEdited:       lastEdited,
			DateOfCreation:   core.NormalizeDate(cell(row, colCreated, "Date of creation", "Created")),
			Priority:         core.NormalizePriorityLabel(row.Get(colTaskPriority)),
			SourceFile:       core.CleanText(rc.SourceFile),
		},
	}, nil
}

// doneAt reads the completion column. Older exports hold a checkbox there
// instead of a date; a checked box takes the last edit as completion time.
func doneAt(raw string, lastEdited pgtype.Timestamptz) pgtype.Timestamptz {
	if ts := core.NormalizeDate(raw); ts.Valid {
		return ts
	}
	if core.BoolFlag(raw) {
		return lastEdited
	}
	return pgtype.Timestamptz{}
}

func taskParams(rec core.Record) (db.InsertTaskParams, error) {
	t, ok := rec.(*TaskRecord)
	if !ok {
		return db.InsertTaskParams{}, fmt.Errorf("tasks: unexpected record type %T", rec)
	}
	return t.Params, nil
}
