package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var (
	// ErrUnknownEntity is returned for an entity key nobody registered.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrSourceNotFound is returned when no export file exists at the given
	// path or none matches the entity's pattern in the data directory.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrEmptySource is returned for a file without a header row.
	ErrEmptySource = errors.New("empty file")

	// ErrRunInProgress is returned when another run holds the owner's lock.
	ErrRunInProgress = errors.New("import already in progress for owner")

	// ErrTruncateDeclined is returned when truncation was requested but not confirmed.
	ErrTruncateDeclined = errors.New("truncate not confirmed")

	// ErrInvalidOption is returned for run options that cannot be combined.
	ErrInvalidOption = errors.New("invalid run option")
)

// EntityType names a lookup table the resolver can match against.
type EntityType string

const (
	EntityField   EntityType = "field"
	EntityProject EntityType = "project"
)

// HeaderIndex maps normalized column names to their position in the CSV row.
type HeaderIndex map[string]int

// SourceRow is one data line of an export file, addressable by column name.
type SourceRow struct {
	Header HeaderIndex
	Values []string
	Line   int
}

// Get returns the cleaned cell for column, or "" when the column is absent.
func (r SourceRow) Get(column string) string {
	pos, ok := r.Header[headerKey(column)]
	if !ok || pos >= len(r.Values) {
		return ""
	}
	return CleanCell(r.Values[pos])
}

// Has reports whether the header carries column.
func (r SourceRow) Has(column string) bool {
	_, ok := r.Header[headerKey(column)]
	return ok
}

// Blank reports whether every listed column is empty. Columns missing from
// the header count as empty; when none of them exist the whole row is checked.
func (r SourceRow) Blank(columns []string) bool {
	present := false
	for _, c := range columns {
		if !r.Has(c) {
			continue
		}
		present = true
		if r.Get(c) != "" {
			return false
		}
	}
	if present {
		return true
	}
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Origin traces a record back to the line it came from.
type Origin struct {
	SourceFile string
	Ordinal    int // 1-based data row number, the notion_export_row column
	Line       int // physical line in the file

	// Raw holds the row's cells as read, so a row rejected at load time
	// can still be reported with its original data.
	Raw []string
}

// Record is a transformed row ready to be written.
type Record interface {
	Owner() uuid.UUID
	Origin() Origin
	DisplayName() string
}

// FailedRow contains information about a row that could not be imported.
type FailedRow struct {
	FileName   string   `json:"file"`
	LineNumber int      `json:"line"`
	Ordinal    int      `json:"ordinal"`
	Stage      string   `json:"stage"`
	Reason     string   `json:"reason"`
	Data       []string `json:"data,omitempty"`
}

// ExtractResult is the outcome of reading and transforming one file.
type ExtractResult struct {
	SourceFile     string
	TotalRows      int
	Skipped        int
	Records        []Record
	Failed         []FailedRow
	MissingColumns []string
}

// LoadResult is the outcome of writing a record list.
type LoadResult struct {
	Attempted       int
	Loaded          int
	Batches         int
	FallbackBatches int
	Failed          []FailedRow
}

// RunPhase indicates where a queued run stands.
type RunPhase string

const (
	PhaseQueued   RunPhase = "queued"
	PhaseRunning  RunPhase = "running"
	PhaseComplete RunPhase = "complete"
	PhaseFailed   RunPhase = "failed"
)

// RunResult summarizes one import run.
type RunResult struct {
	RunID          string        `json:"run_id"`
	Entity         string        `json:"entity"`
	SourceFile     string        `json:"source_file"`
	DryRun         bool          `json:"dry_run"`
	Truncated      int64         `json:"truncated"`
	TotalRows      int           `json:"total_rows"`
	Skipped        int           `json:"skipped"`
	Transformed    int           `json:"transformed"`
	Loaded         int           `json:"loaded"`
	FallbackBatch  int           `json:"fallback_batches"`
	Failed         []FailedRow   `json:"failed,omitempty"`
	MissingColumns []string      `json:"missing_columns,omitempty"`
	Degraded       []EntityType  `json:"degraded_lookups,omitempty"`
	FinalCount     int64         `json:"final_count"`
	Duration       time.Duration `json:"duration_ns"`
}

// FailedCount returns the number of rows lost at any stage.
func (r *RunResult) FailedCount() int {
	return len(r.Failed)
}
