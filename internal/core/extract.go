package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// ContextCheckInterval is how many rows are read between cancellation checks.
const ContextCheckInterval = 500

// Failure stages recorded on FailedRow.
const (
	StageParse     = "parse"
	StageTransform = "transform"
	StageLoad      = "load"
)

// Extractor reads an export file and transforms its rows.
type Extractor struct {
	transformer *Transformer
}

// NewExtractor creates an extractor that transforms rows with t.
func NewExtractor(t *Transformer) *Extractor {
	return &Extractor{transformer: t}
}

// ExtractAndTransform reads the file at path. Only an unreadable file or a
// missing header row is an error; bad rows are collected in the result.
func (e *Extractor) ExtractAndTransform(ctx context.Context, def EntityDefinition, path string) (*ExtractResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return e.Extract(ctx, def, f, filepath.Base(path))
}

// Extract is ExtractAndTransform over an open reader.
func (e *Extractor) Extract(ctx context.Context, def EntityDefinition, r io.Reader, sourceFile string) (*ExtractResult, error) {
	logger := logging.WithFields(ctx, "entity", def.Info.Key, "file", sourceFile)
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s has no header row", ErrEmptySource, sourceFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", sourceFile, err)
	}

	idx := MakeHeaderIndex(header)
	result := &ExtractResult{SourceFile: sourceFile}
	result.MissingColumns = missingColumns(idx, def.Info.Columns)
	for _, col := range result.MissingColumns {
		if s := suggestHeader(col, idx); s != "" {
			logger.Warn("expected column missing from export, values will be null", "column", col, "closest_header", s)
		} else {
			logger.Warn("expected column missing from export, values will be null", "column", col)
		}
	}

	ordinal := 0
	for {
		values, err := cr.Read()
		if err == io.EOF {
			break
		}
		ordinal++
		result.TotalRows++

		if ordinal%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("read %s: %w", sourceFile, err)
			}
			logger.Warn("unparseable row", "ordinal", ordinal, "line", pe.StartLine, "error", pe.Err)
			result.Failed = append(result.Failed, FailedRow{
				FileName:   sourceFile,
				LineNumber: pe.StartLine,
				Ordinal:    ordinal,
				Stage:      StageParse,
				Reason:     pe.Err.Error(),
			})
			continue
		}

		line, _ := cr.FieldPos(0)
		row := SourceRow{Header: idx, Values: values, Line: line}

		if row.Blank(def.Info.IdentityColumns) {
			result.Skipped++
			logger.Debug("skipping blank row", "ordinal", ordinal, "line", line)
			continue
		}

		rec, err := e.transformer.TransformRow(ctx, def, row, ordinal, sourceFile)
		if err != nil {
			logger.Warn("row transform failed", "ordinal", ordinal, "line", line, "error", err)
			result.Failed = append(result.Failed, FailedRow{
				FileName:   sourceFile,
				LineNumber: line,
				Ordinal:    ordinal,
				Stage:      StageTransform,
				Reason:     err.Error(),
				Data:       values,
			})
			continue
		}
		result.Records = append(result.Records, rec)
	}

	logger.Info("extraction finished",
		"rows", result.TotalRows,
		"records", len(result.Records),
		"skipped", result.Skipped,
		"failed", len(result.Failed),
	)
	return result, nil
}

// missingColumns lists expected columns absent from the header.
func missingColumns(idx HeaderIndex, expected []string) []string {
	var missing []string
	for _, col := range expected {
		if _, ok := idx[headerKey(col)]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// suggestHeader finds the header most likely meant by a missing column, so
// a renamed export property shows up in the logs next to its old name.
func suggestHeader(column string, idx HeaderIndex) string {
	headers := make([]string, 0, len(idx))
	for h := range idx {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	key := headerKey(column)
	ranks := fuzzy.RankFindNormalizedFold(key, headers)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(key)/2+1
	for _, h := range headers {
		if d := fuzzy.LevenshteinDistance(key, h); d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}
