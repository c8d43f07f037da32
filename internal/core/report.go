package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// failedRowsHeader prefixes the original cells, when known, in a report.
var failedRowsHeader = []string{"_file", "_line", "_ordinal", "_stage", "_error"}

// WriteFailedRows writes rows as CSV to w. Rows rejected at load time carry
// no original cells; parse and transform failures do.
func WriteFailedRows(w io.Writer, rows []FailedRow) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(failedRowsHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := append([]string{
			row.FileName,
			strconv.Itoa(row.LineNumber),
			strconv.Itoa(row.Ordinal),
			row.Stage,
			row.Reason,
		}, row.Data...)
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteFailedRowsFile writes the report for results to path. Nothing is
// written when no row failed.
func WriteFailedRowsFile(path string, results ...*RunResult) (int, error) {
	var rows []FailedRow
	for _, r := range results {
		if r != nil {
			rows = append(rows, r.Failed...)
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create failed-rows report: %w", err)
	}
	if err := WriteFailedRows(f, rows); err != nil {
		f.Close()
		return 0, fmt.Errorf("write failed-rows report: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close failed-rows report: %w", err)
	}
	return len(rows), nil
}
