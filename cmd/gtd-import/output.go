package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

// maxListedFailures bounds the failures printed inline; the rest go to
// --failed-rows.
const maxListedFailures = 10

func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withCode(1, fmt.Errorf("json encode: %w", err))
	}
	return nil
}

func printSummary(w io.Writer, res *core.RunResult) {
	mode := ""
	if res.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "%s%s: %s\n", res.Entity, mode, filepath.Base(res.SourceFile))
	fmt.Fprintf(w, "  rows %d, skipped %d, loaded %d, failed %d\n",
		res.TotalRows, res.Skipped, res.Loaded, res.FailedCount())

	if !res.DryRun {
		fmt.Fprintf(w, "  truncated %d, stored now %d, took %s\n",
			res.Truncated, res.FinalCount, res.Duration.Round(time.Millisecond))
	}
	if res.FallbackBatch > 0 {
		fmt.Fprintf(w, "  %d batches retried row by row\n", res.FallbackBatch)
	}
	if len(res.MissingColumns) > 0 {
		fmt.Fprintf(w, "  warning: missing columns: %s\n", strings.Join(res.MissingColumns, ", "))
	}
	if len(res.Degraded) > 0 {
		names := make([]string, len(res.Degraded))
		for i, d := range res.Degraded {
			names[i] = string(d)
		}
		fmt.Fprintf(w, "  warning: %s lookups unavailable, built-in defaults used; references may be unresolved\n",
			strings.Join(names, ", "))
	}

	for i, f := range res.Failed {
		if i == maxListedFailures {
			fmt.Fprintf(w, "  ... and %d more (use --failed-rows)\n", len(res.Failed)-maxListedFailures)
			break
		}
		fmt.Fprintf(w, "  line %d (row %d) %s: %s\n", f.LineNumber, f.Ordinal, f.Stage, f.Reason)
	}
}
