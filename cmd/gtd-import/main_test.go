package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"plain error", errors.New("boom"), 1},
		{"coded", withCode(exitConfig, errors.New("bad")), exitConfig},
		{"wrapped coded", fmt.Errorf("outer: %w", withCode(exitUsage, errors.New("x"))), exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyRunErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"missing file", fmt.Errorf("%w: Tasks*.csv", core.ErrSourceNotFound), exitSource},
		{"empty file", core.ErrEmptySource, exitSource},
		{"declined", fmt.Errorf("projects: %w", core.ErrTruncateDeclined), exitSafetyNet},
		{"busy", core.ErrRunInProgress, exitSafetyNet},
		{"unknown entity", core.ErrUnknownEntity, exitUsage},
		{"invalid option", core.ErrInvalidOption, exitUsage},
		{"interrupted", fmt.Errorf("load tasks: %w", context.Canceled), exitInterrupted},
		{"store failure", errors.New("connection refused"), exitStore},
		{"already coded", withCode(exitConfig, core.ErrEmptySource), exitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(classifyRunErr(tt.err)); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		want        bool
	}{
		{"yes", "y\n", true, true},
		{"full yes", " YES \n", true, true},
		{"no", "n\n", true, false},
		{"empty answer", "\n", true, false},
		{"eof", "", true, false},
		{"not a terminal", "y\n", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			confirm := promptConfirm(strings.NewReader(tt.input), &out, tt.interactive)
			if got := confirm("Delete all existing projects?"); got != tt.want {
				t.Errorf("confirm() = %v, want %v", got, tt.want)
			}
			if !strings.HasPrefix(out.String(), "Delete all existing projects?") {
				t.Errorf("prompt not shown: %q", out.String())
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	res := &core.RunResult{
		Entity:         "tasks",
		SourceFile:     "/data/Tasks 7f3e.csv",
		TotalRows:      20,
		Skipped:        2,
		Loaded:         6,
		Truncated:      5,
		FinalCount:     6,
		FallbackBatch:  1,
		Duration:       1500 * time.Millisecond,
		MissingColumns: []string{"Priority"},
		Degraded:       []core.EntityType{core.EntityProject},
	}
	for i := 1; i <= 12; i++ {
		res.Failed = append(res.Failed, core.FailedRow{LineNumber: i + 1, Ordinal: i, Stage: core.StageLoad, Reason: "rejected"})
	}

	var buf bytes.Buffer
	printSummary(&buf, res)
	out := buf.String()

	for _, want := range []string{
		"tasks: Tasks 7f3e.csv",
		"rows 20, skipped 2, loaded 6, failed 12",
		"truncated 5, stored now 6, took 1.5s",
		"1 batches retried row by row",
		"missing columns: Priority",
		"warning: project lookups unavailable",
		"line 2 (row 1) load: rejected",
		"... and 2 more",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "row 11)") {
		t.Errorf("more than %d failures listed:\n%s", maxListedFailures, out)
	}
}

func TestReportWritesFailedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.csv")
	results := []*core.RunResult{
		{Entity: "projects", DryRun: true},
		{Entity: "tasks", DryRun: true, Failed: []core.FailedRow{
			{FileName: "Tasks.csv", LineNumber: 3, Ordinal: 2, Stage: core.StageTransform, Reason: "bad", Data: []string{"x"}},
		}},
	}

	var buf bytes.Buffer
	if err := report(&buf, results, importOptions{failedRows: path}); err != nil {
		t.Fatalf("report() error = %v", err)
	}
	if !strings.Contains(buf.String(), "1 failed rows written to "+path) {
		t.Errorf("output = %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "Tasks.csv,3,2,transform,bad,x") {
		t.Errorf("report = %q", data)
	}
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	err := report(&buf, []*core.RunResult{{Entity: "projects", Loaded: 3}}, importOptions{jsonOutput: true})
	if err != nil {
		t.Fatalf("report() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"entity":"projects"`) || !strings.Contains(buf.String(), `"loaded":3`) {
		t.Errorf("json = %q", buf.String())
	}
}

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"projects", "tasks", "all", "serve"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("command %q not registered, have %v", want, names)
		}
	}
}

func TestForceWithoutTruncateIsUsageError(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"projects", "--truncate=false", "--force"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	if got := exitCode(err); got != exitUsage {
		t.Errorf("exit code = %d, want %d (err %v)", got, exitUsage, err)
	}
}

func TestLoadEnv(t *testing.T) {
	if err := loadEnv(filepath.Join(t.TempDir(), "missing.env")); exitCode(err) != exitConfig {
		t.Errorf("missing explicit env file: exit code = %d, want %d", exitCode(err), exitConfig)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("GTD_IMPORT_TEST_VALUE=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GTD_IMPORT_TEST_VALUE", "from-env")
	if err := loadEnv(path); err != nil {
		t.Fatalf("loadEnv() error = %v", err)
	}
	if got := os.Getenv("GTD_IMPORT_TEST_VALUE"); got != "from-file" {
		t.Errorf("value = %q, want the file to win", got)
	}
}
