package core

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestTransformRowDefaultName(t *testing.T) {
	owner := uuid.New()
	tr := newTestExtractor(owner).transformer
	row := SourceRow{
		Header: MakeHeaderIndex([]string{"Name", "Field"}),
		Values: []string{"", "Work"},
		Line:   43,
	}

	rec, err := tr.TransformRow(context.Background(), testTaskDefinition(), row, 42, "Tasks.csv")
	if err != nil {
		t.Fatalf("TransformRow() error = %v", err)
	}
	if got := rec.DisplayName(); got != "Task_42" {
		t.Errorf("DisplayName() = %q, want %q", got, "Task_42")
	}
	if rec.Owner() != owner {
		t.Error("record should carry the run owner")
	}
}

func TestTransformRowLabelFallback(t *testing.T) {
	def := testTaskDefinition()
	def.Info.Label = ""
	row := SourceRow{Header: MakeHeaderIndex([]string{"Name"}), Values: []string{"none"}}

	rec, err := newTestExtractor(uuid.New()).transformer.TransformRow(context.Background(), def, row, 7, "Tasks.csv")
	if err != nil {
		t.Fatalf("TransformRow() error = %v", err)
	}
	if got := rec.DisplayName(); got != "task_7" {
		t.Errorf("DisplayName() = %q, want %q", got, "task_7")
	}
}

func TestTransformRowFailures(t *testing.T) {
	tr := newTestExtractor(uuid.New()).transformer
	header := MakeHeaderIndex([]string{"Name"})

	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"panic is recovered", "!panic", "transform panic: boom"},
		{"error is returned", "!fail", "bad row"},
		{"nil record is an error", "!nil", "no record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := SourceRow{Header: header, Values: []string{tt.value}}
			rec, err := tr.TransformRow(context.Background(), testTaskDefinition(), row, 1, "Tasks.csv")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
			if rec != nil {
				t.Errorf("rec = %v, want nil", rec)
			}
		})
	}
}

func TestDefaultDisplayName(t *testing.T) {
	if got := DefaultDisplayName("Project", 3); got != "Project_3" {
		t.Errorf("DefaultDisplayName() = %q", got)
	}
}
