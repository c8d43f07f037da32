package core

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestResolver(projects, fields []NamedID) *Resolver {
	src := newFakeLookupSource()
	src.projects = projects
	src.fields = fields
	return NewResolver(NewLookupCache(src, uuid.New(), time.Second))
}

func TestExtractReferenceName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alpha Project (https://www.notion.so/Alpha-Project-abc123)", "Alpha Project"},
		{"  Beta  ", "Beta"},
		{"Gamma (v2) (https://x/y)", "Gamma"},
		{"(https://x/y)", "(https://x/y)"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractReferenceName(tt.input); got != tt.want {
				t.Errorf("ExtractReferenceName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveProjectReference(t *testing.T) {
	r := newTestResolver([]NamedID{
		{ID: 7, Name: "Alpha Project"},
		{ID: 8, Name: "Website Relaunch"},
		{ID: 9, Name: "Website"},
	}, nil)

	tests := []struct {
		name      string
		input     string
		wantName  string
		wantNull  bool
		wantID    int32
		wantValid bool
	}{
		{
			name:      "composite reference exact match",
			input:     "Alpha Project (https://x/y)",
			wantName:  "Alpha Project",
			wantID:    7,
			wantValid: true,
		},
		{
			name:      "case insensitive",
			input:     "alpha PROJECT",
			wantName:  "alpha PROJECT",
			wantID:    7,
			wantValid: true,
		},
		{
			name:      "unknown keeps name with null id",
			input:     "NoSuchProject",
			wantName:  "NoSuchProject",
			wantValid: false,
		},
		{
			name:      "reference contained in stored name",
			input:     "Relaunch",
			wantName:  "Relaunch",
			wantID:    8,
			wantValid: true,
		},
		{
			name:      "ambiguous containment takes first in store order",
			input:     "Website Relaunch 2024",
			wantName:  "Website Relaunch 2024",
			wantID:    8,
			wantValid: true,
		},
		{
			name:     "empty cell",
			input:    "  ",
			wantNull: true,
		},
		{
			name:     "sentinel cell",
			input:    "None",
			wantNull: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, id := r.ResolveProjectReference(context.Background(), tt.input)
			if tt.wantNull {
				if name.Valid || id.Valid {
					t.Errorf("got (%+v, %+v), want nulls", name, id)
				}
				return
			}
			if !name.Valid || name.String != tt.wantName {
				t.Errorf("name = %+v, want %q", name, tt.wantName)
			}
			if id.Valid != tt.wantValid {
				t.Fatalf("id.Valid = %v, want %v", id.Valid, tt.wantValid)
			}
			if id.Valid && id.Int32 != tt.wantID {
				t.Errorf("id = %d, want %d", id.Int32, tt.wantID)
			}
		})
	}
}

func TestResolveField(t *testing.T) {
	r := newTestResolver(nil, []NamedID{{ID: 1, Name: "Private"}, {ID: 2, Name: "Work"}})

	if id := r.ResolveField(context.Background(), "Work"); !id.Valid || id.Int32 != 2 {
		t.Errorf("Work = %+v, want 2", id)
	}
	if id := r.ResolveField(context.Background(), " private "); !id.Valid || id.Int32 != 1 {
		t.Errorf("private = %+v, want 1", id)
	}
	if id := r.ResolveField(context.Background(), ""); id.Valid {
		t.Errorf("empty = %+v, want null", id)
	}
}
