package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// ----------------------------------------------------------------------------
// NormalizeBoolean Tests
// ----------------------------------------------------------------------------

func TestNormalizeBoolean(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue bool
	}{
		{"yes", "Yes", true, true},
		{"true mixed case", "TRUE", true, true},
		{"one", "1", true, true},
		{"y", "y", true, true},
		{"check mark", "✓", true, true},
		{"heavy check mark", "✔", true, true},
		{"check emoji", "✅", true, true},
		{"checked box", "☑", true, true},
		{"padded yes", "  yes  ", true, true},

		{"no", "No", true, false},
		{"false", "false", true, false},
		{"zero", "0", true, false},
		{"n", "N", true, false},
		{"ballot x", "✗", true, false},
		{"cross emoji", "❌", true, false},
		{"empty box", "☐", true, false},

		{"empty", "", false, false},
		{"whitespace", "   ", false, false},
		{"unrecognized", "maybe", false, false},
		{"bare x is not a token", "x", false, false},
		{"sentinel", "nan", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBoolean(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("NormalizeBoolean(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if got.Valid && got.Bool != tt.wantValue {
				t.Errorf("NormalizeBoolean(%q) = %v, want %v", tt.input, got.Bool, tt.wantValue)
			}
		})
	}
}

func TestBoolFlag(t *testing.T) {
	if !BoolFlag("Yes") {
		t.Error("BoolFlag(Yes) = false, want true")
	}
	for _, in := range []string{"No", "", "maybe"} {
		if BoolFlag(in) {
			t.Errorf("BoolFlag(%q) = true, want false", in)
		}
	}
}

// ----------------------------------------------------------------------------
// Date Tests
// ----------------------------------------------------------------------------

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      time.Time
	}{
		{
			name:      "long form with time",
			input:     "January 5, 2024 3:04 PM",
			wantValid: true,
			want:      time.Date(2024, 1, 5, 15, 4, 0, 0, time.UTC),
		},
		{
			name:      "long form 24h",
			input:     "March 10, 2023 09:30",
			wantValid: true,
			want:      time.Date(2023, 3, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			name:      "long form date only",
			input:     "December 31, 2022",
			wantValid: true,
			want:      time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "iso date",
			input:     "2024-01-15",
			wantValid: true,
			want:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "iso date time",
			input:     "2024-01-15 08:00:00",
			wantValid: true,
			want:      time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name:      "rfc3339 with zone",
			input:     "2024-01-15T08:00:00+02:00",
			wantValid: true,
			want:      time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC),
		},
		{
			name:      "range keeps start",
			input:     "January 5, 2024 → January 7, 2024",
			wantValid: true,
			want:      time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "mention prefix",
			input:     "@January 5, 2024",
			wantValid: true,
			want:      time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: "", wantValid: false},
		{name: "sentinel", input: "NaT", wantValid: false},
		{name: "garbage", input: "next tuesday", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("NormalizeDate(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if got.Valid && !got.Time.Equal(tt.want) {
				t.Errorf("NormalizeDate(%q) = %v, want %v", tt.input, got.Time, tt.want)
			}
		})
	}
}

func TestNormalizeDateOnly(t *testing.T) {
	got := NormalizeDateOnly("January 5, 2024 11:59 PM")
	if !got.Valid {
		t.Fatal("expected valid date")
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !got.Time.Equal(want) {
		t.Errorf("NormalizeDateOnly() = %v, want %v", got.Time, want)
	}

	if NormalizeDateOnly("none").Valid {
		t.Error("sentinel should be null")
	}
}

// ----------------------------------------------------------------------------
// Text Tests
// ----------------------------------------------------------------------------

func TestCleanText(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		want      string
	}{
		{"  Buy milk ", true, "Buy milk"},
		{"", false, ""},
		{"None", false, ""},
		{"N/A", false, ""},
		{"undefined", false, ""},
		{"nan bread", true, "nan bread"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CleanText(tt.input)
			if got.Valid != tt.wantValid || got.String != tt.want {
				t.Errorf("CleanText(%q) = {%q %v}, want {%q %v}", tt.input, got.String, got.Valid, tt.want, tt.wantValid)
			}
		})
	}
}

func TestNormalizePriorityLabel(t *testing.T) {
	if got := NormalizePriorityLabel(" High "); !got.Valid || got.String != "High" {
		t.Errorf("NormalizePriorityLabel() = %+v", got)
	}
	if NormalizePriorityLabel("").Valid {
		t.Error("empty priority should be null")
	}
}

func TestNormalizeKey(t *testing.T) {
	// "é" as e + combining acute must fold to the same key as the precomposed form.
	decomposed := "Cafe\u0301"
	if NormalizeKey(decomposed) != NormalizeKey("Caf\u00e9") {
		t.Errorf("NormalizeKey did not compose %q", decomposed)
	}
	if got := NormalizeKey("  Alpha Project "); got != "alpha project" {
		t.Errorf("NormalizeKey() = %q, want %q", got, "alpha project")
	}
}

// ----------------------------------------------------------------------------
// Header Tests
// ----------------------------------------------------------------------------

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Name", "name"},
		{"\ufeffName", "name"},
		{"  Do   this  week ", "do this week"},
		{"✅ Done", "done"},
		{`="Priority"`, "priority"},
		{"Créé le", "créé le"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeHeader(tt.input); got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"\ufeffName", "Field", "name", ""})

	if idx["name"] != 0 {
		t.Errorf("first occurrence should win, got %d", idx["name"])
	}
	if idx["field"] != 1 {
		t.Errorf("field = %d, want 1", idx["field"])
	}
	if len(idx) != 2 {
		t.Errorf("len = %d, want 2", len(idx))
	}
}

func TestSourceRow(t *testing.T) {
	row := SourceRow{
		Header: MakeHeaderIndex([]string{"Name", "Field", "Done"}),
		Values: []string{" Write report ", `="Work"`},
		Line:   3,
	}

	if got := row.Get("name"); got != "Write report" {
		t.Errorf("Get(name) = %q", got)
	}
	if got := row.Get("Field"); got != "Work" {
		t.Errorf("Get(Field) = %q", got)
	}
	if got := row.Get("Done"); got != "" {
		t.Errorf("short row Get(Done) = %q, want empty", got)
	}
	if got := row.Get("Missing"); got != "" {
		t.Errorf("Get(Missing) = %q, want empty", got)
	}
	if row.Blank([]string{"Name"}) {
		t.Error("row with a name is not blank")
	}

	empty := SourceRow{Header: row.Header, Values: []string{"", "Work", ""}}
	if !empty.Blank([]string{"Name"}) {
		t.Error("row without a name is blank on identity columns")
	}
	if empty.Blank([]string{"Title"}) {
		t.Error("absent identity columns fall back to whole-row check")
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`="00123"`, "00123"},
		{`"quoted"`, "quoted"},
		{"  plain  ", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// pgtype helpers
// ----------------------------------------------------------------------------

func TestPgHelpers(t *testing.T) {
	if v := ToPgInt4(7, true); !v.Valid || v.Int32 != 7 {
		t.Errorf("ToPgInt4(7, true) = %+v", v)
	}
	if ToPgInt4(7, false).Valid {
		t.Error("ToPgInt4 with ok=false should be null")
	}
	if ToPgOrdinal(0).Valid {
		t.Error("ordinal 0 should be null")
	}
	if v := ToPgOrdinal(42); v.Int32 != 42 {
		t.Errorf("ToPgOrdinal(42) = %+v", v)
	}
	if ToPgUUID(uuid.Nil).Valid {
		t.Error("nil uuid should be null")
	}
	id := uuid.New()
	if v := ToPgUUID(id); !v.Valid || uuid.UUID(v.Bytes) != id {
		t.Errorf("ToPgUUID() = %+v", v)
	}
}
