package core

// convert.go turns raw export cells into typed values.
//
// Exports from the note-taking tool spell the same thing many ways: flags as
// "Yes", "true" or a checkmark glyph, dates as "January 5, 2024 3:04 PM" or
// ISO strings, empty cells as "nan" or "None". None of these functions fail:
// anything unrecognized becomes a pgtype value with Valid=false and the
// caller decides whether that deserves a log line.

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	truthyTokens = map[string]bool{
		"yes": true, "true": true, "1": true, "y": true,
		"✓": true, "✔": true, "✅": true, "☑": true,
	}
	falsyTokens = map[string]bool{
		"no": true, "false": true, "0": true, "n": true,
		"✗": true, "✘": true, "❌": true, "☐": true,
	}

	// sentinelTokens are what the exporter writes for a missing value.
	sentinelTokens = map[string]bool{
		"nan": true, "none": true, "null": true, "n/a": true, "undefined": true, "nat": true,
	}
)

// Date layouts, tried in order. The long month forms are what the exporter
// writes; ISO forms show up after a round trip through a spreadsheet.
var dateLayouts = []string{
	"January 2, 2006 3:04 PM",
	"January 2, 2006 15:04",
	"January 2, 2006",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// dateRangeSeparator splits "start → end" cells; only the start is kept.
const dateRangeSeparator = "→"

// NormalizeBoolean maps a flag cell to true, false or null.
func NormalizeBoolean(raw string) pgtype.Bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return pgtype.Bool{}
	case truthyTokens[s]:
		return pgtype.Bool{Bool: true, Valid: true}
	case falsyTokens[s]:
		return pgtype.Bool{Bool: false, Valid: true}
	default:
		return pgtype.Bool{}
	}
}

// BoolFlag is NormalizeBoolean with null coerced to false, for NOT NULL flag columns.
func BoolFlag(raw string) bool {
	b := NormalizeBoolean(raw)
	return b.Valid && b.Bool
}

// ParseExportTime parses a date cell with the ordered layout list.
// Times without a zone are taken as UTC.
func ParseExportTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, dateRangeSeparator); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.TrimPrefix(s, "@")
	if s == "" || sentinelTokens[strings.ToLower(s)] {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate converts a date or date-time cell to a timestamp.
func NormalizeDate(raw string) pgtype.Timestamptz {
	t, ok := ParseExportTime(raw)
	if !ok {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// NormalizeDateOnly converts a cell to a calendar date, dropping any time part.
func NormalizeDateOnly(raw string) pgtype.Date {
	t, ok := ParseExportTime(raw)
	if !ok {
		return pgtype.Date{}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// NormalizePriorityLabel keeps a priority label as written.
func NormalizePriorityLabel(raw string) pgtype.Text {
	return CleanText(raw)
}

// CleanText trims a cell and maps exporter sentinels to null.
func CleanText(raw string) pgtype.Text {
	s := strings.TrimSpace(raw)
	if s == "" || sentinelTokens[strings.ToLower(s)] {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// NormalizeKey folds a name into the form used for lookup keys.
func NormalizeKey(name string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(name)))
}

// headerGlyphs drops the decorative symbols some exporters put in front of
// property names, after decomposing so accents on letters survive.
// Chained transformers carry state, so each call gets its own.
func headerGlyphs() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.So)), norm.NFC)
}

// NormalizeHeader folds a header cell for case- and glyph-insensitive matching.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
	h, _, _ = transform.String(headerGlyphs(), h)
	return strings.Join(strings.Fields(strings.ToLower(CleanCell(h))), " ")
}

func headerKey(column string) string {
	return NormalizeHeader(column)
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// The first occurrence wins when two headers normalize to the same key.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// CleanCell removes common CSV artifacts from a cell value:
// surrounding whitespace, the spreadsheet formula wrapper (="...") and quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	}

	return strings.TrimSpace(strings.Trim(s, `"`))
}

// ToPgInt4 wraps an identifier, treating ok=false as null.
func ToPgInt4(id int32, ok bool) pgtype.Int4 {
	return pgtype.Int4{Int32: id, Valid: ok}
}

// ToPgOrdinal stores a row ordinal; zero means unknown.
func ToPgOrdinal(ordinal int) pgtype.Int4 {
	if ordinal <= 0 {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(ordinal), Valid: true}
}

// ToPgUUID converts an owner id for the store.
func ToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}
