package entities

import "github.com/koeppern/gtd-system-sub000/internal/core"

// cell returns the first non-empty value among the given column names.
// Property names drift between export versions; the first name is the
// current one and the rest are older spellings.
func cell(row core.SourceRow, names ...string) string {
	for _, name := range names {
		if v := row.Get(name); v != "" {
			return v
		}
	}
	return ""
}
