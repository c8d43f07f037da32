// Package core provides the business logic for importing Notion GTD exports.
//
// It is independent of any transport: the CLI and the HTTP server both
// drive a [Service], and tests drive it against an in-memory store.
//
// # Entity Registry
//
// Each importable entity registers an [EntityDefinition] at init time:
//
//	core.Register(core.EntityDefinition{
//	    Info: core.EntityInfo{Key: "projects", Label: "Project", FilePattern: "Projects*.csv"},
//	    Transform: transformProject,
//	    Copy:      copyProjects,
//	    Insert:    insertProject,
//	})
//
// # Run Flow
//
//  1. The source file is resolved, either given or discovered in the data dir
//  2. The owner's advisory lock is taken
//  3. Rows are streamed through BOM stripping and UTF-8 sanitization,
//     matched by header name and transformed into records
//  4. Existing rows for the owner are truncated after confirmation
//  5. Records are written in batches; a rejected batch falls back to
//     single inserts so only the bad record is lost
//
// References to fields and projects are resolved through a [LookupCache]
// that falls back to built-in defaults when the store cannot be read.
//
// # Error Handling
//
// Run-level errors are mapped to coded operator messages with [MapError].
// Row-level problems never abort a run; they are returned as [FailedRow]s.
package core
