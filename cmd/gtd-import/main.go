// Command gtd-import loads Notion GTD exports (projects and tasks CSVs)
// into PostgreSQL for one owner.
package main

import (
	_ "github.com/koeppern/gtd-system-sub000/internal/core/entities" // Register projects and tasks
)

func main() {
	Execute()
}
