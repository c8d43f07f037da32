// Package entities registers the Notion export entities with the core registry.
// Import this package to ensure all entities are registered.
package entities

// Projects register before tasks (Order 1 and 2) so an import-all run can
// resolve task references against freshly loaded projects.
