// Package types defines the workbench domain model: entity references,
// links, evidence, feedback, pending (unpersisted) records, relationship
// slots, the action result envelope, and the standard errors shared by the
// storage backend and the relationship sync layer.
// See docs/ARCHITECTURE.md § Domain Model.
package types
