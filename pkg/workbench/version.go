// Package workbench holds module-level metadata.
package workbench

// Version is the workbench release version.
const Version = "0.3.0"
