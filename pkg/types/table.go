package types

import "errors"

// Filter narrows Fetch results; keys and value types are table-specific.
type Filter map[string]any

// Table provides uniform CRUD operations for a single record type.
// Get and Fetch return any; callers type-assert to the concrete struct.
type Table interface {
	// Get retrieves the record with the given ID.
	// Returns ErrNotFound if no record exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates a record. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the record with the given ID.
	// Returns ErrNotFound if no record exists with that ID.
	Delete(id string) error

	// Fetch returns all records matching the filter. An empty filter
	// returns every record in the table.
	Fetch(filter Filter) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidID     = errors.New("invalid record ID")
	ErrInvalidData   = errors.New("invalid record data")
	ErrInvalidFilter = errors.New("invalid filter value type")
	ErrTableNotFound = errors.New("table not found")
	ErrDetached      = errors.New("backend is not attached")
	ErrAttached      = errors.New("backend is already attached")
)

// Domain validation errors.
var (
	ErrMissingIdentifier   = errors.New("entity reference has no identifier")
	ErrInvalidEntityType   = errors.New("invalid entity type")
	ErrInvalidLinkType     = errors.New("invalid link type")
	ErrInvalidStatus       = errors.New("invalid status value")
	ErrInvalidTitle        = errors.New("title must not be empty")
	ErrInvalidName         = errors.New("name must not be empty")
	ErrInvalidEvidenceType = errors.New("invalid evidence type")
	ErrInvalidHatType      = errors.New("invalid hat type")
	ErrInvalidFeedbackType = errors.New("invalid feedback type")
	ErrInvalidChannel      = errors.New("invalid touchpoint channel")
	ErrConfidenceRange     = errors.New("confidence must be between 0 and 1")
	ErrDuplicateSlug       = errors.New("slug already in use")
	ErrSlotNotFound        = errors.New("no relationship slot for link and target type")
	ErrDuplicateLink       = errors.New("link already exists")
	ErrSequenceSetMismatch = errors.New("reorder ids do not match current siblings")
	ErrMoveOutOfRange      = errors.New("move target position out of range")
)
