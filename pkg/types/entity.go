package types

import "time"

// Entity type tags. Every addressable record carries one of these; the set is
// closed and table routing is driven by it (docs/ARCHITECTURE.md Decision 2).
const (
	TypeAssumption   = "assumption"
	TypeHypothesis   = "hypothesis"
	TypeExperiment   = "experiment"
	TypeUserJourney  = "user_journey"
	TypeJourneyStage = "journey_stage"
	TypeTouchpoint   = "touchpoint"
	TypeCanvas       = "business_model_canvas"
	TypeSpecimen     = "specimen"
	TypeVenture      = "venture"
)

// validEntityTypes is the set of recognized entity type tags.
var validEntityTypes = map[string]bool{
	TypeAssumption:   true,
	TypeHypothesis:   true,
	TypeExperiment:   true,
	TypeUserJourney:  true,
	TypeJourneyStage: true,
	TypeTouchpoint:   true,
	TypeCanvas:       true,
	TypeSpecimen:     true,
	TypeVenture:      true,
}

// ValidEntityType reports whether t is a recognized entity type tag.
func ValidEntityType(t string) bool {
	return validEntityTypes[t]
}

// CatalogTypes lists the entity types stored in the entities table. Stages
// and touchpoints live in their own tables because they carry a sequence.
var CatalogTypes = []string{
	TypeAssumption,
	TypeHypothesis,
	TypeExperiment,
	TypeUserJourney,
	TypeCanvas,
	TypeSpecimen,
	TypeVenture,
}

// CatalogType reports whether t is stored in the entities table.
func CatalogType(t string) bool {
	for _, ct := range CatalogTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// EntityRef identifies any addressable record as a (type, id) pair. ID is
// empty for an entity that has not been persisted yet (create mode).
type EntityRef struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// Require validates that the reference names a known entity type and carries
// a persisted id. Sync operations call this before issuing any write;
// a reference without an id fails with ErrMissingIdentifier.
func (r EntityRef) Require() error {
	if !ValidEntityType(r.Type) {
		return ErrInvalidEntityType
	}
	if r.ID == "" {
		return ErrMissingIdentifier
	}
	return nil
}

// Entity statuses. Records progress draft → active → validated/invalidated,
// and any status can be archived.
const (
	StatusDraft       = "draft"
	StatusActive      = "active"
	StatusValidated   = "validated"
	StatusInvalidated = "invalidated"
	StatusArchived    = "archived"
)

// validStatuses is the set of recognized entity status values.
var validStatuses = map[string]bool{
	StatusDraft:       true,
	StatusActive:      true,
	StatusValidated:   true,
	StatusInvalidated: true,
	StatusArchived:    true,
}

// ValidStatus reports whether s is a recognized status value.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// Entity is a polymorphic catalog record: an assumption, hypothesis,
// experiment, journey, canvas, specimen, or venture. Type-specific data
// lives in Fields, keyed by field name.
type Entity struct {
	// EntityID is a UUID v7, generated on creation.
	EntityID string `json:"entity_id"`

	// EntityType is one of the Type constants (catalog types only).
	EntityType string `json:"entity_type"`

	// Title is the human-readable name (required, non-empty).
	Title string `json:"title"`

	// Slug is URL-safe and unique per entity type.
	Slug string `json:"slug"`

	// Status is one of the Status constants.
	Status string `json:"status"`

	// Summary is optional free text.
	Summary string `json:"summary,omitempty"`

	// Fields holds type-specific values keyed by field name.
	Fields map[string]any `json:"fields,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the entity's reference.
func (e *Entity) Ref() EntityRef {
	return EntityRef{Type: e.EntityType, ID: e.EntityID}
}

// DisplayLabel resolves the value of a display field. "title" and "slug"
// map to the corresponding struct fields; anything else is looked up in
// Fields. Falls back to Title when the field is absent or not a string.
func (e *Entity) DisplayLabel(field string) string {
	switch field {
	case "", "title":
		return e.Title
	case "slug":
		return e.Slug
	}
	if v, ok := e.Fields[field]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return e.Title
}

// SetStatus sets the entity status. Returns ErrInvalidStatus for an
// unrecognized value. Idempotent for the current status.
func (e *Entity) SetStatus(status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	return nil
}
