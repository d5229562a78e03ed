// Link entity represents directed, typed associations between entity records.
// See docs/ARCHITECTURE.md § Relationship Model.
package types

import "time"

// Link type constants (docs/ARCHITECTURE.md Decision 3).
const (
	LinkTypeRelated   = "related"   // generic association, any type pair
	LinkTypeTests     = "tests"     // hypothesis → assumption, experiment → hypothesis
	LinkTypeContains  = "contains"  // journey → touchpoint, canvas → canvas block
	LinkTypeAddresses = "addresses" // venture → assumption/canvas
	LinkTypeTargets   = "targets"   // experiment → specimen, journey → specimen
)

// validLinkTypes is the set of recognized link type values.
var validLinkTypes = map[string]bool{
	LinkTypeRelated:   true,
	LinkTypeTests:     true,
	LinkTypeContains:  true,
	LinkTypeAddresses: true,
	LinkTypeTargets:   true,
}

// ValidLinkType reports whether t is a recognized link type.
func ValidLinkType(t string) bool {
	return validLinkTypes[t]
}

// Link is a persisted directed edge between two entity references.
// The (link_type, source_type, source_id, target_type, target_id) tuple is
// unique; the sync layer diffs against existing rows rather than
// blind-inserting, and the backend enforces a unique index as backstop.
type Link struct {
	// LinkID is a UUID v7, generated on creation.
	LinkID string `json:"link_id"`

	// LinkType is one of the LinkType constants.
	LinkType string `json:"link_type"`

	// SourceType and SourceID identify the edge's source record.
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`

	// TargetType and TargetID identify the edge's target record.
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`

	// Notes is optional free text attached to the association.
	Notes string `json:"notes,omitempty"`

	// Position orders links within an ordered relationship slot.
	// 0-based and contiguous among siblings; 0 for unordered slots.
	Position int `json:"position"`

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time `json:"created_at"`
}

// Source returns the link's source reference.
func (l *Link) Source() EntityRef {
	return EntityRef{Type: l.SourceType, ID: l.SourceID}
}

// Target returns the link's target reference.
func (l *Link) Target() EntityRef {
	return EntityRef{Type: l.TargetType, ID: l.TargetID}
}

// Validate checks the link's type tags and endpoint ids.
func (l *Link) Validate() error {
	if !ValidLinkType(l.LinkType) {
		return ErrInvalidLinkType
	}
	if !ValidEntityType(l.SourceType) || !ValidEntityType(l.TargetType) {
		return ErrInvalidEntityType
	}
	if l.SourceID == "" || l.TargetID == "" {
		return ErrInvalidData
	}
	return nil
}
