// Evidence and feedback entities: free-form supporting or refuting material
// attached to any entity record via a polymorphic (entity_type, entity_id)
// pair.
package types

import "time"

// Evidence type constants.
const (
	EvidenceInterview     = "interview"
	EvidenceSurvey        = "survey"
	EvidenceAnalytics     = "analytics"
	EvidenceResearch      = "research"
	EvidenceObservation   = "observation"
	EvidencePrototypeTest = "prototype_test"
)

// validEvidenceTypes is the set of recognized evidence type values.
var validEvidenceTypes = map[string]bool{
	EvidenceInterview:     true,
	EvidenceSurvey:        true,
	EvidenceAnalytics:     true,
	EvidenceResearch:      true,
	EvidenceObservation:   true,
	EvidencePrototypeTest: true,
}

// ValidEvidenceType reports whether t is a recognized evidence type.
func ValidEvidenceType(t string) bool {
	return validEvidenceTypes[t]
}

// Feedback hat constants (perspective the feedback was given from).
const (
	HatWhite  = "white"
	HatRed    = "red"
	HatBlack  = "black"
	HatYellow = "yellow"
	HatGreen  = "green"
	HatBlue   = "blue"
)

// Feedback type constants.
const (
	FeedbackComment    = "comment"
	FeedbackConcern    = "concern"
	FeedbackSuggestion = "suggestion"
	FeedbackQuestion   = "question"
)

var validHatTypes = map[string]bool{
	HatWhite: true, HatRed: true, HatBlack: true,
	HatYellow: true, HatGreen: true, HatBlue: true,
}

var validFeedbackTypes = map[string]bool{
	FeedbackComment:    true,
	FeedbackConcern:    true,
	FeedbackSuggestion: true,
	FeedbackQuestion:   true,
}

// ValidHatType reports whether t is a recognized hat type.
func ValidHatType(t string) bool {
	return validHatTypes[t]
}

// ValidFeedbackType reports whether t is a recognized feedback type.
func ValidFeedbackType(t string) bool {
	return validFeedbackTypes[t]
}

// Evidence is a persisted evidence item attached to an entity.
// Supports is a hard boolean: evidence either supports or refutes.
type Evidence struct {
	// EvidenceID is a UUID v7, generated on creation.
	EvidenceID string `json:"evidence_id"`

	// EntityType and EntityID identify the record this item annotates.
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`

	// EvidenceType is one of the Evidence constants.
	EvidenceType string `json:"evidence_type"`

	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	SourceURL string `json:"source_url,omitempty"`

	// Confidence is a probability-like scalar in [0, 1].
	Confidence float64 `json:"confidence"`

	// Supports is true for supporting material, false for refuting.
	Supports bool `json:"supports"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the evidence item's enumerated values and ranges.
func (e *Evidence) Validate() error {
	if !ValidEvidenceType(e.EvidenceType) {
		return ErrInvalidEvidenceType
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return ErrConfidenceRange
	}
	return nil
}

// Feedback is a persisted feedback item attached to an entity. Unlike
// evidence, stance is tri-state: Supports nil means neutral.
type Feedback struct {
	// FeedbackID is a UUID v7, generated on creation.
	FeedbackID string `json:"feedback_id"`

	// EntityType and EntityID identify the record this item annotates.
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`

	// HatType is one of the Hat constants.
	HatType string `json:"hat_type"`

	// FeedbackType is one of the Feedback constants.
	FeedbackType string `json:"feedback_type"`

	Content string `json:"content,omitempty"`

	// Supports is true for supporting, false for refuting, nil for neutral.
	Supports *bool `json:"supports,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the feedback item's enumerated values.
func (f *Feedback) Validate() error {
	if !ValidHatType(f.HatType) {
		return ErrInvalidHatType
	}
	if !ValidFeedbackType(f.FeedbackType) {
		return ErrInvalidFeedbackType
	}
	return nil
}
