// Pending records: denormalized, display-ready stand-ins for links, evidence,
// and feedback collected by a create-mode form before the parent entity has
// a persisted id. They are replayed as real writes once the id is known.
package types

// PendingLink is a prospective link held in memory during a create flow.
// TargetLabel exists purely so the UI can render the chosen target without a
// round-trip; it is never persisted.
type PendingLink struct {
	// TargetType and TargetID identify the already-persisted other side.
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`

	// TargetLabel is the display label captured at selection time.
	TargetLabel string `json:"target_label,omitempty"`

	// LinkType is one of the LinkType constants.
	LinkType string `json:"link_type"`

	Notes string `json:"notes,omitempty"`
}

// Validate checks the pending link's type tags and target id.
func (p PendingLink) Validate() error {
	if !ValidLinkType(p.LinkType) {
		return ErrInvalidLinkType
	}
	if !ValidEntityType(p.TargetType) {
		return ErrInvalidEntityType
	}
	if p.TargetID == "" {
		return ErrInvalidData
	}
	return nil
}

// PendingEvidence is an unpersisted evidence item buffered during a create
// flow. Flushed to an Evidence row once the parent id exists.
type PendingEvidence struct {
	EvidenceType string  `json:"evidence_type"`
	Title        string  `json:"title,omitempty"`
	Content      string  `json:"content,omitempty"`
	SourceURL    string  `json:"source_url,omitempty"`
	Confidence   float64 `json:"confidence"`
	Supports     bool    `json:"supports"`
}

// Validate checks the pending evidence item's enumerated values and ranges.
func (p PendingEvidence) Validate() error {
	if !ValidEvidenceType(p.EvidenceType) {
		return ErrInvalidEvidenceType
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return ErrConfidenceRange
	}
	return nil
}

// Materialize converts the pending item into an Evidence row stamped with
// the parent reference. The id and timestamp are assigned by the backend.
func (p PendingEvidence) Materialize(parent EntityRef) *Evidence {
	return &Evidence{
		EntityType:   parent.Type,
		EntityID:     parent.ID,
		EvidenceType: p.EvidenceType,
		Title:        p.Title,
		Content:      p.Content,
		SourceURL:    p.SourceURL,
		Confidence:   p.Confidence,
		Supports:     p.Supports,
	}
}

// PendingFeedback is an unpersisted feedback item buffered during a create
// flow.
type PendingFeedback struct {
	HatType      string `json:"hat_type"`
	FeedbackType string `json:"feedback_type"`
	Content      string `json:"content,omitempty"`
	Supports     *bool  `json:"supports,omitempty"`
}

// Validate checks the pending feedback item's enumerated values.
func (p PendingFeedback) Validate() error {
	if !ValidHatType(p.HatType) {
		return ErrInvalidHatType
	}
	if !ValidFeedbackType(p.FeedbackType) {
		return ErrInvalidFeedbackType
	}
	return nil
}

// Materialize converts the pending item into a Feedback row stamped with the
// parent reference.
func (p PendingFeedback) Materialize(parent EntityRef) *Feedback {
	return &Feedback{
		EntityType:   parent.Type,
		EntityID:     parent.ID,
		HatType:      p.HatType,
		FeedbackType: p.FeedbackType,
		Content:      p.Content,
		Supports:     p.Supports,
	}
}
