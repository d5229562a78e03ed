package types

import "testing"

func TestPendingLinkValidate(t *testing.T) {
	tests := []struct {
		name    string
		link    PendingLink
		wantErr error
	}{
		{
			name: "valid pending link",
			link: PendingLink{TargetType: TypeAssumption, TargetID: "a1", LinkType: LinkTypeTests},
		},
		{
			name:    "unknown link type",
			link:    PendingLink{TargetType: TypeAssumption, TargetID: "a1", LinkType: "points_at"},
			wantErr: ErrInvalidLinkType,
		},
		{
			name:    "unknown target type",
			link:    PendingLink{TargetType: "widget", TargetID: "a1", LinkType: LinkTypeTests},
			wantErr: ErrInvalidEntityType,
		},
		{
			name:    "missing target id",
			link:    PendingLink{TargetType: TypeAssumption, LinkType: LinkTypeTests},
			wantErr: ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.link.Validate(); err != tt.wantErr {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPendingEvidenceMaterialize(t *testing.T) {
	p := PendingEvidence{
		EvidenceType: EvidenceInterview,
		Title:        "Churn interview",
		Confidence:   0.7,
		Supports:     false,
	}
	parent := EntityRef{Type: TypeHypothesis, ID: "h1"}

	ev := p.Materialize(parent)
	if ev.EntityType != TypeHypothesis || ev.EntityID != "h1" {
		t.Fatalf("parent stamp = (%s, %s)", ev.EntityType, ev.EntityID)
	}
	if ev.EvidenceID != "" {
		t.Fatal("id must be assigned by the backend, not Materialize")
	}
	if ev.Supports {
		t.Fatal("supports flag lost")
	}
}

func TestPendingEvidenceValidate(t *testing.T) {
	p := PendingEvidence{EvidenceType: EvidenceSurvey, Confidence: 1.2}
	if err := p.Validate(); err != ErrConfidenceRange {
		t.Fatalf("expected ErrConfidenceRange, got %v", err)
	}
	p = PendingEvidence{EvidenceType: "gossip", Confidence: 0.5}
	if err := p.Validate(); err != ErrInvalidEvidenceType {
		t.Fatalf("expected ErrInvalidEvidenceType, got %v", err)
	}
}

func TestPendingFeedbackMaterialize(t *testing.T) {
	yes := true
	p := PendingFeedback{HatType: HatBlack, FeedbackType: FeedbackConcern, Supports: &yes}
	fb := p.Materialize(EntityRef{Type: TypeCanvas, ID: "c1"})
	if fb.EntityType != TypeCanvas || fb.EntityID != "c1" {
		t.Fatalf("parent stamp = (%s, %s)", fb.EntityType, fb.EntityID)
	}
	if fb.Supports == nil || !*fb.Supports {
		t.Fatal("tri-state stance lost")
	}

	neutral := PendingFeedback{HatType: HatBlue, FeedbackType: FeedbackComment}
	if got := neutral.Materialize(EntityRef{Type: TypeCanvas, ID: "c1"}); got.Supports != nil {
		t.Fatal("neutral stance should stay nil")
	}
}
