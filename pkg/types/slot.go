// Relationship slots: declarative metadata describing which relationship
// categories each parent entity type exposes, and in which direction the
// join is queried. Configuration, not stored state.
package types

// Link directions. Outbound slots query links where the parent is the
// source; inbound slots query links where the parent is the target.
const (
	DirOutbound = "outbound"
	DirInbound  = "inbound"
)

// Slot defines one relationship category for a parent entity type.
type Slot struct {
	// TargetType is the entity type on the opposite side of the link.
	TargetType string

	// LinkType is the link type the slot manages.
	LinkType string

	// Label names the slot in UI output ("Tested by", "Value Propositions").
	Label string

	// Group collects slots under a display heading.
	Group string

	// DisplayField is the opposite entity's field used as its label.
	DisplayField string

	// Direction is DirOutbound (default) or DirInbound.
	Direction string

	// Ordered marks slots whose links carry a position that must stay
	// 0-based and contiguous across add/remove/reorder.
	Ordered bool
}

// Inbound reports whether the slot queries links with the parent as target.
func (s Slot) Inbound() bool {
	return s.Direction == DirInbound
}

// slotRegistry maps each parent entity type to its exposed slots, in display
// order.
var slotRegistry = map[string][]Slot{
	TypeAssumption: {
		{TargetType: TypeHypothesis, LinkType: LinkTypeTests, Label: "Tested by", Group: "Validation", DisplayField: "title", Direction: DirInbound},
		{TargetType: TypeVenture, LinkType: LinkTypeAddresses, Label: "Addressed by", Group: "Context", DisplayField: "title", Direction: DirInbound},
		{TargetType: TypeAssumption, LinkType: LinkTypeRelated, Label: "Related assumptions", Group: "Context", DisplayField: "title"},
	},
	TypeHypothesis: {
		{TargetType: TypeAssumption, LinkType: LinkTypeTests, Label: "Tests assumption", Group: "Validation", DisplayField: "title"},
		{TargetType: TypeExperiment, LinkType: LinkTypeTests, Label: "Experiments", Group: "Validation", DisplayField: "title", Direction: DirInbound},
	},
	TypeExperiment: {
		{TargetType: TypeHypothesis, LinkType: LinkTypeTests, Label: "Tests hypothesis", Group: "Validation", DisplayField: "title"},
		{TargetType: TypeSpecimen, LinkType: LinkTypeTargets, Label: "Specimens", Group: "Subjects", DisplayField: "title"},
	},
	TypeUserJourney: {
		{TargetType: TypeSpecimen, LinkType: LinkTypeTargets, Label: "Persona", Group: "Subjects", DisplayField: "title"},
		{TargetType: TypeCanvas, LinkType: LinkTypeRelated, Label: "Canvases", Group: "Context", DisplayField: "title"},
	},
	TypeCanvas: {
		{TargetType: TypeCanvas, LinkType: LinkTypeRelated, Label: "Value Propositions", Group: "Model", DisplayField: "title", Ordered: true},
		{TargetType: TypeAssumption, LinkType: LinkTypeRelated, Label: "Assumptions", Group: "Validation", DisplayField: "title"},
		{TargetType: TypeVenture, LinkType: LinkTypeAddresses, Label: "Ventures", Group: "Context", DisplayField: "title", Direction: DirInbound},
	},
	TypeSpecimen: {
		{TargetType: TypeExperiment, LinkType: LinkTypeTargets, Label: "Experiments", Group: "Validation", DisplayField: "title", Direction: DirInbound},
		{TargetType: TypeUserJourney, LinkType: LinkTypeTargets, Label: "Journeys", Group: "Context", DisplayField: "title", Direction: DirInbound},
	},
	TypeVenture: {
		{TargetType: TypeAssumption, LinkType: LinkTypeAddresses, Label: "Assumptions", Group: "Validation", DisplayField: "title"},
		{TargetType: TypeCanvas, LinkType: LinkTypeAddresses, Label: "Canvases", Group: "Model", DisplayField: "title"},
	},
}

// SlotsFor returns the relationship slots exposed for a parent entity type,
// in display order. Returns nil for types with no configured slots.
func SlotsFor(entityType string) []Slot {
	return slotRegistry[entityType]
}
