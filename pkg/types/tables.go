package types

// Standard table names accepted by Backend.GetTable.
const (
	TableEntities    = "entities"
	TableLinks       = "links"
	TableEvidence    = "evidence"
	TableFeedback    = "feedback"
	TableStages      = "stages"
	TableTouchpoints = "touchpoints"
)

// TableNames lists every standard table, in schema order.
var TableNames = []string{
	TableEntities,
	TableLinks,
	TableEvidence,
	TableFeedback,
	TableStages,
	TableTouchpoints,
}
