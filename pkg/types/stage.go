// Journey stage and touchpoint entities. Both carry an integer sequence used
// for display order; reordering goes through the backend's atomic reorder
// primitive, never through individual row updates.
package types

import "time"

// Stage is one step of a user journey.
type Stage struct {
	// StageID is a UUID v7, generated on creation.
	StageID string `json:"stage_id"`

	// JourneyID is the owning user journey.
	JourneyID string `json:"journey_id"`

	// Name is the human-readable stage name (required, non-empty).
	Name string `json:"name"`

	// Sequence is the 0-based display position among siblings.
	Sequence int `json:"sequence"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touchpoint channel constants.
const (
	ChannelWeb      = "web"
	ChannelEmail    = "email"
	ChannelPhone    = "phone"
	ChannelInPerson = "in_person"
	ChannelOther    = "other"
)

var validChannels = map[string]bool{
	ChannelWeb: true, ChannelEmail: true, ChannelPhone: true,
	ChannelInPerson: true, ChannelOther: true,
}

// ValidChannel reports whether c is a recognized touchpoint channel.
func ValidChannel(c string) bool {
	return validChannels[c]
}

// Touchpoint is one interaction within a journey stage.
type Touchpoint struct {
	// TouchpointID is a UUID v7, generated on creation.
	TouchpointID string `json:"touchpoint_id"`

	// StageID is the owning journey stage.
	StageID string `json:"stage_id"`

	// Name is the human-readable touchpoint name (required, non-empty).
	Name string `json:"name"`

	// Channel is one of the Channel constants.
	Channel string `json:"channel"`

	// Sequence is the 0-based display position among siblings.
	Sequence int `json:"sequence"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
