package model

import (
	"time"

	"github.com/google/uuid"
)

// GuestOrigin records who created a guest. Guests created by an admin are
// never deleted by the RSVP flow; guests the invitees added themselves are
// pruned when omitted from a later submission.
type GuestOrigin string

const (
	OriginAdmin GuestOrigin = "admin"
	OriginSelf  GuestOrigin = "self"
)

// Guest is an individual invitee belonging to exactly one group.
type Guest struct {
	ID                 uuid.UUID          `json:"id"`
	GroupID            uuid.UUID          `json:"group_id"`
	Name               string             `json:"name"`
	AttendingLocations []Location         `json:"attending_locations"`
	Dietary            DietaryPreferences `json:"dietary_preferences"`
	AgeCategory        AgeCategory        `json:"age_category"`
	Origin             GuestOrigin        `json:"origin"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Attending reports whether the guest attends the given venue. Value
// receiver so it can be called on map and slice elements directly.
func (g Guest) Attending(loc Location) bool {
	return ContainsLocation(g.AttendingLocations, loc)
}

// SetAttending adds or removes loc from the guest's attending set.
// Idempotent: adding a present venue or removing an absent one is a no-op.
func (g *Guest) SetAttending(loc Location, attending bool) {
	if attending {
		if !g.Attending(loc) {
			g.AttendingLocations = append(g.AttendingLocations, loc)
		}
		return
	}
	for i, l := range g.AttendingLocations {
		if l == loc {
			g.AttendingLocations = append(g.AttendingLocations[:i], g.AttendingLocations[i+1:]...)
			return
		}
	}
}

// GuestSubmission is one untrusted guest entry from the RSVP form. Pointer
// fields distinguish "absent" from "present but empty": required fields must
// be present, and age_category defaults to adult only when absent entirely.
type GuestSubmission struct {
	ID                 *string             `json:"id"`
	Name               *string             `json:"name"`
	AttendingLocations *[]string           `json:"attending_locations"`
	Dietary            *DietaryPreferences `json:"dietary_preferences"`
	AgeCategory        *string             `json:"age_category"`
}

// Attendee is the per-venue listing row: who is coming and what they eat.
type Attendee struct {
	GuestID uuid.UUID          `json:"guest_id"`
	Name    string             `json:"name"`
	Dietary DietaryPreferences `json:"dietary_preferences"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalGuests         int              `json:"total_guests"`
	TotalConfirmed      int              `json:"total_confirmed"`
	PendingRSVPs        int              `json:"pending_rsvps"`
	GuestsByLocation    map[Location]int `json:"guests_by_location"`
	MultiLocationGroups int              `json:"multi_location_groups"`
	Vegetarian          int              `json:"vegetarian"`
	Vegan               int              `json:"vegan"`
	Halal               int              `json:"halal"`
	NoPork              int              `json:"no_pork"`
	GlutenFree          int              `json:"gluten_free"`
	OtherDietary        int              `json:"other_dietary"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a stable machine-readable kind alongside the message.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
