// Package validate implements pure, stateless normalization and validation of
// untrusted RSVP input against the fixed domain enumerations. Every write
// path, guest-facing or admin, goes through these checks before anything is
// persisted.
package validate

import (
	"fmt"
	"strings"

	"github.com/ybenamar/guestlist/internal/model"
)

// NormalizedGuest is the cleaned result of validating one guest entry.
// Callers persist these values, never the raw input.
type NormalizedGuest struct {
	Name      string
	Locations []model.Location
	Dietary   model.DietaryPreferences
	Age       model.AgeCategory
}

// GuestFields validates a submitted guest entry against the owning group's
// invited venues. Required fields must be present: omission is a hard error,
// not a default. The only documented default is the age category, which
// becomes adult when the field is absent entirely (present-but-empty still
// fails).
func GuestFields(sub model.GuestSubmission, groupLocations []model.Location) (NormalizedGuest, error) {
	var out NormalizedGuest

	if sub.Name == nil {
		return out, model.NewValidationError(model.FieldName, "name is required")
	}
	if sub.AttendingLocations == nil {
		return out, model.NewValidationError(model.FieldLocation, "attending_locations is required")
	}
	if sub.Dietary == nil {
		return out, model.NewValidationError(model.FieldDietary, "dietary_preferences is required")
	}

	name := strings.TrimSpace(*sub.Name)
	if name == "" {
		return out, model.NewValidationError(model.FieldName, "name must not be empty")
	}
	if len(name) > model.MaxNameLen {
		return out, model.NewValidationError(model.FieldName, "name exceeds 200 characters")
	}

	locs := model.DedupeLocations(model.LocationsFromStrings(*sub.AttendingLocations))

	if err := sub.Dietary.Validate(); err != nil {
		return out, err
	}

	age := model.AgeAdult
	if sub.AgeCategory != nil {
		age = model.AgeCategory(*sub.AgeCategory)
		if !model.ValidAgeCategory(age) {
			return out, model.NewValidationError(model.FieldAge, fmt.Sprintf("unknown age category %q", age))
		}
	}

	// Two distinct checks: a venue can be globally known yet not offered to
	// this particular group.
	for _, loc := range locs {
		if !model.ValidLocation(loc) {
			return out, model.NewValidationError(model.FieldLocation, fmt.Sprintf("unknown location %q", loc))
		}
		if !model.ContainsLocation(groupLocations, loc) {
			return out, model.NewValidationError(model.FieldLocation, fmt.Sprintf("location %q is not offered to this group", loc))
		}
	}

	out.Name = name
	out.Locations = locs
	out.Dietary = *sub.Dietary
	out.Age = age
	return out, nil
}

// SingleLocation runs the global-then-group check for operations that touch
// a single venue.
func SingleLocation(loc string, groupLocations []model.Location) (model.Location, error) {
	l := model.Location(loc)
	if !model.ValidLocation(l) {
		return "", model.NewValidationError(model.FieldLocation, fmt.Sprintf("unknown location %q", loc))
	}
	if !model.ContainsLocation(groupLocations, l) {
		return "", model.NewValidationError(model.FieldLocation, fmt.Sprintf("location %q is not offered to this group", loc))
	}
	return l, nil
}

// Email checks the optional contact email: bounded and, when present,
// structurally valid. Callers trim before passing.
func Email(email string) error {
	if len(email) > model.MaxEmailLen {
		return model.NewValidationError(model.FieldEmail, "email exceeds 254 characters")
	}
	if email != "" && !isValidEmail(email) {
		return model.NewValidationError(model.FieldEmail, "email is not structurally valid")
	}
	return nil
}

// Notes bounds the free-text notes a group can attach.
func Notes(notes string) error {
	if len(notes) > model.MaxNotesLen {
		return model.NewValidationError(model.FieldNotes, "notes exceed 2000 characters")
	}
	return nil
}

// PartySize bounds the group party-size ceiling.
func PartySize(n int) error {
	if n < model.MinPartySize || n > model.MaxPartySize {
		return model.NewValidationError(model.FieldPartySize, "party size must be between 1 and 20")
	}
	return nil
}

// GroupFields validates and normalizes an admin create-group request.
func GroupFields(req model.CreateGroupRequest) (model.Group, error) {
	var g model.Group

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return g, model.NewValidationError(model.FieldName, "name must not be empty")
	}
	if len(name) > model.MaxNameLen {
		return g, model.NewValidationError(model.FieldName, "name exceeds 200 characters")
	}

	email := strings.TrimSpace(req.Email)
	if err := Email(email); err != nil {
		return g, err
	}

	if err := PartySize(req.PartySize); err != nil {
		return g, err
	}

	locs, err := GroupLocations(req.Locations)
	if err != nil {
		return g, err
	}

	lang := model.Language(req.Language)
	if !model.ValidLanguage(lang) {
		return g, model.NewValidationError(model.FieldLanguage, fmt.Sprintf("unknown language %q", req.Language))
	}

	if err := Notes(req.Notes); err != nil {
		return g, err
	}

	g.Name = name
	g.Email = email
	g.PartySize = req.PartySize
	g.Locations = locs
	g.Language = lang
	g.Notes = req.Notes
	g.InvitedBy = req.InvitedBy
	return g, nil
}

// GroupLocations validates the invited-venue set of a group: non-empty,
// globally known, deduplicated.
func GroupLocations(raw []string) ([]model.Location, error) {
	locs := model.DedupeLocations(model.LocationsFromStrings(raw))
	if len(locs) == 0 {
		return nil, model.NewValidationError(model.FieldLocation, "a group must be invited to at least one location")
	}
	for _, loc := range locs {
		if !model.ValidLocation(loc) {
			return nil, model.NewValidationError(model.FieldLocation, fmt.Sprintf("unknown location %q", loc))
		}
	}
	return locs, nil
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
