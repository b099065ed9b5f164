package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybenamar/guestlist/internal/model"
)

func strPtr(s string) *string { return &s }

func locPtr(locs ...string) *[]string { return &locs }

func dietPtr(d model.DietaryPreferences) *model.DietaryPreferences { return &d }

var bothVenues = []model.Location{model.LocationSardinia, model.LocationTunisia}

func TestGuestFields(t *testing.T) {
	tt := []struct {
		name      string
		sub       model.GuestSubmission
		wantField string // empty means no error expected
		wantName  string
		wantLocs  []model.Location
		wantAge   model.AgeCategory
	}{
		{
			name: "trims, dedupes and defaults age",
			sub: model.GuestSubmission{
				Name:               strPtr("  Bob  "),
				AttendingLocations: locPtr("sardinia", "sardinia", "tunisia"),
				Dietary:            dietPtr(model.DietaryPreferences{}),
			},
			wantName: "Bob",
			wantLocs: bothVenues,
			wantAge:  model.AgeAdult,
		},
		{
			name: "explicit age kept",
			sub: model.GuestSubmission{
				Name:               strPtr("Mina"),
				AttendingLocations: locPtr("tunisia"),
				Dietary:            dietPtr(model.DietaryPreferences{Halal: true}),
				AgeCategory:        strPtr("child_under_3"),
			},
			wantName: "Mina",
			wantLocs: []model.Location{model.LocationTunisia},
			wantAge:  model.AgeChildUnder3,
		},
		{
			name: "missing name",
			sub: model.GuestSubmission{
				AttendingLocations: locPtr("sardinia"),
				Dietary:            dietPtr(model.DietaryPreferences{}),
			},
			wantField: model.FieldName,
		},
		{
			name: "missing locations",
			sub: model.GuestSubmission{
				Name:    strPtr("Bob"),
				Dietary: dietPtr(model.DietaryPreferences{}),
			},
			wantField: model.FieldLocation,
		},
		{
			name: "missing dietary",
			sub: model.GuestSubmission{
				Name:               strPtr("Bob"),
				AttendingLocations: locPtr("sardinia"),
			},
			wantField: model.FieldDietary,
		},
		{
			name: "whitespace-only name",
			sub: model.GuestSubmission{
				Name:               strPtr("   "),
				AttendingLocations: locPtr("sardinia"),
				Dietary:            dietPtr(model.DietaryPreferences{}),
			},
			wantField: model.FieldName,
		},
		{
			name: "name too long",
			sub: model.GuestSubmission{
				Name:               strPtr(strings.Repeat("a", model.MaxNameLen+1)),
				AttendingLocations: locPtr("sardinia"),
				Dietary:            dietPtr(model.DietaryPreferences{}),
			},
			wantField: model.FieldName,
		},
		{
			name: "present-but-empty age is an error, not a default",
			sub: model.GuestSubmission{
				Name:               strPtr("Bob"),
				AttendingLocations: locPtr("sardinia"),
				Dietary:            dietPtr(model.DietaryPreferences{}),
				AgeCategory:        strPtr(""),
			},
			wantField: model.FieldAge,
		},
		{
			name: "globally unknown location",
			sub: model.GuestSubmission{
				Name:               strPtr("Bob"),
				AttendingLocations: locPtr("atlantis"),
				Dietary:            dietPtr(model.DietaryPreferences{}),
			},
			wantField: model.FieldLocation,
		},
		{
			name: "globally valid location not offered to this group",
			sub: model.GuestSubmission{
				Name:               strPtr("Bob"),
				AttendingLocations: locPtr("nice"),
				Dietary:            dietPtr(model.DietaryPreferences{}),
			},
			wantField: model.FieldLocation,
		},
		{
			name: "oversized dietary note",
			sub: model.GuestSubmission{
				Name:               strPtr("Bob"),
				AttendingLocations: locPtr("sardinia"),
				Dietary:            dietPtr(model.DietaryPreferences{Other: strings.Repeat("x", model.MaxDietaryOtherLen+1)}),
			},
			wantField: model.FieldDietary,
		},
		{
			name: "empty attending set is allowed",
			sub: model.GuestSubmission{
				Name:               strPtr("Bob"),
				AttendingLocations: locPtr(),
				Dietary:            dietPtr(model.DietaryPreferences{}),
			},
			wantName: "Bob",
			wantLocs: []model.Location{},
			wantAge:  model.AgeAdult,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			norm, err := GuestFields(tc.sub, bothVenues)
			if tc.wantField != "" {
				var verr *model.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tc.wantField, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, norm.Name)
			assert.Equal(t, tc.wantLocs, norm.Locations)
			assert.Equal(t, tc.wantAge, norm.Age)
		})
	}
}

func TestSingleLocation(t *testing.T) {
	loc, err := SingleLocation("tunisia", bothVenues)
	require.NoError(t, err)
	assert.Equal(t, model.LocationTunisia, loc)

	_, err = SingleLocation("atlantis", bothVenues)
	assert.Error(t, err)

	// Known venue, but not offered to this group.
	_, err = SingleLocation("nice", bothVenues)
	assert.Error(t, err)
}

func TestNotesAndPartySize(t *testing.T) {
	assert.NoError(t, Notes(strings.Repeat("n", model.MaxNotesLen)))
	assert.Error(t, Notes(strings.Repeat("n", model.MaxNotesLen+1)))

	assert.Error(t, PartySize(0))
	assert.NoError(t, PartySize(1))
	assert.NoError(t, PartySize(20))
	assert.Error(t, PartySize(21))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email(""))
	assert.NoError(t, Email("haddad@example.com"))
	assert.Error(t, Email("not-an-email"))
	assert.Error(t, Email("two@at@signs"))
	assert.Error(t, Email("user@nodot"))
	assert.Error(t, Email(strings.Repeat("a", model.MaxEmailLen)+"@example.com"))
}

func TestGroupFields(t *testing.T) {
	req := model.CreateGroupRequest{
		Name:      "  Haddad family ",
		Email:     "haddad@example.com",
		PartySize: 4,
		Locations: []string{"sardinia", "tunisia", "sardinia"},
		Language:  "fr",
	}
	g, err := GroupFields(req)
	require.NoError(t, err)
	assert.Equal(t, "Haddad family", g.Name)
	assert.Equal(t, bothVenues, g.Locations)
	assert.Equal(t, model.LanguageFrench, g.Language)

	tt := []struct {
		name   string
		mutate func(*model.CreateGroupRequest)
	}{
		{"empty name", func(r *model.CreateGroupRequest) { r.Name = " " }},
		{"bad email", func(r *model.CreateGroupRequest) { r.Email = "not-an-email" }},
		{"no locations", func(r *model.CreateGroupRequest) { r.Locations = nil }},
		{"unknown location", func(r *model.CreateGroupRequest) { r.Locations = []string{"atlantis"} }},
		{"unknown language", func(r *model.CreateGroupRequest) { r.Language = "de" }},
		{"party size too large", func(r *model.CreateGroupRequest) { r.PartySize = 21 }},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			bad := req
			tc.mutate(&bad)
			_, err := GroupFields(bad)
			assert.Error(t, err)
		})
	}
}
