package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybenamar/guestlist/internal/model"
)

func TestNewInvitationCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := newInvitationCode()
		require.NoError(t, err)
		require.Len(t, code, model.InviteCodeLen)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(model.InviteCodeChars, c), "unexpected character %q", c)
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 45, "codes should not collide this often")
}

func TestAdminCreateGroup(t *testing.T) {
	ctx := context.Background()
	_, _, admin := newTestEnv(t)

	t.Run("generates a code and records the creator", func(t *testing.T) {
		g, err := admin.CreateGroup(ctx, model.CreateGroupRequest{
			Name:      "Haddad family",
			Email:     "haddad@example.com",
			PartySize: 3,
			Locations: []string{"sardinia", "tunisia"},
			Language:  "fr",
		}, "yasmine")
		require.NoError(t, err)
		assert.Len(t, g.InvitationCode, model.InviteCodeLen)
		assert.Equal(t, []string{"yasmine"}, g.InvitedBy)
		assert.Equal(t, model.LanguageFrench, g.Language)
	})

	t.Run("rejects unknown venue", func(t *testing.T) {
		_, err := admin.CreateGroup(ctx, model.CreateGroupRequest{
			Name:      "Broken",
			PartySize: 2,
			Locations: []string{"paris"},
			Language:  "en",
		}, "")
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, model.FieldLocation, verr.Field)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := admin.CreateGroup(ctx, model.CreateGroupRequest{
			Name:      "   ",
			PartySize: 2,
			Locations: []string{"nice"},
			Language:  "en",
		}, "")
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, model.FieldName, verr.Field)
	})
}

func TestAdminUpdateGroup(t *testing.T) {
	ctx := context.Background()
	st, _, admin := newTestEnv(t)
	g := seedGroup(t, st, model.LocationSardinia, model.LocationTunisia)
	alice := seedGuest(t, st, g, "Alice", model.OriginAdmin, model.LocationSardinia, model.LocationTunisia)

	t.Run("invitation code is immutable", func(t *testing.T) {
		_, err := admin.UpdateGroup(ctx, g.ID, model.UpdateGroupRequest{InvitationCode: strPtr("NEWCODE2")})
		assert.ErrorIs(t, err, model.ErrCodeImmutable)
	})

	t.Run("resubmitting the current code is a no-op, not an error", func(t *testing.T) {
		_, err := admin.UpdateGroup(ctx, g.ID, model.UpdateGroupRequest{InvitationCode: strPtr(testCode)})
		assert.NoError(t, err)
	})

	t.Run("email update is structurally checked like create", func(t *testing.T) {
		_, err := admin.UpdateGroup(ctx, g.ID, model.UpdateGroupRequest{Email: strPtr("not-an-email")})
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, model.FieldEmail, verr.Field)

		updated, err := admin.UpdateGroup(ctx, g.ID, model.UpdateGroupRequest{Email: strPtr(" haddad@example.com ")})
		require.NoError(t, err)
		assert.Equal(t, "haddad@example.com", updated.Email)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		updated, err := admin.UpdateGroup(ctx, g.ID, model.UpdateGroupRequest{Name: strPtr("Haddad-Rossi family")})
		require.NoError(t, err)
		assert.Equal(t, "Haddad-Rossi family", updated.Name)
		assert.Equal(t, g.Locations, updated.Locations)
		assert.Equal(t, testCode, updated.InvitationCode)
	})

	t.Run("shrinking the venue set trims guest attendance", func(t *testing.T) {
		updated, err := admin.UpdateGroup(ctx, g.ID, model.UpdateGroupRequest{Locations: locPtr("sardinia")})
		require.NoError(t, err)
		assert.Equal(t, []model.Location{model.LocationSardinia}, updated.Locations)

		gst, err := st.GetGuest(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.Location{model.LocationSardinia}, gst.AttendingLocations)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := admin.UpdateGroup(ctx, uuid.New(), model.UpdateGroupRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestAdminDeleteGroupCascades(t *testing.T) {
	ctx := context.Background()
	st, _, admin := newTestEnv(t)
	g := seedGroup(t, st, model.LocationSardinia)
	alice := seedGuest(t, st, g, "Alice", model.OriginAdmin)

	require.NoError(t, admin.DeleteGroup(ctx, g.ID))

	_, err := st.GetGroup(ctx, g.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = st.GetGuest(ctx, alice.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAdminGuests(t *testing.T) {
	ctx := context.Background()
	st, _, admin := newTestEnv(t)
	g := seedGroup(t, st, model.LocationSardinia)

	t.Run("create is admin-origin and venue-checked", func(t *testing.T) {
		gst, err := admin.CreateGuest(ctx, g.ID, submission("Alice", "sardinia"))
		require.NoError(t, err)
		assert.Equal(t, model.OriginAdmin, gst.Origin)

		_, err = admin.CreateGuest(ctx, g.ID, submission("Bob", "tunisia"))
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, model.FieldLocation, verr.Field)
	})

	t.Run("update preserves origin", func(t *testing.T) {
		guests, err := admin.ListGuests(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, guests, 1)

		gst, err := admin.UpdateGuest(ctx, guests[0].ID, submission("Alice Renamed", "sardinia"))
		require.NoError(t, err)
		assert.Equal(t, "Alice Renamed", gst.Name)
		assert.Equal(t, model.OriginAdmin, gst.Origin)
	})

	t.Run("delete removes admin-created guests too", func(t *testing.T) {
		guests, err := admin.ListGuests(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, guests, 1)
		require.NoError(t, admin.DeleteGuest(ctx, guests[0].ID))

		guests, err = admin.ListGuests(ctx, g.ID)
		require.NoError(t, err)
		assert.Empty(t, guests)
	})

	t.Run("list by location rejects unknown venues", func(t *testing.T) {
		_, err := admin.ListGuestsByLocation(ctx, "atlantis")
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	st, _, admin := newTestEnv(t)

	multi := seedGroup(t, st, model.LocationSardinia, model.LocationTunisia)
	single := &model.Group{
		ID:             uuid.New(),
		Name:           "Rossi family",
		InvitationCode: "ROSSI234",
		PartySize:      2,
		Locations:      []model.Location{model.LocationNice},
		Language:       model.LanguageItalian,
	}
	require.NoError(t, st.CreateGroup(ctx, single))

	alice := seedGuest(t, st, multi, "Alice", model.OriginAdmin, model.LocationSardinia, model.LocationTunisia)
	alice.Dietary = model.DietaryPreferences{Vegetarian: true, Other: "no shellfish"}
	require.NoError(t, st.UpdateGuest(ctx, alice))
	seedGuest(t, st, multi, "Bob", model.OriginSelf) // no venues: pending
	carla := seedGuest(t, st, single, "Carla", model.OriginSelf, model.LocationNice)
	carla.Dietary = model.DietaryPreferences{GlutenFree: true}
	require.NoError(t, st.UpdateGuest(ctx, carla))

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalGuests)
	assert.Equal(t, 2, stats.TotalConfirmed)
	assert.Equal(t, 1, stats.PendingRSVPs)
	assert.Equal(t, 1, stats.MultiLocationGroups)
	assert.Equal(t, 1, stats.GuestsByLocation[model.LocationSardinia])
	assert.Equal(t, 1, stats.GuestsByLocation[model.LocationTunisia])
	assert.Equal(t, 1, stats.GuestsByLocation[model.LocationNice])
	assert.Equal(t, 1, stats.Vegetarian)
	assert.Equal(t, 1, stats.GlutenFree)
	assert.Equal(t, 1, stats.OtherDietary)
	assert.Equal(t, 0, stats.Vegan)
}
