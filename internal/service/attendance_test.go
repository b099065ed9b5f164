package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybenamar/guestlist/internal/model"
)

func TestSetAttendance(t *testing.T) {
	ctx := context.Background()
	st, rsvp, _ := newTestEnv(t)
	g := seedGroup(t, st, model.LocationSardinia, model.LocationTunisia)
	alice := seedGuest(t, st, g, "Alice", model.OriginAdmin)

	t.Run("set then clear", func(t *testing.T) {
		gst, err := rsvp.SetAttendance(ctx, alice.ID, g.ID, testCode, "sardinia", true)
		require.NoError(t, err)
		assert.True(t, gst.Attending(model.LocationSardinia))

		gst, err = rsvp.SetAttendance(ctx, alice.ID, g.ID, testCode, "sardinia", false)
		require.NoError(t, err)
		assert.False(t, gst.Attending(model.LocationSardinia))
	})

	t.Run("idempotent", func(t *testing.T) {
		_, err := rsvp.SetAttendance(ctx, alice.ID, g.ID, testCode, "tunisia", true)
		require.NoError(t, err)
		gst, err := rsvp.SetAttendance(ctx, alice.ID, g.ID, testCode, "tunisia", true)
		require.NoError(t, err)
		assert.Equal(t, []model.Location{model.LocationTunisia}, gst.AttendingLocations)
	})

	t.Run("venue must be offered to the group", func(t *testing.T) {
		_, err := rsvp.SetAttendance(ctx, alice.ID, g.ID, testCode, "nice", true)
		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, model.FieldLocation, verr.Field)
	})

	t.Run("unknown guest", func(t *testing.T) {
		_, err := rsvp.SetAttendance(ctx, uuid.New(), g.ID, testCode, "sardinia", true)
		assert.ErrorIs(t, err, model.ErrNotInGroup)
	})
}

func TestListAttendees(t *testing.T) {
	ctx := context.Background()
	st, rsvp, _ := newTestEnv(t)
	g := seedGroup(t, st, model.LocationSardinia, model.LocationTunisia)
	seedGuest(t, st, g, "Zoe", model.OriginSelf, model.LocationSardinia)
	seedGuest(t, st, g, "Alice", model.OriginAdmin, model.LocationSardinia, model.LocationTunisia)
	seedGuest(t, st, g, "Bob", model.OriginSelf, model.LocationTunisia)

	attendees, err := rsvp.ListAttendees(ctx, g.ID, testCode, "sardinia")
	require.NoError(t, err)
	require.Len(t, attendees, 2)
	assert.Equal(t, "Alice", attendees[0].Name)
	assert.Equal(t, "Zoe", attendees[1].Name)

	attendees, err = rsvp.ListAttendees(ctx, g.ID, testCode, "tunisia")
	require.NoError(t, err)
	require.Len(t, attendees, 2)
	assert.Equal(t, "Alice", attendees[0].Name)
	assert.Equal(t, "Bob", attendees[1].Name)
}

func TestBulkSetAttendance(t *testing.T) {
	ctx := context.Background()
	st, rsvp, _ := newTestEnv(t)
	g := seedGroup(t, st, model.LocationSardinia, model.LocationTunisia)
	alice := seedGuest(t, st, g, "Alice", model.OriginAdmin, model.LocationSardinia, model.LocationTunisia)
	bob := seedGuest(t, st, g, "Bob", model.OriginSelf)

	final, err := rsvp.BulkSetAttendance(ctx, g.ID, testCode, "sardinia", []uuid.UUID{bob.ID})
	require.NoError(t, err)
	require.Len(t, final, 2)

	byID := make(map[uuid.UUID]model.Guest, len(final))
	for _, gst := range final {
		byID[gst.ID] = gst
	}
	// The venue now belongs to exactly the requested guests; Alice's other
	// venue is untouched.
	assert.False(t, byID[alice.ID].Attending(model.LocationSardinia))
	assert.True(t, byID[alice.ID].Attending(model.LocationTunisia))
	assert.True(t, byID[bob.ID].Attending(model.LocationSardinia))

	t.Run("ids outside the group are ignored", func(t *testing.T) {
		final, err := rsvp.BulkSetAttendance(ctx, g.ID, testCode, "tunisia", []uuid.UUID{alice.ID, uuid.New()})
		require.NoError(t, err)
		for _, gst := range final {
			if gst.ID == alice.ID {
				assert.True(t, gst.Attending(model.LocationTunisia))
			} else {
				assert.False(t, gst.Attending(model.LocationTunisia))
			}
		}
	})

	t.Run("empty list clears the venue", func(t *testing.T) {
		final, err := rsvp.BulkSetAttendance(ctx, g.ID, testCode, "sardinia", nil)
		require.NoError(t, err)
		for _, gst := range final {
			assert.False(t, gst.Attending(model.LocationSardinia))
		}
	})

	t.Run("too many ids", func(t *testing.T) {
		ids := make([]uuid.UUID, model.MaxPartySize+1)
		for i := range ids {
			ids[i] = uuid.New()
		}
		_, err := rsvp.BulkSetAttendance(ctx, g.ID, testCode, "sardinia", ids)
		assert.ErrorIs(t, err, model.ErrTooManyGuests)
	})
}
