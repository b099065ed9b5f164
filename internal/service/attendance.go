package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ybenamar/guestlist/internal/model"
	"github.com/ybenamar/guestlist/internal/store"
	"github.com/ybenamar/guestlist/internal/validate"
)

// SetAttendance adds or removes one venue from a guest's attending set.
// Idempotent: setting an already-present venue or clearing an absent one is
// a no-op, not an error.
func (s *RSVP) SetAttendance(ctx context.Context, guestID, groupID uuid.UUID, code, location string, attending bool) (*model.Guest, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return nil, err
	}
	gst, err := s.checkMembership(ctx, guestID, groupID)
	if err != nil {
		return nil, err
	}
	loc, err := validate.SingleLocation(location, g.Locations)
	if err != nil {
		return nil, err
	}
	gst.SetAttending(loc, attending)
	if err := s.store.UpdateGuest(ctx, gst); err != nil {
		return nil, err
	}
	return gst, nil
}

// ListAttendees returns the group's guests attending the given venue,
// ordered by name.
func (s *RSVP) ListAttendees(ctx context.Context, groupID uuid.UUID, code, location string) ([]model.Attendee, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return nil, err
	}
	loc, err := validate.SingleLocation(location, g.Locations)
	if err != nil {
		return nil, err
	}
	guests, err := s.store.ListGuests(ctx, groupID)
	if err != nil {
		return nil, err
	}
	var out []model.Attendee
	for i := range guests {
		if guests[i].Attending(loc) {
			out = append(out, model.Attendee{
				GuestID: guests[i].ID,
				Name:    guests[i].Name,
				Dietary: guests[i].Dietary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// BulkSetAttendance makes the attending set for one venue exactly equal the
// requested guest ids: the venue is cleared from every guest in the group,
// then re-added only to the named guests that belong to it. Clear-then-set
// in one transaction avoids per-guest diffing against prior state.
func (s *RSVP) BulkSetAttendance(ctx context.Context, groupID uuid.UUID, code, location string, guestIDs []uuid.UUID) ([]model.Guest, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return nil, err
	}
	loc, err := validate.SingleLocation(location, g.Locations)
	if err != nil {
		return nil, err
	}
	if len(guestIDs) > model.MaxPartySize {
		return nil, model.ErrTooManyGuests
	}

	wanted := make(map[uuid.UUID]struct{}, len(guestIDs))
	for _, id := range guestIDs {
		wanted[id] = struct{}{}
	}

	var final []model.Guest
	err = s.store.WithGroupLock(ctx, groupID, func(tx store.RosterTx) error {
		guests, err := tx.Guests(ctx)
		if err != nil {
			return err
		}
		for i := range guests {
			gst := &guests[i]
			_, attend := wanted[gst.ID]
			if gst.Attending(loc) == attend {
				continue
			}
			gst.SetAttending(loc, attend)
			if err := tx.UpdateGuest(ctx, gst); err != nil {
				return err
			}
		}
		final = guests
		return nil
	})
	if err != nil {
		return nil, err
	}
	return final, nil
}
