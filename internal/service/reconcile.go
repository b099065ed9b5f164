package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ybenamar/guestlist/internal/model"
	"github.com/ybenamar/guestlist/internal/store"
	"github.com/ybenamar/guestlist/internal/validate"
)

// SubmitRSVP reconciles the stored roster against a full submitted guest
// list in one all-or-nothing transaction. The store holds an exclusive lock
// on the group row for the whole transaction, so concurrent submissions for
// the same group serialize instead of reading a stale roster; other groups
// are never blocked.
//
// Provenance rule: entries without a usable guest id are inserted as
// self-added regardless of anything the client claims. After processing,
// every self-added guest absent from the submission is pruned; admin-created
// guests are never deleted here, even when omitted. The submission is the
// source of truth for which self-added guests exist, nothing more.
func (s *RSVP) SubmitRSVP(ctx context.Context, groupID uuid.UUID, code string, subs []model.GuestSubmission, notes *string) ([]model.Guest, error) {
	// Fail fast before any writes.
	if _, err := s.authenticate(ctx, groupID, code); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, model.NewValidationError(model.FieldSubmission, "at least one guest is required")
	}
	if len(subs) > model.MaxPartySize {
		return nil, model.ErrTooManyGuests
	}
	if notes != nil {
		if err := validate.Notes(*notes); err != nil {
			return nil, err
		}
	}

	var final []model.Guest
	err := s.store.WithGroupLock(ctx, groupID, func(tx store.RosterTx) error {
		group := tx.Group()

		existing, err := tx.Guests(ctx)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*model.Guest, len(existing))
		for i := range existing {
			byID[existing[i].ID] = &existing[i]
		}

		submitted := make(map[uuid.UUID]struct{}, len(subs))
		final = make([]model.Guest, 0, len(subs))

		for _, sub := range subs {
			norm, err := validate.GuestFields(sub, group.Locations)
			if err != nil {
				return err
			}

			// An id that does not parse is a client-side placeholder for a
			// guest that was never persisted; treat the entry as new.
			var guestID uuid.UUID
			isExisting := false
			if sub.ID != nil {
				if id, err := uuid.Parse(*sub.ID); err == nil {
					guestID = id
					isExisting = true
				}
			}

			if isExisting {
				gst, ok := byID[guestID]
				if !ok {
					// Unknown or foreign guest id: one bad entry aborts the
					// whole batch, never partial acceptance.
					return model.ErrNotInGroup
				}
				if _, dup := submitted[guestID]; dup {
					// Same guest listed twice: the later entry is redundant,
					// the roster holds one row either way.
					continue
				}
				gst.Name = norm.Name
				gst.AttendingLocations = norm.Locations
				gst.Dietary = norm.Dietary
				gst.AgeCategory = norm.Age
				if err := tx.UpdateGuest(ctx, gst); err != nil {
					return err
				}
				submitted[gst.ID] = struct{}{}
				final = append(final, *gst)
				continue
			}

			gst := &model.Guest{
				ID:                 uuid.New(),
				GroupID:            groupID,
				Name:               norm.Name,
				AttendingLocations: norm.Locations,
				Dietary:            norm.Dietary,
				AgeCategory:        norm.Age,
				Origin:             model.OriginSelf,
			}
			if err := tx.InsertGuest(ctx, gst); err != nil {
				return err
			}
			submitted[gst.ID] = struct{}{}
			final = append(final, *gst)
		}

		// Prune self-added guests omitted from the submission. Admin-created
		// guests stay, whatever the submission says.
		for i := range existing {
			gst := &existing[i]
			if gst.Origin != model.OriginSelf {
				continue
			}
			if _, ok := submitted[gst.ID]; ok {
				continue
			}
			if err := tx.DeleteGuest(ctx, gst.ID); err != nil {
				return err
			}
		}

		// Party size reflects the reconciled roster, not the raw entry
		// count, so duplicated ids in the submission cannot inflate it.
		group.PartySize = len(final)
		if notes != nil {
			group.Notes = *notes
		}
		group.RSVPSubmitted = true
		return tx.SaveGroup(ctx, group)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("group_id", groupID.String()).
		Int("guests", len(final)).
		Msg("rsvp submitted")
	return final, nil
}
