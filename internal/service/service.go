// Package service implements the roster operations: the authorization gate
// every guest-facing call passes through, the RSVP reconciliation
// transaction, attendance and group mutations, and the admin operations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ybenamar/guestlist/internal/model"
	"github.com/ybenamar/guestlist/internal/store"
	"github.com/ybenamar/guestlist/internal/validate"
)

// RSVP is the guest-facing service. Every operation requires the
// (group id, invitation code) pair; the code is the sole credential and is
// checked fresh on each call, there is no session state.
type RSVP struct {
	store store.Store
	log   zerolog.Logger
}

// NewRSVP constructs the guest-facing service.
func NewRSVP(st store.Store, log zerolog.Logger) *RSVP {
	return &RSVP{store: st, log: log}
}

// authenticate is the single gateway for anonymous callers: the group id and
// invitation code must both match. "No such group" and "wrong code" are
// deliberately indistinguishable so a prober cannot learn which groups exist.
func (s *RSVP) authenticate(ctx context.Context, groupID uuid.UUID, code string) (*model.Group, error) {
	if code == "" {
		return nil, model.ErrAuthFailed
	}
	g, err := s.store.GetGroupByCode(ctx, groupID, code)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrAuthFailed
		}
		return nil, fmt.Errorf("authenticate group: %w", err)
	}
	return g, nil
}

// checkMembership verifies that the guest exists and belongs to the given
// group. Run before any mutation targeting a specific guest so ids from other
// groups cannot be manipulated by guessing.
func (s *RSVP) checkMembership(ctx context.Context, guestID, groupID uuid.UUID) (*model.Guest, error) {
	gst, err := s.store.GetGuest(ctx, guestID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotInGroup
		}
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if gst.GroupID != groupID {
		return nil, model.ErrNotInGroup
	}
	return gst, nil
}

// Login authenticates a group and returns its public projection. The
// invitation code itself is never echoed back.
func (s *RSVP) Login(ctx context.Context, groupID uuid.UUID, code string) (model.PublicGroup, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return model.PublicGroup{}, err
	}
	return g.Public(), nil
}

// ListGuests returns the group's current roster.
func (s *RSVP) ListGuests(ctx context.Context, groupID uuid.UUID, code string) ([]model.Guest, error) {
	if _, err := s.authenticate(ctx, groupID, code); err != nil {
		return nil, err
	}
	return s.store.ListGuests(ctx, groupID)
}

// AddGuest appends a single self-added guest to the roster.
func (s *RSVP) AddGuest(ctx context.Context, groupID uuid.UUID, code string, sub model.GuestSubmission) (*model.Guest, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return nil, err
	}
	norm, err := validate.GuestFields(sub, g.Locations)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountGuests(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxPartySize {
		return nil, model.ErrTooManyGuests
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
	if err := s.store.CreateGuest(ctx, gst); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return gst, nil
}

// UpdateGuest replaces a guest's editable fields with validated input. The
// origin flag is never touched from this path.
func (s *RSVP) UpdateGuest(ctx context.Context, guestID, groupID uuid.UUID, code string, sub model.GuestSubmission) (*model.Guest, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return nil, err
	}
	gst, err := s.checkMembership(ctx, guestID, groupID)
	if err != nil {
		return nil, err
	}
	norm, err := validate.GuestFields(sub, g.Locations)
	if err != nil {
		return nil, err
	}
	gst.Name = norm.Name
	gst.AttendingLocations = norm.Locations
	gst.Dietary = norm.Dietary
	gst.AgeCategory = norm.Age
	if err := s.store.UpdateGuest(ctx, gst); err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return gst, nil
}

// RemoveGuest deletes a self-added guest. Guests an admin put on the roster
// are protected from the invitee-facing flow.
func (s *RSVP) RemoveGuest(ctx context.Context, guestID, groupID uuid.UUID, code string) error {
	if _, err := s.authenticate(ctx, groupID, code); err != nil {
		return err
	}
	gst, err := s.checkMembership(ctx, guestID, groupID)
	if err != nil {
		return err
	}
	if gst.Origin == model.OriginAdmin {
		return model.ErrGuestProtected
	}
	if err := s.store.DeleteGuest(ctx, guestID); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}

// SetPartySize updates the group's party-size ceiling. It can never shrink
// below the number of guests already on the roster.
func (s *RSVP) SetPartySize(ctx context.Context, groupID uuid.UUID, code string, size int) (model.PublicGroup, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return model.PublicGroup{}, err
	}
	if err := validate.PartySize(size); err != nil {
		return model.PublicGroup{}, err
	}
	count, err := s.store.CountGuests(ctx, groupID)
	if err != nil {
		return model.PublicGroup{}, err
	}
	if size < count {
		return model.PublicGroup{}, model.NewValidationError(model.FieldPartySize,
			"party size cannot be smaller than the number of guests on the roster")
	}
	g.PartySize = size
	if err := s.store.UpdateGroup(ctx, g); err != nil {
		return model.PublicGroup{}, fmt.Errorf("update group: %w", err)
	}
	return g.Public(), nil
}

// SetNotes updates the group's free-text notes.
func (s *RSVP) SetNotes(ctx context.Context, groupID uuid.UUID, code string, notes string) (model.PublicGroup, error) {
	g, err := s.authenticate(ctx, groupID, code)
	if err != nil {
		return model.PublicGroup{}, err
	}
	if err := validate.Notes(notes); err != nil {
		return model.PublicGroup{}, err
	}
	g.Notes = notes
	if err := s.store.UpdateGroup(ctx, g); err != nil {
		return model.PublicGroup{}, fmt.Errorf("update group: %w", err)
	}
	return g.Public(), nil
}
