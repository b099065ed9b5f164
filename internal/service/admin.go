package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ybenamar/guestlist/internal/model"
	"github.com/ybenamar/guestlist/internal/store"
	"github.com/ybenamar/guestlist/internal/validate"
)

// Admin is the administrative service. Callers arrive with a pre-established
// trusted identity (see the handler middleware) and bypass the invitation
// code, but every field-level validation rule still applies.
type Admin struct {
	store store.Store
	log   zerolog.Logger
}

// NewAdmin constructs the admin service.
func NewAdmin(st store.Store, log zerolog.Logger) *Admin {
	return &Admin{store: st, log: log}
}

// newInvitationCode draws a code from an alphabet without ambiguous
// characters (no 0/O, 1/I) so codes survive being read over the phone.
func newInvitationCode() (string, error) {
	buf := make([]byte, model.InviteCodeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation code: %w", err)
	}
	for i, b := range buf {
		buf[i] = model.InviteCodeChars[int(b)%len(model.InviteCodeChars)]
	}
	return string(buf), nil
}

// CreateGroup validates and persists a new group with a server-generated
// invitation code. The code is never client-supplied.
func (s *Admin) CreateGroup(ctx context.Context, req model.CreateGroupRequest, createdBy string) (*model.Group, error) {
	g, err := validate.GroupFields(req)
	if err != nil {
		return nil, err
	}
	code, err := newInvitationCode()
	if err != nil {
		return nil, err
	}
	g.ID = uuid.New()
	g.InvitationCode = code
	if createdBy != "" && !containsString(g.InvitedBy, createdBy) {
		g.InvitedBy = append(g.InvitedBy, createdBy)
	}
	if err := s.store.CreateGroup(ctx, &g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	s.log.Info().Str("group_id", g.ID.String()).Str("name", g.Name).Msg("group created")
	return &g, nil
}

// GetGroup returns one group, invitation code included.
func (s *Admin) GetGroup(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// ListGroups returns all groups with their persisted guest counts, ordered
// by name.
func (s *Admin) ListGroups(ctx context.Context) ([]model.GroupWithCount, error) {
	return s.store.ListGroups(ctx)
}

// UpdateGroup applies a partial update. The invitation code is immutable
// once assigned; any attempt to change it fails. When the invited-venue set
// shrinks, every guest's attending set is trimmed to the new set inside the
// same group-locked transaction, keeping the subset invariant.
func (s *Admin) UpdateGroup(ctx context.Context, id uuid.UUID, req model.UpdateGroupRequest) (*model.Group, error) {
	current, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.InvitationCode != nil && *req.InvitationCode != current.InvitationCode {
		return nil, model.ErrCodeImmutable
	}

	updated := *current
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, model.NewValidationError(model.FieldName, "name must not be empty")
		}
		if len(name) > model.MaxNameLen {
			return nil, model.NewValidationError(model.FieldName, "name exceeds 200 characters")
		}
		updated.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := validate.Email(email); err != nil {
			return nil, err
		}
		updated.Email = email
	}
	if req.PartySize != nil {
		if err := validate.PartySize(*req.PartySize); err != nil {
			return nil, err
		}
		updated.PartySize = *req.PartySize
	}
	if req.Language != nil {
		lang := model.Language(*req.Language)
		if !model.ValidLanguage(lang) {
			return nil, model.NewValidationError(model.FieldLanguage, fmt.Sprintf("unknown language %q", *req.Language))
		}
		updated.Language = lang
	}
	if req.Notes != nil {
		if err := validate.Notes(*req.Notes); err != nil {
			return nil, err
		}
		updated.Notes = *req.Notes
	}
	if req.InvitedBy != nil {
		updated.InvitedBy = *req.InvitedBy
	}
	if req.InvitationSent != nil {
		updated.InvitationSent = *req.InvitationSent
	}

	if req.Locations == nil {
		if err := s.store.UpdateGroup(ctx, &updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	locs, err := validate.GroupLocations(*req.Locations)
	if err != nil {
		return nil, err
	}
	updated.Locations = locs

	// Changing the invited venues can orphan attending entries, so the
	// update and the guest trim commit together under the group lock.
	err = s.store.WithGroupLock(ctx, id, func(tx store.RosterTx) error {
		guests, err := tx.Guests(ctx)
		if err != nil {
			return err
		}
		for i := range guests {
			gst := &guests[i]
			trimmed := make([]model.Location, 0, len(gst.AttendingLocations))
			for _, l := range gst.AttendingLocations {
				if model.ContainsLocation(locs, l) {
					trimmed = append(trimmed, l)
				}
			}
			if len(trimmed) == len(gst.AttendingLocations) {
				continue
			}
			gst.AttendingLocations = trimmed
			if err := tx.UpdateGuest(ctx, gst); err != nil {
				return err
			}
		}
		return tx.SaveGroup(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGroup removes a group and, by cascade, all of its guests.
func (s *Admin) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("group_id", id.String()).Msg("group deleted")
	return nil
}

// MarkInvitationSent flags a group's invitation as dispatched.
func (s *Admin) MarkInvitationSent(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	g, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	g.InvitationSent = true
	if err := s.store.UpdateGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGuests returns a group's roster for the admin views.
func (s *Admin) ListGuests(ctx context.Context, groupID uuid.UUID) ([]model.Guest, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListGuests(ctx, groupID)
}

// CreateGuest adds an admin-created guest to a group, validated against the
// group's invited venues exactly like the RSVP path.
func (s *Admin) CreateGuest(ctx context.Context, groupID uuid.UUID, sub model.GuestSubmission) (*model.Guest, error) {
	g, err := s.store.GetGroup(ctx, groupID)
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
		Origin:             model.OriginAdmin,
	}
	if err := s.store.CreateGuest(ctx, gst); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return gst, nil
}

// UpdateGuest replaces a guest's editable fields. Origin is preserved.
func (s *Admin) UpdateGuest(ctx context.Context, guestID uuid.UUID, sub model.GuestSubmission) (*model.Guest, error) {
	gst, err := s.store.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	g, err := s.store.GetGroup(ctx, gst.GroupID)
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
		return nil, err
	}
	return gst, nil
}

// DeleteGuest removes any guest, admin-created or self-added.
func (s *Admin) DeleteGuest(ctx context.Context, guestID uuid.UUID) error {
	return s.store.DeleteGuest(ctx, guestID)
}

// ListGuestsByLocation returns every guest attending the given venue across
// all groups, for the per-venue planning tables.
func (s *Admin) ListGuestsByLocation(ctx context.Context, location string) ([]model.Guest, error) {
	loc := model.Location(location)
	if !model.ValidLocation(loc) {
		return nil, model.NewValidationError(model.FieldLocation, fmt.Sprintf("unknown location %q", location))
	}
	return s.store.ListGuestsByLocation(ctx, loc)
}

// Stats aggregates the dashboard numbers: totals, per-venue attendance,
// dietary tallies. A guest counts as confirmed once they attend at least
// one venue.
func (s *Admin) Stats(ctx context.Context) (*model.Stats, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{GuestsByLocation: make(map[model.Location]int, len(model.AllLocations))}
	for _, loc := range model.AllLocations {
		stats.GuestsByLocation[loc] = 0
	}

	for _, grp := range groups {
		if len(grp.Locations) > 1 {
			stats.MultiLocationGroups++
		}
		guests, err := s.store.ListGuests(ctx, grp.ID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for i := range guests {
			gst := &guests[i]
			stats.TotalGuests++
			for _, loc := range gst.AttendingLocations {
				stats.GuestsByLocation[loc]++
			}
			if len(gst.AttendingLocations) == 0 {
				continue
			}
			stats.TotalConfirmed++
			if gst.Dietary.Vegetarian {
				stats.Vegetarian++
			}
			if gst.Dietary.Vegan {
				stats.Vegan++
			}
			if gst.Dietary.Halal {
				stats.Halal++
			}
			if gst.Dietary.NoPork {
				stats.NoPork++
			}
			if gst.Dietary.GlutenFree {
				stats.GlutenFree++
			}
			if gst.Dietary.Other != "" {
				stats.OtherDietary++
			}
		}
	}
	stats.PendingRSVPs = stats.TotalGuests - stats.TotalConfirmed
	return stats, nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
