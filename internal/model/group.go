package model

import (
	"time"

	"github.com/google/uuid"
)

// Field bounds for groups.
const (
	MaxNameLen      = 200
	MaxEmailLen     = 254
	MaxNotesLen     = 2000
	MinPartySize    = 1
	MaxPartySize    = 20
	InviteCodeLen   = 8
	InviteCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Group is an invitation unit: a household sharing one invitation code and
// one set of invited venues.
type Group struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	InvitationCode string     `json:"invitation_code"`
	PartySize      int        `json:"party_size"`
	Locations      []Location `json:"locations"`
	Language       Language   `json:"language"`
	Notes          string     `json:"notes,omitempty"`
	InvitedBy      []string   `json:"invited_by,omitempty"`
	InvitationSent bool       `json:"invitation_sent"`
	RSVPSubmitted  bool       `json:"rsvp_submitted"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PublicGroup is the projection returned to non-admin callers: everything
// except the invitation code, which is the credential itself.
type PublicGroup struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	PartySize      int        `json:"party_size"`
	Locations      []Location `json:"locations"`
	Language       Language   `json:"language"`
	Notes          string     `json:"notes,omitempty"`
	InvitationSent bool       `json:"invitation_sent"`
	RSVPSubmitted  bool       `json:"rsvp_submitted"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Public strips the invitation code from a group.
func (g *Group) Public() PublicGroup {
	return PublicGroup{
		ID:             g.ID,
		Name:           g.Name,
		Email:          g.Email,
		PartySize:      g.PartySize,
		Locations:      g.Locations,
		Language:       g.Language,
		Notes:          g.Notes,
		InvitationSent: g.InvitationSent,
		RSVPSubmitted:  g.RSVPSubmitted,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// GroupWithCount pairs a group with its persisted guest count for admin
// list views.
type GroupWithCount struct {
	Group
	GuestCount int `json:"guest_count"`
}

// CreateGroupRequest is the admin payload for creating a group. The
// invitation code is always server-generated, never client-supplied.
type CreateGroupRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	PartySize int      `json:"party_size"`
	Locations []string `json:"locations"`
	Language  string   `json:"language"`
	Notes     string   `json:"notes"`
	InvitedBy []string `json:"invited_by"`
}

// UpdateGroupRequest is the admin payload for a partial group update. Nil
// fields are left untouched. InvitationCode is present only so an attempt to
// change it can be rejected explicitly.
type UpdateGroupRequest struct {
	Name           *string   `json:"name"`
	Email          *string   `json:"email"`
	InvitationCode *string   `json:"invitation_code"`
	PartySize      *int      `json:"party_size"`
	Locations      *[]string `json:"locations"`
	Language       *string   `json:"language"`
	Notes          *string   `json:"notes"`
	InvitedBy      *[]string `json:"invited_by"`
	InvitationSent *bool     `json:"invitation_sent"`
}
