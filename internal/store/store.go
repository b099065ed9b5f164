// Package store defines the persistence boundary for groups and guests and
// provides the PostgreSQL implementation plus an in-memory one for tests and
// local development.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ybenamar/guestlist/internal/model"
)

// Store is the persisted roster of groups and guests. Implementations return
// model.ErrNotFound when a referenced entity is absent. Deleting a group
// deletes all of its guests.
type Store interface {
	CreateGroup(ctx context.Context, g *model.Group) error
	GetGroup(ctx context.Context, id uuid.UUID) (*model.Group, error)
	// GetGroupByCode is the authentication primitive: both the id and the
	// invitation code must match exactly.
	GetGroupByCode(ctx context.Context, id uuid.UUID, code string) (*model.Group, error)
	ListGroups(ctx context.Context) ([]model.GroupWithCount, error)
	UpdateGroup(ctx context.Context, g *model.Group) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	CreateGuest(ctx context.Context, gst *model.Guest) error
	GetGuest(ctx context.Context, id uuid.UUID) (*model.Guest, error)
	ListGuests(ctx context.Context, groupID uuid.UUID) ([]model.Guest, error)
	ListGuestsByLocation(ctx context.Context, loc model.Location) ([]model.Guest, error)
	UpdateGuest(ctx context.Context, gst *model.Guest) error
	DeleteGuest(ctx context.Context, id uuid.UUID) error
	CountGuests(ctx context.Context, groupID uuid.UUID) (int, error)

	// WithGroupLock runs fn inside a transaction holding an exclusive lock on
	// the given group row. Concurrent calls for the same group serialize;
	// unrelated groups are never blocked. If fn returns an error the whole
	// transaction rolls back and no partial state is ever visible.
	WithGroupLock(ctx context.Context, groupID uuid.UUID, fn func(tx RosterTx) error) error
}

// RosterTx is the view of one group's roster inside an exclusive-lock
// transaction opened by WithGroupLock.
type RosterTx interface {
	// Group returns the locked group row as read at lock acquisition.
	Group() *model.Group
	Guests(ctx context.Context) ([]model.Guest, error)
	InsertGuest(ctx context.Context, gst *model.Guest) error
	UpdateGuest(ctx context.Context, gst *model.Guest) error
	DeleteGuest(ctx context.Context, id uuid.UUID) error
	SaveGroup(ctx context.Context, g *model.Group) error
}
