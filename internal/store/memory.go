package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ybenamar/guestlist/internal/model"
)

// Memory is an in-memory Store used by unit tests and local development.
// WithGroupLock serializes per group via a dedicated mutex and stages all
// writes, so a failing callback leaves the store untouched.
type Memory struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]*model.Group
	guests map[uuid.UUID]*model.Guest

	lockMu sync.Mutex
	locks  map[uuid.UUID]*sync.Mutex
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		groups: make(map[uuid.UUID]*model.Group),
		guests: make(map[uuid.UUID]*model.Guest),
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func copyGroup(g *model.Group) *model.Group {
	cp := *g
	cp.Locations = append([]model.Location(nil), g.Locations...)
	cp.InvitedBy = append([]string(nil), g.InvitedBy...)
	return &cp
}

func copyGuest(g *model.Guest) *model.Guest {
	cp := *g
	cp.AttendingLocations = append([]model.Location(nil), g.AttendingLocations...)
	return &cp
}

func (s *Memory) CreateGroup(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	s.groups[g.ID] = copyGroup(g)
	return nil
}

func (s *Memory) GetGroup(_ context.Context, id uuid.UUID) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return copyGroup(g), nil
}

func (s *Memory) GetGroupByCode(_ context.Context, id uuid.UUID, code string) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok || g.InvitationCode != code {
		return nil, model.ErrNotFound
	}
	return copyGroup(g), nil
}

func (s *Memory) ListGroups(_ context.Context) ([]model.GroupWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.GroupWithCount, 0, len(s.groups))
	for _, g := range s.groups {
		count := 0
		for _, gst := range s.guests {
			if gst.GroupID == g.ID {
				count++
			}
		}
		out = append(out, model.GroupWithCount{Group: *copyGroup(g), GuestCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Memory) UpdateGroup(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[g.ID]; !ok {
		return model.ErrNotFound
	}
	g.UpdatedAt = time.Now().UTC()
	s.groups[g.ID] = copyGroup(g)
	return nil
}

func (s *Memory) DeleteGroup(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.groups, id)
	// Cascade to the group's guests.
	for gid, gst := range s.guests {
		if gst.GroupID == id {
			delete(s.guests, gid)
		}
	}
	return nil
}

func (s *Memory) CreateGuest(_ context.Context, gst *model.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[gst.GroupID]; !ok {
		return model.ErrNotFound
	}
	now := time.Now().UTC()
	gst.CreatedAt = now
	gst.UpdatedAt = now
	s.guests[gst.ID] = copyGuest(gst)
	return nil
}

func (s *Memory) GetGuest(_ context.Context, id uuid.UUID) (*model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gst, ok := s.guests[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return copyGuest(gst), nil
}

func (s *Memory) ListGuests(_ context.Context, groupID uuid.UUID) ([]model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listGuestsLocked(groupID), nil
}

func (s *Memory) listGuestsLocked(groupID uuid.UUID) []model.Guest {
	var out []model.Guest
	for _, gst := range s.guests {
		if gst.GroupID == groupID {
			out = append(out, *copyGuest(gst))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Memory) ListGuestsByLocation(_ context.Context, loc model.Location) ([]model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Guest
	for _, gst := range s.guests {
		if gst.Attending(loc) {
			out = append(out, *copyGuest(gst))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Memory) UpdateGuest(_ context.Context, gst *model.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.guests[gst.ID]; !ok {
		return model.ErrNotFound
	}
	gst.UpdatedAt = time.Now().UTC()
	s.guests[gst.ID] = copyGuest(gst)
	return nil
}

func (s *Memory) DeleteGuest(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.guests[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.guests, id)
	return nil
}

func (s *Memory) CountGuests(_ context.Context, groupID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, gst := range s.guests {
		if gst.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

// groupLock returns the mutex dedicated to one group, creating it on first use.
func (s *Memory) groupLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Memory) WithGroupLock(ctx context.Context, groupID uuid.UUID, fn func(tx RosterTx) error) error {
	l := s.groupLock(groupID)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	g, ok := s.groups[groupID]
	if !ok {
		s.mu.RUnlock()
		return model.ErrNotFound
	}
	tx := &memTx{
		group:  copyGroup(g),
		guests: make(map[uuid.UUID]*model.Guest),
	}
	for _, gst := range s.listGuestsLocked(groupID) {
		tx.guests[gst.ID] = copyGuest(&gst)
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}

	// Commit the staged state.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[groupID] = tx.group
	for _, id := range tx.deleted {
		delete(s.guests, id)
	}
	for id, gst := range tx.guests {
		s.guests[id] = gst
	}
	return nil
}

// memTx stages all roster mutations until WithGroupLock commits them.
type memTx struct {
	group   *model.Group
	guests  map[uuid.UUID]*model.Guest
	deleted []uuid.UUID
}

func (t *memTx) Group() *model.Group { return copyGroup(t.group) }

func (t *memTx) Guests(context.Context) ([]model.Guest, error) {
	out := make([]model.Guest, 0, len(t.guests))
	for _, gst := range t.guests {
		out = append(out, *copyGuest(gst))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (t *memTx) InsertGuest(_ context.Context, gst *model.Guest) error {
	now := time.Now().UTC()
	gst.CreatedAt = now
	gst.UpdatedAt = now
	t.guests[gst.ID] = copyGuest(gst)
	return nil
}

func (t *memTx) UpdateGuest(_ context.Context, gst *model.Guest) error {
	if _, ok := t.guests[gst.ID]; !ok {
		return model.ErrNotFound
	}
	gst.UpdatedAt = time.Now().UTC()
	t.guests[gst.ID] = copyGuest(gst)
	return nil
}

func (t *memTx) DeleteGuest(_ context.Context, id uuid.UUID) error {
	if _, ok := t.guests[id]; !ok {
		return model.ErrNotFound
	}
	delete(t.guests, id)
	t.deleted = append(t.deleted, id)
	return nil
}

func (t *memTx) SaveGroup(_ context.Context, g *model.Group) error {
	g.UpdatedAt = time.Now().UTC()
	t.group = copyGroup(g)
	return nil
}
