package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ybenamar/guestlist/internal/model"
)

//go:embed schema.sql
var schema string

const groupColumns = `id, name, email, invitation_code, party_size, locations,
	language, notes, invited_by, invitation_sent, rsvp_submitted, created_at, updated_at`

const guestColumns = `id, group_id, name, attending_locations, dietary_preferences,
	age_category, origin, created_at, updated_at`

// Postgres implements Store on a pgx connection pool. Queries use pgx
// directly, no ORM; the reconciliation lock is a plain SELECT ... FOR UPDATE.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres store.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// InitSchema creates the tables if they do not exist yet.
func (s *Postgres) InitSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// execer abstracts pool vs transaction for the shared insert/update helpers.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func scanGroup(row pgx.Row) (*model.Group, error) {
	var g model.Group
	var locations, invitedBy []string
	err := row.Scan(&g.ID, &g.Name, &g.Email, &g.InvitationCode, &g.PartySize,
		&locations, &g.Language, &g.Notes, &invitedBy, &g.InvitationSent,
		&g.RSVPSubmitted, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}
	g.Locations = model.LocationsFromStrings(locations)
	g.InvitedBy = invitedBy
	return &g, nil
}

func scanGuest(row pgx.Row) (*model.Guest, error) {
	var gst model.Guest
	var locations []string
	var dietary []byte
	err := row.Scan(&gst.ID, &gst.GroupID, &gst.Name, &locations, &dietary,
		&gst.AgeCategory, &gst.Origin, &gst.CreatedAt, &gst.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan guest: %w", err)
	}
	gst.AttendingLocations = model.LocationsFromStrings(locations)
	if err := json.Unmarshal(dietary, &gst.Dietary); err != nil {
		return nil, fmt.Errorf("decode dietary record: %w", err)
	}
	return &gst, nil
}

func collectGuests(rows pgx.Rows) ([]model.Guest, error) {
	defer rows.Close()
	var out []model.Guest
	for rows.Next() {
		gst, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *gst)
	}
	return out, rows.Err()
}

func (s *Postgres) CreateGroup(ctx context.Context, g *model.Group) error {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := s.db.Exec(ctx,
		`INSERT INTO guest_groups (`+groupColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		g.ID, g.Name, g.Email, g.InvitationCode, g.PartySize,
		model.LocationStrings(g.Locations), g.Language, g.Notes,
		g.InvitedBy, g.InvitationSent, g.RSVPSubmitted, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *Postgres) GetGroup(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	return scanGroup(s.db.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM guest_groups WHERE id = $1`, id))
}

func (s *Postgres) GetGroupByCode(ctx context.Context, id uuid.UUID, code string) (*model.Group, error) {
	return scanGroup(s.db.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM guest_groups
		 WHERE id = $1 AND invitation_code = $2`, id, code))
}

func (s *Postgres) ListGroups(ctx context.Context) ([]model.GroupWithCount, error) {
	rows, err := s.db.Query(ctx,
		`SELECT g.id, g.name, g.email, g.invitation_code, g.party_size, g.locations,
		        g.language, g.notes, g.invited_by, g.invitation_sent, g.rsvp_submitted,
		        g.created_at, g.updated_at,
		        (SELECT COUNT(*) FROM guests WHERE group_id = g.id) AS guest_count
		 FROM guest_groups g
		 ORDER BY g.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var out []model.GroupWithCount
	for rows.Next() {
		var gc model.GroupWithCount
		var locations, invitedBy []string
		err := rows.Scan(&gc.ID, &gc.Name, &gc.Email, &gc.InvitationCode, &gc.PartySize,
			&locations, &gc.Language, &gc.Notes, &invitedBy, &gc.InvitationSent,
			&gc.RSVPSubmitted, &gc.CreatedAt, &gc.UpdatedAt, &gc.GuestCount)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		gc.Locations = model.LocationsFromStrings(locations)
		gc.InvitedBy = invitedBy
		out = append(out, gc)
	}
	return out, rows.Err()
}

func (s *Postgres) UpdateGroup(ctx context.Context, g *model.Group) error {
	g.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Exec(ctx,
		`UPDATE guest_groups
		 SET name = $2, email = $3, party_size = $4, locations = $5, language = $6,
		     notes = $7, invited_by = $8, invitation_sent = $9, rsvp_submitted = $10,
		     updated_at = $11
		 WHERE id = $1`,
		g.ID, g.Name, g.Email, g.PartySize, model.LocationStrings(g.Locations),
		g.Language, g.Notes, g.InvitedBy, g.InvitationSent, g.RSVPSubmitted, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	// Guests go with the group via ON DELETE CASCADE.
	tag, err := s.db.Exec(ctx, `DELETE FROM guest_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Postgres) CreateGuest(ctx context.Context, gst *model.Guest) error {
	now := time.Now().UTC()
	gst.CreatedAt = now
	gst.UpdatedAt = now
	return insertGuest(ctx, s.db, gst)
}

func insertGuest(ctx context.Context, q execer, gst *model.Guest) error {
	dietary, err := json.Marshal(gst.Dietary)
	if err != nil {
		return fmt.Errorf("encode dietary record: %w", err)
	}
	_, err = q.Exec(ctx,
		`INSERT INTO guests (`+guestColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		gst.ID, gst.GroupID, gst.Name, model.LocationStrings(gst.AttendingLocations),
		dietary, gst.AgeCategory, gst.Origin, gst.CreatedAt, gst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert guest: %w", err)
	}
	return nil
}

func (s *Postgres) GetGuest(ctx context.Context, id uuid.UUID) (*model.Guest, error) {
	return scanGuest(s.db.QueryRow(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = $1`, id))
}

func (s *Postgres) ListGuests(ctx context.Context, groupID uuid.UUID) ([]model.Guest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+guestColumns+` FROM guests
		 WHERE group_id = $1
		 ORDER BY created_at ASC, id ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return collectGuests(rows)
}

func (s *Postgres) ListGuestsByLocation(ctx context.Context, loc model.Location) ([]model.Guest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+guestColumns+` FROM guests
		 WHERE attending_locations @> ARRAY[$1::text]
		 ORDER BY name ASC`, string(loc))
	if err != nil {
		return nil, fmt.Errorf("list guests by location: %w", err)
	}
	return collectGuests(rows)
}

func (s *Postgres) UpdateGuest(ctx context.Context, gst *model.Guest) error {
	gst.UpdatedAt = time.Now().UTC()
	return updateGuest(ctx, s.db, gst)
}

func updateGuest(ctx context.Context, q execer, gst *model.Guest) error {
	dietary, err := json.Marshal(gst.Dietary)
	if err != nil {
		return fmt.Errorf("encode dietary record: %w", err)
	}
	tag, err := q.Exec(ctx,
		`UPDATE guests
		 SET name = $2, attending_locations = $3, dietary_preferences = $4,
		     age_category = $5, updated_at = $6
		 WHERE id = $1`,
		gst.ID, gst.Name, model.LocationStrings(gst.AttendingLocations),
		dietary, gst.AgeCategory, gst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Postgres) CountGuests(ctx context.Context, groupID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM guests WHERE group_id = $1`, groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count guests: %w", err)
	}
	return count, nil
}

// WithGroupLock opens a transaction, takes an exclusive row lock on the group
// with SELECT ... FOR UPDATE, and runs fn against it. Two concurrent
// reconciliations for the same group serialize on that lock; transactions for
// other groups proceed untouched. Any error from fn rolls everything back.
func (s *Postgres) WithGroupLock(ctx context.Context, groupID uuid.UUID, fn func(tx RosterTx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	group, err := scanGroup(tx.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM guest_groups WHERE id = $1 FOR UPDATE`, groupID))
	if err != nil {
		return err
	}

	if err = fn(&pgTx{tx: tx, group: group}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pgTx adapts a pgx transaction to RosterTx.
type pgTx struct {
	tx    pgx.Tx
	group *model.Group
}

func (t *pgTx) Group() *model.Group { return t.group }

func (t *pgTx) Guests(ctx context.Context) ([]model.Guest, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+guestColumns+` FROM guests
		 WHERE group_id = $1
		 ORDER BY created_at ASC, id ASC`, t.group.ID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return collectGuests(rows)
}

func (t *pgTx) InsertGuest(ctx context.Context, gst *model.Guest) error {
	now := time.Now().UTC()
	gst.CreatedAt = now
	gst.UpdatedAt = now
	return insertGuest(ctx, t.tx, gst)
}

func (t *pgTx) UpdateGuest(ctx context.Context, gst *model.Guest) error {
	gst.UpdatedAt = time.Now().UTC()
	return updateGuest(ctx, t.tx, gst)
}

func (t *pgTx) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (t *pgTx) SaveGroup(ctx context.Context, g *model.Group) error {
	g.UpdatedAt = time.Now().UTC()
	tag, err := t.tx.Exec(ctx,
		`UPDATE guest_groups
		 SET name = $2, email = $3, party_size = $4, locations = $5, language = $6,
		     notes = $7, invited_by = $8, invitation_sent = $9, rsvp_submitted = $10,
		     updated_at = $11
		 WHERE id = $1`,
		g.ID, g.Name, g.Email, g.PartySize, model.LocationStrings(g.Locations),
		g.Language, g.Notes, g.InvitedBy, g.InvitationSent, g.RSVPSubmitted, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
