package postgres

import (
	"context"
	"database/sql"
	"strings"

	"akita-connect/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, organizer_id, title, description, location, starts_at,
	created_at, updated_at
`

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, organizer_id, title, description, location, starts_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.OrganizerID,
		e.Title,
		e.Description,
		e.Location,
		e.StartsAt,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EventsRepo) Update(ctx context.Context, e events.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET
			title = $2,
			description = $3,
			location = $4,
			starts_at = $5,
			updated_at = $6
		WHERE id = $1
	`,
		e.ID,
		e.Title,
		e.Description,
		e.Location,
		e.StartsAt,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return events.Event{}, ErrNotFound
		}
		return events.Event{}, err
	}
	return e, nil
}

func (r *EventsRepo) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		ORDER BY starts_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventsRepo) SearchByTitle(ctx context.Context, q string, limit int) ([]events.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY starts_at ASC
		LIMIT $2
	`, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventsRepo) UpsertRSVP(ctx context.Context, rv events.RSVP) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_rsvps (event_id, user_id, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`,
		rv.EventID,
		rv.UserID,
		string(rv.Status),
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	return err
}

func (r *EventsRepo) ListRSVPs(ctx context.Context, eventID string) ([]events.RSVP, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event_id, user_id, status, created_at, updated_at
		FROM event_rsvps
		WHERE event_id = $1
		ORDER BY created_at ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.RSVP, 0)
	for rows.Next() {
		var rv events.RSVP
		var status string
		if err := rows.Scan(&rv.EventID, &rv.UserID, &status, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		rv.Status = events.RSVPStatus(status)
		out = append(out, rv)
	}
	return out, rows.Err()
}

func scanEvent(row rowScanner) (events.Event, error) {
	var e events.Event
	err := row.Scan(
		&e.ID,
		&e.OrganizerID,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.StartsAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return events.Event{}, err
	}
	return e, nil
}

func collectEvents(rows *sql.Rows) ([]events.Event, error) {
	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
