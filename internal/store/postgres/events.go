package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"ATRAX_BACK-END/internal/models"
	"ATRAX_BACK-END/internal/store"
)

const eventColumns = `e.id, e.title, e.description, e.date, e.location, e.max_attendees, e.creator_id, e.created_at, e.updated_at,
       COALESCE((SELECT array_agg(a.user_id::text ORDER BY a.registered_at, a.user_id)
                   FROM event_attendees a WHERE a.event_id = e.id), '{}') AS attendees`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	var attendees []string
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.MaxAttendees,
		&e.CreatorID, &e.CreatedAt, &e.UpdatedAt, &attendees); err != nil {
		return nil, err
	}
	e.Attendees = make([]uuid.UUID, 0, len(attendees))
	for _, raw := range attendees {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse attendee id %q: %w", raw, err)
		}
		e.Attendees = append(e.Attendees, id)
	}
	return &e, nil
}

func (s *Store) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}
	var limit any // NULL means no limit
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+eventColumns+`
           FROM events e
          WHERE ($1::timestamptz IS NULL OR e.date >= $1)
            AND ($2::timestamptz IS NULL OR e.date <= $2)
          ORDER BY e.date ASC, e.created_at ASC
         OFFSET $3 LIMIT $4`,
		filter.From, filter.To, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	e, err := scanEvent(s.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	e.Attendees = []uuid.UUID{}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, title, description, date, location, max_attendees, creator_id, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Title, e.Description, e.Date, e.Location, e.MaxAttendees, e.CreatorID, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *Store) UpdateEvent(ctx context.Context, id uuid.UUID, f models.EventFields) (*models.Event, error) {
	execCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(execCtx,
		`UPDATE events
            SET title = $1,
                description = $2,
                date = $3,
                location = $4,
                max_attendees = $5,
                updated_at = $6
          WHERE id = $7`,
		f.Title, f.Description, f.Date, f.Location, f.MaxAttendees, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetEvent(ctx, id)
}

func (s *Store) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// attendee rows go with the event (ON DELETE CASCADE)
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddAttendee locks the event row so the count check and the insert see no
// concurrent registration for the same event.
func (s *Store) AddAttendee(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	txCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := pgx.BeginFunc(txCtx, s.pool, func(tx pgx.Tx) error {
		var maxAttendees int
		if err := tx.QueryRow(txCtx,
			`SELECT max_attendees FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&maxAttendees); err != nil {
			return notFound(err)
		}

		var member bool
		var count int
		if err := tx.QueryRow(txCtx,
			`SELECT COALESCE(bool_or(user_id = $2), FALSE), COUNT(1)
               FROM event_attendees WHERE event_id = $1`, eventID, userID).Scan(&member, &count); err != nil {
			return fmt.Errorf("count attendees: %w", err)
		}
		if member {
			return nil
		}
		if count >= maxAttendees {
			return store.ErrCapacityExceeded
		}

		if _, err := tx.Exec(txCtx,
			`INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2)`, eventID, userID); err != nil {
			return fmt.Errorf("insert attendee: %w", err)
		}
		if _, err := tx.Exec(txCtx,
			`UPDATE events SET updated_at = now() WHERE id = $1`, eventID); err != nil {
			return fmt.Errorf("touch event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetEvent(ctx, eventID)
}

func (s *Store) RemoveAttendee(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, bool, error) {
	execCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(execCtx,
		`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("delete attendee: %w", err)
	}
	removed := tag.RowsAffected() > 0
	if removed {
		if _, err := s.pool.Exec(execCtx, `UPDATE events SET updated_at = now() WHERE id = $1`, eventID); err != nil {
			return nil, false, fmt.Errorf("touch event: %w", err)
		}
	}

	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}
	return e, removed, nil
}

var _ store.EventStore = (*Store)(nil)
