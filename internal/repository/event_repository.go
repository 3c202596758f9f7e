package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iomp-platform/iomp-api/internal/models"
)

// EventRepository handles persistence of events and their registrations.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns all events in chronological order.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	const query = `SELECT id, title, description, date, location, organizer_id, organization_id, created_at FROM events ORDER BY date ASC`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListUpcoming returns up to limit events with date >= from, soonest first.
func (r *EventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error) {
	const query = `SELECT id, title, description, date, location, organizer_id, organization_id, created_at FROM events WHERE date >= $1 ORDER BY date ASC LIMIT $2`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, from, limit); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// FindByID returns an event by identifier.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT id, title, description, date, location, organizer_id, organization_id, created_at FROM events WHERE id = $1 LIMIT 1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return &event, nil
}

// FindDetailByID returns an event with organizer name and registration count.
func (r *EventRepository) FindDetailByID(ctx context.Context, id string) (*models.EventDetail, error) {
	const query = `SELECT e.id, e.title, e.description, e.date, e.location, e.organizer_id, e.organization_id, e.created_at,
        u.name AS organizer_name,
        (SELECT COUNT(*) FROM event_registrations er WHERE er.event_id = e.id) AS registration_count
        FROM events e
        LEFT JOIN users u ON u.id = e.organizer_id
        WHERE e.id = $1`
	var detail models.EventDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event detail: %w", err)
	}
	return &detail, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO events (id, title, description, date, location, organizer_id, organization_id, created_at)
        VALUES (:id, :title, :description, :date, :location, :organizer_id, :organization_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// FindRegistration returns the registration for (event, user) when present.
func (r *EventRepository) FindRegistration(ctx context.Context, eventID, userID string) (*models.EventRegistration, error) {
	const query = `SELECT id, event_id, user_id, status, phone, dietary, accessibility, created_at FROM event_registrations WHERE event_id = $1 AND user_id = $2 LIMIT 1`
	var reg models.EventRegistration
	if err := r.db.GetContext(ctx, &reg, query, eventID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event registration: %w", err)
	}
	return &reg, nil
}

// CreateRegistration inserts a new event registration.
func (r *EventRepository) CreateRegistration(ctx context.Context, reg *models.EventRegistration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.Status == "" {
		reg.Status = models.RegistrationStatusRegistered
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO event_registrations (id, event_id, user_id, status, phone, dietary, accessibility, created_at)
        VALUES (:id, :event_id, :user_id, :status, :phone, :dietary, :accessibility, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reg); err != nil {
		return fmt.Errorf("create event registration: %w", err)
	}
	return nil
}

// ListRegisteredEvents returns events the user holds a registration for.
func (r *EventRepository) ListRegisteredEvents(ctx context.Context, userID string) ([]models.Event, error) {
	const query = `SELECT e.id, e.title, e.description, e.date, e.location, e.organizer_id, e.organization_id, e.created_at
        FROM events e
        JOIN event_registrations er ON er.event_id = e.id
        WHERE er.user_id = $1 AND er.status <> $2
        ORDER BY e.date ASC`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, userID, models.RegistrationStatusCancelled); err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	return events, nil
}
