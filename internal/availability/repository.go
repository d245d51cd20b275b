package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightnest/cleaning-booking-backend/internal/db"
)

// Store is the persistence collaborator of the engine. All methods are reads.
type Store interface {
	// GetService returns ErrServiceNotFound when no such service exists.
	GetService(ctx context.Context, id string) (*ServiceInfo, error)
	// HasBlockedDate reports whether any blocked date falls within [from, to).
	HasBlockedDate(ctx context.Context, from, to time.Time) (bool, error)
	// ListWindows returns the available windows for the weekday ordered by start time.
	ListWindows(ctx context.Context, weekday time.Weekday) ([]Window, error)
	// ListBookings returns non-cancelled bookings of the service that intersect [from, to),
	// ordered by start time.
	ListBookings(ctx context.Context, serviceID string, from, to time.Time) ([]Booking, error)
}

type pgxStore struct {
	q db.Querier
}

// NewPgxStore returns a Store reading through q, which may be the pool or an open transaction.
func NewPgxStore(q db.Querier) Store {
	return &pgxStore{q: q}
}

func (s *pgxStore) GetService(ctx context.Context, id string) (*ServiceInfo, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "duration_minutes", "is_active").
		From("public.services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	var info ServiceInfo
	err = s.q.QueryRow(ctx, query, args...).Scan(&info.ID, &info.Name, &info.DurationMinutes, &info.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return &info, nil
}

func (s *pgxStore) HasBlockedDate(ctx context.Context, from, to time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery, args, err := psql.Select("1").
		From("public.blocked_dates").
		Where(squirrel.GtOrEq{"blocked_date": from.Format(dateLayout)}).
		Where(squirrel.Lt{"blocked_date": to.Format(dateLayout)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build blocked date query failed: %w", err)
	}

	var exists bool
	if err := s.q.QueryRow(ctx, "SELECT EXISTS ("+subQuery+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check blocked date failed: %w", err)
	}
	return exists, nil
}

func (s *pgxStore) ListWindows(ctx context.Context, weekday time.Weekday) ([]Window, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "day_of_week", "start_time::text", "end_time::text", "is_available").
		From("public.time_windows").
		Where(squirrel.Eq{"day_of_week": int(weekday)}).
		Where(squirrel.Eq{"is_available": true}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list windows query failed: %w", err)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list windows failed: %w", err)
	}
	defer rows.Close()

	var windows []Window
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.ID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &w.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan window failed: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate windows failed: %w", err)
	}
	return windows, nil
}

func (s *pgxStore) ListBookings(ctx context.Context, serviceID string, from, to time.Time) ([]Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "service_id", "start_time", "end_time", "status").
		From("public.appointments").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.NotEq{"status": string(StatusCancelled)}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.ServiceID, &b.StartTime, &b.EndTime, &b.Status); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

// isInvalidText reports a malformed uuid literal, which means the row cannot exist.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
