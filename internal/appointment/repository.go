package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightnest/cleaning-booking-backend/internal/availability"
	"github.com/brightnest/cleaning-booking-backend/internal/db"
)

// CheckFunc re-validates a booking against the state visible inside the insert transaction.
type CheckFunc func(ctx context.Context, store availability.Store) error

type Repository interface {
	// CreateExclusive serializes creation per service: it takes a transaction-scoped
	// advisory lock on the service id, runs check against the locked state and inserts
	// only if check returns nil.
	CreateExclusive(ctx context.Context, a *Appointment, check CheckFunc) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)
	// UpdateStatus moves id from one status to another. It returns ErrStatusChanged
	// when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status) (*Appointment, error)

	// ListDueReminders returns confirmed, not yet reminded appointments starting in [from, to).
	ListDueReminders(ctx context.Context, from, to time.Time) ([]*Appointment, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
	// CompleteEnded marks confirmed appointments that ended before cutoff as completed.
	CompleteEnded(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var selectColumns = []string{
	"a.id", "a.service_id", "s.name", "a.customer_name", "a.customer_email", "a.customer_phone",
	"a.address", "a.notes", "a.start_time", "a.end_time", "a.status", "a.reminded_at",
	"a.created_at", "a.updated_at",
}

func scanTargets(a *Appointment) []any {
	return []any{
		&a.ID, &a.ServiceID, &a.ServiceName, &a.CustomerName, &a.CustomerEmail, &a.CustomerPhone,
		&a.Address, &a.Notes, &a.StartTime, &a.EndTime, &a.Status, &a.RemindedAt,
		&a.CreatedAt, &a.UpdatedAt,
	}
}

func (r *pgxRepository) CreateExclusive(ctx context.Context, a *Appointment, check CheckFunc) error {
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Released automatically at commit or rollback.
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", a.ServiceID); err != nil {
			return fmt.Errorf("acquire service lock failed: %w", err)
		}

		if err := check(ctx, availability.NewPgxStore(tx)); err != nil {
			return err
		}

		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Insert("public.appointments").
			Columns(
				"service_id", "customer_name", "customer_email", "customer_phone",
				"address", "notes", "start_time", "end_time", "status",
			).
			Values(
				a.ServiceID, a.CustomerName, a.CustomerEmail, a.CustomerPhone,
				a.Address, a.Notes, a.StartTime, a.EndTime, string(a.Status),
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create appointment query failed: %w", err)
		}

		if err := tx.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
				return ErrTimeConflict
			}
			return fmt.Errorf("create appointment failed: %w", err)
		}
		return nil
	})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(selectColumns...).
		From("public.appointments a").
		Join("public.services s ON a.service_id = s.id").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get appointment query failed: %w", err)
	}

	var a Appointment
	if err := r.pool.QueryRow(ctx, query, args...).Scan(scanTargets(&a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(selectColumns, "count(*) OVER() as total_count")...).
		From("public.appointments a").
		Join("public.services s ON a.service_id = s.id")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"a.status": filter.Status})
	}
	if filter.ServiceID != "" {
		query = query.Where(squirrel.Eq{"a.service_id": filter.ServiceID})
	}
	// Date range filtering (intersection logic)
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"a.end_time": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"a.start_time": *filter.To})
	}

	// Sorting
	orderBy := "a.start_time"
	if filter.SortBy != "" {
		orderBy = "a." + filter.SortBy
	}

	orderDir := "ASC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}

	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list appointments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments failed: %w", err)
	}
	defer rows.Close()

	var result []*Appointment
	var total int

	for rows.Next() {
		var a Appointment
		if err := rows.Scan(append(scanTargets(&a), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan appointment failed: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate appointments failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.appointments").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update appointment status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update appointment status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the row is gone or someone else changed its status first.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusChanged
	}
	return r.GetByID(ctx, id)
}

func (r *pgxRepository) ListDueReminders(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(selectColumns...).
		From("public.appointments a").
		Join("public.services s ON a.service_id = s.id").
		Where(squirrel.Eq{"a.status": string(StatusConfirmed)}).
		Where(squirrel.Eq{"a.reminded_at": nil}).
		Where(squirrel.GtOrEq{"a.start_time": from}).
		Where(squirrel.Lt{"a.start_time": to}).
		OrderBy("a.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list due reminders query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list due reminders failed: %w", err)
	}
	defer rows.Close()

	var result []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(scanTargets(&a)...); err != nil {
			return nil, fmt.Errorf("scan appointment failed: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due reminders failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) MarkReminded(ctx context.Context, id string, at time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.appointments").
		Set("reminded_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark reminded query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark reminded failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CompleteEnded(ctx context.Context, cutoff time.Time) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.appointments").
		Set("status", string(StatusCompleted)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"status": string(StatusConfirmed)}).
		Where(squirrel.Lt{"end_time": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build complete ended query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("complete ended appointments failed: %w", err)
	}
	return ct.RowsAffected(), nil
}
