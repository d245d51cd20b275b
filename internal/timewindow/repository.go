package timewindow

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, w *TimeWindow) error
	GetByID(ctx context.Context, id string) (*TimeWindow, error)
	List(ctx context.Context, filter Filter) ([]*TimeWindow, error)
	Update(ctx context.Context, w *TimeWindow) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, w *TimeWindow) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.time_windows").
		Columns("day_of_week", "start_time", "end_time", "is_available").
		Values(w.DayOfWeek, w.StartTime, w.EndTime, w.IsAvailable).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create time window query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&w.ID, &w.CreatedAt); err != nil {
		return fmt.Errorf("create time window failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*TimeWindow, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "day_of_week", "start_time::text", "end_time::text", "is_available", "created_at").
		From("public.time_windows").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get time window query failed: %w", err)
	}

	var w TimeWindow
	err = r.pool.QueryRow(ctx, query, args...).Scan(&w.ID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &w.IsAvailable, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get time window failed: %w", err)
	}
	w.StartTime = trimSeconds(w.StartTime)
	w.EndTime = trimSeconds(w.EndTime)
	return &w, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*TimeWindow, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select("id", "day_of_week", "start_time::text", "end_time::text", "is_available", "created_at").
		From("public.time_windows")

	if filter.DayOfWeek != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"day_of_week": *filter.DayOfWeek})
	}
	if filter.AvailableOnly {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"is_available": true})
	}

	sql, args, err := queryBuilder.OrderBy("day_of_week ASC", "start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list time windows query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list time windows failed: %w", err)
	}
	defer rows.Close()

	var result []*TimeWindow
	for rows.Next() {
		var w TimeWindow
		if err := rows.Scan(&w.ID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &w.IsAvailable, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan time window failed: %w", err)
		}
		w.StartTime = trimSeconds(w.StartTime)
		w.EndTime = trimSeconds(w.EndTime)
		result = append(result, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time windows failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, w *TimeWindow) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.time_windows").
		Set("day_of_week", w.DayOfWeek).
		Set("start_time", w.StartTime).
		Set("end_time", w.EndTime).
		Set("is_available", w.IsAvailable).
		Where(squirrel.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update time window query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update time window failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.time_windows").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete time window query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete time window failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
