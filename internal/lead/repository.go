package lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, l *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter Filter) ([]*Lead, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var selectColumns = []string{
	"l.id", "l.name", "l.email", "l.phone", "l.address", "l.service_id::text",
	"COALESCE(s.name, '')", "l.message", "l.status", "l.created_at", "l.updated_at",
}

func scanTargets(l *Lead) []any {
	return []any{
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Address, &l.ServiceID,
		&l.ServiceName, &l.Message, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	}
}

func (r *pgxRepository) Create(ctx context.Context, l *Lead) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.leads").
		Columns("name", "email", "phone", "address", "service_id", "message", "status").
		Values(l.Name, l.Email, l.Phone, l.Address, l.ServiceID, l.Message, string(l.Status)).
		Suffix("RETURNING id, created_at, updated_at, " +
			"COALESCE((SELECT name FROM public.services WHERE id = service_id), '')").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create lead query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt, &l.ServiceName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrUnknownService
		}
		return fmt.Errorf("create lead failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(selectColumns...).
		From("public.leads l").
		LeftJoin("public.services s ON s.id = l.service_id").
		Where(squirrel.Eq{"l.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get lead query failed: %w", err)
	}

	var l Lead
	if err := r.pool.QueryRow(ctx, query, args...).Scan(scanTargets(&l)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lead failed: %w", err)
	}
	return &l, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Lead, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(selectColumns, "count(*) OVER() as total_count")...).
		From("public.leads l").
		LeftJoin("public.services s ON s.id = l.service_id")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"l.status": filter.Status})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"l.name": "%" + filter.Keyword + "%"},
			squirrel.ILike{"l.email": "%" + filter.Keyword + "%"},
			squirrel.ILike{"l.message": "%" + filter.Keyword + "%"},
		})
	}

	// Sorting
	orderBy := "l.created_at"
	if filter.SortBy != "" {
		orderBy = "l." + filter.SortBy
	}
	orderDir := "DESC"
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
		return nil, 0, fmt.Errorf("build list lead query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads failed: %w", err)
	}
	defer rows.Close()

	var result []*Lead
	var total int

	for rows.Next() {
		var l Lead
		if err := rows.Scan(append(scanTargets(&l), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan lead failed: %w", err)
		}
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.leads").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update lead query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update lead failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.leads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lead query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete lead failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
