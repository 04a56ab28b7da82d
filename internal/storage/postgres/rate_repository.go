package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

func (r *RateRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *RateRepository) CreateRate(ctx context.Context, rate domain.Rate) error {
	const stmt = `
INSERT INTO tarifas (id, descripcion, monto_por_hora, activo, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, rate.ID, rate.Description, rate.AmountPerHour, rate.Active, rate.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRate
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create rate: %w", err)
	}
	return nil
}

func (r *RateRepository) GetRate(ctx context.Context, id string) (domain.Rate, error) {
	const query = `SELECT id, descripcion, monto_por_hora, activo, created_at FROM tarifas WHERE id = $1`

	var rate domain.Rate
	err := r.queryRow(ctx, query, id).
		Scan(&rate.ID, &rate.Description, &rate.AmountPerHour, &rate.Active, &rate.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Rate{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Rate{}, domain.ErrRateNotFound
		}
		return domain.Rate{}, fmt.Errorf("get rate: %w", err)
	}
	return rate, nil
}

func (r *RateRepository) ListActiveRates(ctx context.Context) ([]domain.Rate, error) {
	const query = `
SELECT id, descripcion, monto_por_hora, activo, created_at
FROM tarifas
WHERE activo
ORDER BY descripcion ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.Rate, 0)
	for rows.Next() {
		var rate domain.Rate
		if err := rows.Scan(&rate.ID, &rate.Description, &rate.AmountPerHour, &rate.Active, &rate.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *RateRepository) UpdateRate(ctx context.Context, rate domain.Rate) error {
	const stmt = `
UPDATE tarifas SET descripcion = $2, monto_por_hora = $3, activo = $4 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, rate.ID, rate.Description, rate.AmountPerHour, rate.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRate
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRateNotFound
	}
	return nil
}

func (r *RateRepository) RateHasActiveTickets(ctx context.Context, rateID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE id_tarifa = $1 AND estado = 'Activo')`

	var inUse bool
	if err := r.queryRow(ctx, query, rateID).Scan(&inUse); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check rate tickets: %w", err)
	}
	return inUse, nil
}

func (r *RateRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *RateRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *RateRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
