package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SessionRepository) GetClient(ctx context.Context, id string) (domain.Client, error) {
	return getClient(ctx, r.queryRow, id)
}

func (r *SessionRepository) GetSpaceForUpdate(ctx context.Context, id string) (domain.Space, error) {
	return getSpaceForUpdate(ctx, r.queryRow, id)
}

func (r *SessionRepository) ClaimSpace(ctx context.Context, id string) error {
	return claimSpace(ctx, r.exec, id)
}

func (r *SessionRepository) ReleaseSpace(ctx context.Context, id string) error {
	return releaseSpace(ctx, r.exec, id)
}

func (r *SessionRepository) GetRate(ctx context.Context, id string) (domain.Rate, error) {
	return getRate(ctx, r.queryRow, id)
}

// FirstActiveRate returns the oldest active rate. Creation order with
// the id as tiebreak keeps the default deterministic across calls.
func (r *SessionRepository) FirstActiveRate(ctx context.Context) (domain.Rate, error) {
	const query = `
SELECT id, descripcion, monto_por_hora, activo, created_at
FROM tarifas
WHERE activo
ORDER BY created_at ASC, id ASC
LIMIT 1`

	var rate domain.Rate
	err := r.queryRow(ctx, query).
		Scan(&rate.ID, &rate.Description, &rate.AmountPerHour, &rate.Active, &rate.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rate{}, domain.ErrNoActiveRate
		}
		return domain.Rate{}, fmt.Errorf("first active rate: %w", err)
	}
	return rate, nil
}

func (r *SessionRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SessionRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
