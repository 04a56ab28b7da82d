package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type SpaceRepository struct {
	pool *pgxpool.Pool
}

func NewSpaceRepository(pool *pgxpool.Pool) *SpaceRepository {
	return &SpaceRepository{pool: pool}
}

func (r *SpaceRepository) CreateSpace(ctx context.Context, space domain.Space) error {
	const stmt = `
INSERT INTO espacios (id, numero, estado, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, space.ID, space.Number, string(space.State), space.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create space: %w", err)
	}
	return nil
}

func (r *SpaceRepository) GetSpace(ctx context.Context, id string) (domain.Space, error) {
	const query = `SELECT id, numero, estado, created_at FROM espacios WHERE id = $1`

	var s domain.Space
	var state string
	err := r.queryRow(ctx, query, id).Scan(&s.ID, &s.Number, &state, &s.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Space{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Space{}, domain.ErrSpaceNotFound
		}
		return domain.Space{}, fmt.Errorf("get space: %w", err)
	}
	s.State = domain.SpaceState(state)
	return s, nil
}

func (r *SpaceRepository) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	const query = `SELECT id, numero, estado, created_at FROM espacios ORDER BY numero ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()

	spaces := make([]domain.Space, 0)
	for rows.Next() {
		var s domain.Space
		var state string
		if err := rows.Scan(&s.ID, &s.Number, &state, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan space: %w", err)
		}
		s.State = domain.SpaceState(state)
		spaces = append(spaces, s)
	}
	return spaces, rows.Err()
}

func (r *SpaceRepository) ListTicketsBySpace(ctx context.Context, spaceID string) ([]domain.Ticket, error) {
	const query = `
SELECT id, id_cliente, id_espacio, id_tarifa, hora_ingreso, hora_salida,
       horas_estadia, monto_total, estado, created_at
FROM tickets
WHERE id_espacio = $1
ORDER BY hora_ingreso DESC`

	rows, err := r.query(ctx, query, spaceID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list tickets by space: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, err
	}
	return tickets, nil
}

func (r *SpaceRepository) UpdateSpace(ctx context.Context, space domain.Space) error {
	const stmt = `UPDATE espacios SET numero = $2, estado = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, space.ID, space.Number, string(space.State))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpaceNotFound
	}
	return nil
}

func (r *SpaceRepository) DeleteSpace(ctx context.Context, id string) error {
	const activeQuery = `SELECT EXISTS (SELECT 1 FROM tickets WHERE id_espacio = $1 AND estado = 'Activo')`

	var active bool
	if err := r.queryRow(ctx, activeQuery, id).Scan(&active); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("check space tickets: %w", err)
	}
	if active {
		return domain.ErrSpaceInUse
	}

	tag, err := r.exec(ctx, `DELETE FROM espacios WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSpaceInUse
		}
		return fmt.Errorf("delete space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpaceNotFound
	}
	return nil
}

func (r *SpaceRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SpaceRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *SpaceRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
