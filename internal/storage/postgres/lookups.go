package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

// The session flow and the ticket ledger need the same cross-entity
// reads and space transitions; both repositories delegate here.

type rowQuerier func(ctx context.Context, sql string, args ...any) pgx.Row

type execer func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

func getClient(ctx context.Context, queryRow rowQuerier, id string) (domain.Client, error) {
	const query = `SELECT id, nit, nombre, placa, created_at FROM clientes WHERE id = $1`

	var c domain.Client
	err := queryRow(ctx, query, id).Scan(&c.ID, &c.NIT, &c.Name, &c.Plate, &c.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Client{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return domain.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// getSpaceForUpdate locks the space row for the rest of the transaction
// so concurrent entries serialize on it.
func getSpaceForUpdate(ctx context.Context, queryRow rowQuerier, id string) (domain.Space, error) {
	const query = `SELECT id, numero, estado, created_at FROM espacios WHERE id = $1 FOR UPDATE`

	var s domain.Space
	var state string
	err := queryRow(ctx, query, id).Scan(&s.ID, &s.Number, &state, &s.CreatedAt)
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

// claimSpace is a compare-and-swap Libre→Ocupado; zero rows affected
// means somebody else holds the space.
func claimSpace(ctx context.Context, exec execer, id string) error {
	const stmt = `UPDATE espacios SET estado = 'Ocupado' WHERE id = $1 AND estado = 'Libre'`

	tag, err := exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("claim space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpaceOccupied
	}
	return nil
}

// releaseSpace is the inverse swap; releasing an already-free space is
// a conflict, not a no-op, so state drift surfaces instead of hiding.
func releaseSpace(ctx context.Context, exec execer, id string) error {
	const stmt = `UPDATE espacios SET estado = 'Libre' WHERE id = $1 AND estado = 'Ocupado'`

	tag, err := exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("release space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpaceNotHeld
	}
	return nil
}

func getRate(ctx context.Context, queryRow rowQuerier, id string) (domain.Rate, error) {
	const query = `SELECT id, descripcion, monto_por_hora, activo, created_at FROM tarifas WHERE id = $1`

	var rate domain.Rate
	err := queryRow(ctx, query, id).
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
