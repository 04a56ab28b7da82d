package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// scanTicket reads one ticket row in column order: id, id_cliente,
// id_espacio, id_tarifa, hora_ingreso, hora_salida, horas_estadia,
// monto_total, estado, created_at.
func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	var status string
	err := row.Scan(
		&t.ID, &t.ClientID, &t.SpaceID, &t.RateID,
		&t.EntryTime, &t.ExitTime, &t.Hours, &t.Amount,
		&status, &t.CreatedAt,
	)
	if err != nil {
		return domain.Ticket{}, err
	}
	t.Status = domain.TicketStatus(status)
	return t, nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, id_cliente, id_espacio, id_tarifa, hora_ingreso,
                     horas_estadia, monto_total, estado, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		ticket.ID, ticket.ClientID, ticket.SpaceID, ticket.RateID,
		ticket.EntryTime, ticket.Hours, ticket.Amount, string(ticket.Status), ticket.CreatedAt,
	)
	if err != nil {
		// The partial unique index on (id_espacio) WHERE estado='Activo'
		// backstops the claim: a second active ticket on the space loses.
		if isUniqueViolation(err) {
			return domain.ErrSpaceOccupied
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetTicketForUpdate(ctx context.Context, id string) (domain.Ticket, error) {
	const query = `
SELECT id, id_cliente, id_espacio, id_tarifa, hora_ingreso, hora_salida,
       horas_estadia, monto_total, estado, created_at
FROM tickets
WHERE id = $1
FOR UPDATE`

	t, err := scanTicket(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Ticket{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

const ticketDetailQuery = `
SELECT t.id, t.id_cliente, t.id_espacio, t.id_tarifa, t.hora_ingreso, t.hora_salida,
       t.horas_estadia, t.monto_total, t.estado, t.created_at,
       c.id, c.nit, c.nombre, c.placa, c.created_at,
       e.id, e.numero, e.estado, e.created_at,
       tf.id, tf.descripcion, tf.monto_por_hora, tf.activo, tf.created_at
FROM tickets t
JOIN clientes c ON c.id = t.id_cliente
JOIN espacios e ON e.id = t.id_espacio
JOIN tarifas tf ON tf.id = t.id_tarifa`

func scanTicketDetail(row pgx.Row) (domain.TicketDetail, error) {
	var d domain.TicketDetail
	var ticketStatus, spaceState string
	err := row.Scan(
		&d.Ticket.ID, &d.Ticket.ClientID, &d.Ticket.SpaceID, &d.Ticket.RateID,
		&d.Ticket.EntryTime, &d.Ticket.ExitTime, &d.Ticket.Hours, &d.Ticket.Amount,
		&ticketStatus, &d.Ticket.CreatedAt,
		&d.Client.ID, &d.Client.NIT, &d.Client.Name, &d.Client.Plate, &d.Client.CreatedAt,
		&d.Space.ID, &d.Space.Number, &spaceState, &d.Space.CreatedAt,
		&d.Rate.ID, &d.Rate.Description, &d.Rate.AmountPerHour, &d.Rate.Active, &d.Rate.CreatedAt,
	)
	if err != nil {
		return domain.TicketDetail{}, err
	}
	d.Ticket.Status = domain.TicketStatus(ticketStatus)
	d.Space.State = domain.SpaceState(spaceState)
	return d, nil
}

func (r *TicketRepository) GetTicketDetail(ctx context.Context, id string) (domain.TicketDetail, error) {
	query := ticketDetailQuery + `
WHERE t.id = $1`

	d, err := scanTicketDetail(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.TicketDetail{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.TicketDetail{}, domain.ErrTicketNotFound
		}
		return domain.TicketDetail{}, fmt.Errorf("get ticket detail: %w", err)
	}
	return d, nil
}

func (r *TicketRepository) ListTicketDetails(ctx context.Context, status domain.TicketStatus) ([]domain.TicketDetail, error) {
	query := ticketDetailQuery + `
WHERE t.estado = $1
ORDER BY t.hora_ingreso DESC`

	rows, err := r.query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	details := make([]domain.TicketDetail, 0)
	for rows.Next() {
		d, err := scanTicketDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *TicketRepository) ListTicketsByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	const query = `
SELECT id, id_cliente, id_espacio, id_tarifa, hora_ingreso, hora_salida,
       horas_estadia, monto_total, estado, created_at
FROM tickets
WHERE id_cliente = $1
ORDER BY hora_ingreso DESC`

	rows, err := r.query(ctx, query, clientID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list tickets by client: %w", err)
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

func (r *TicketRepository) FinalizeTicket(ctx context.Context, id string, exitTime time.Time, hours, amount decimal.Decimal) error {
	const stmt = `
UPDATE tickets
SET hora_salida = $2, horas_estadia = $3, monto_total = $4, estado = 'Finalizado'
WHERE id = $1 AND estado = 'Activo'`

	tag, err := r.exec(ctx, stmt, id, exitTime, hours, amount)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("finalize ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotActive
	}
	return nil
}

func (r *TicketRepository) SetTicketStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	const stmt = `UPDATE tickets SET estado = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, string(status))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) UpdateTicketRefs(ctx context.Context, id, clientID, spaceID, rateID string) error {
	const stmt = `
UPDATE tickets
SET id_cliente = $2, id_espacio = $3, id_tarifa = $4
WHERE id = $1 AND estado = 'Activo'`

	tag, err := r.exec(ctx, stmt, id, clientID, spaceID, rateID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSpaceOccupied
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update ticket refs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotActive
	}
	return nil
}

func (r *TicketRepository) GetClient(ctx context.Context, id string) (domain.Client, error) {
	return getClient(ctx, r.queryRow, id)
}

func (r *TicketRepository) GetSpaceForUpdate(ctx context.Context, id string) (domain.Space, error) {
	return getSpaceForUpdate(ctx, r.queryRow, id)
}

func (r *TicketRepository) ClaimSpace(ctx context.Context, id string) error {
	return claimSpace(ctx, r.exec, id)
}

func (r *TicketRepository) ReleaseSpace(ctx context.Context, id string) error {
	return releaseSpace(ctx, r.exec, id)
}

func (r *TicketRepository) GetRate(ctx context.Context, id string) (domain.Rate, error) {
	return getRate(ctx, r.queryRow, id)
}

func (r *TicketRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TicketRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *TicketRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
