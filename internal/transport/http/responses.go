package http

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type clientJSON struct {
	ID        string    `json:"id_cliente"`
	NIT       string    `json:"nit"`
	Name      string    `json:"nombre"`
	Plate     string    `json:"placa"`
	CreatedAt time.Time `json:"created_at"`
}

func toClientJSON(c domain.Client) clientJSON {
	return clientJSON{ID: c.ID, NIT: c.NIT, Name: c.Name, Plate: c.Plate, CreatedAt: c.CreatedAt}
}

type spaceJSON struct {
	ID        string    `json:"id_espacio"`
	Number    string    `json:"numero"`
	State     string    `json:"estado"`
	CreatedAt time.Time `json:"created_at"`
}

func toSpaceJSON(s domain.Space) spaceJSON {
	return spaceJSON{ID: s.ID, Number: s.Number, State: string(s.State), CreatedAt: s.CreatedAt}
}

type rateJSON struct {
	ID            string          `json:"id_tarifa"`
	Description   string          `json:"descripcion"`
	AmountPerHour decimal.Decimal `json:"monto_por_hora"`
	Active        bool            `json:"activo"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toRateJSON(r domain.Rate) rateJSON {
	return rateJSON{
		ID:            r.ID,
		Description:   r.Description,
		AmountPerHour: r.AmountPerHour,
		Active:        r.Active,
		CreatedAt:     r.CreatedAt,
	}
}

type ticketJSON struct {
	ID        string          `json:"id_ticket"`
	ClientID  string          `json:"id_cliente"`
	SpaceID   string          `json:"id_espacio"`
	RateID    string          `json:"id_tarifa"`
	EntryTime time.Time       `json:"hora_ingreso"`
	ExitTime  null.Time       `json:"hora_salida"`
	Hours     decimal.Decimal `json:"horas_estadia"`
	Amount    decimal.Decimal `json:"monto_total"`
	Status    string          `json:"estado"`
	CreatedAt time.Time       `json:"created_at"`
}

func toTicketJSON(t domain.Ticket) ticketJSON {
	return ticketJSON{
		ID:        t.ID,
		ClientID:  t.ClientID,
		SpaceID:   t.SpaceID,
		RateID:    t.RateID,
		EntryTime: t.EntryTime,
		ExitTime:  t.ExitTime,
		Hours:     t.Hours,
		Amount:    t.Amount,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}

type ticketDetailJSON struct {
	Ticket ticketJSON `json:"ticket"`
	Client clientJSON `json:"cliente"`
	Space  spaceJSON  `json:"espacio"`
	Rate   rateJSON   `json:"tarifa"`
}

func toTicketDetailJSON(d domain.TicketDetail) ticketDetailJSON {
	return ticketDetailJSON{
		Ticket: toTicketJSON(d.Ticket),
		Client: toClientJSON(d.Client),
		Space:  toSpaceJSON(d.Space),
		Rate:   toRateJSON(d.Rate),
	}
}
