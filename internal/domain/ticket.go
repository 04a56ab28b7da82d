package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"
)

type TicketStatus string

const (
	TicketActive    TicketStatus = "Activo"
	TicketFinalized TicketStatus = "Finalizado"
	TicketCancelled TicketStatus = "Cancelado"
)

// Ticket is one billing session. Hours and Amount stay zero while the
// ticket is Activo and are set exactly once when it is finalized.
type Ticket struct {
	ID        string
	ClientID  string
	SpaceID   string
	RateID    string
	EntryTime time.Time
	ExitTime  null.Time
	Hours     decimal.Decimal
	Amount    decimal.Decimal
	Status    TicketStatus
	CreatedAt time.Time
}

// TicketDetail carries a ticket with its related records, as returned
// by detail and listing endpoints.
type TicketDetail struct {
	Ticket Ticket
	Client Client
	Space  Space
	Rate   Rate
}
