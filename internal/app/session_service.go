package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umgjosem/Arqui-parqueo/internal/clock"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type SessionRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetClient(ctx context.Context, id string) (domain.Client, error)
	GetSpaceForUpdate(ctx context.Context, id string) (domain.Space, error)
	ClaimSpace(ctx context.Context, id string) error
	ReleaseSpace(ctx context.Context, id string) error
	GetRate(ctx context.Context, id string) (domain.Rate, error)
	FirstActiveRate(ctx context.Context) (domain.Rate, error)
}

// TicketLedger is the slice of the ticket service the session flow
// drives. Its operations join the ambient transaction in ctx.
type TicketLedger interface {
	Open(ctx context.Context, in OpenTicketInput) (domain.Ticket, error)
	Close(ctx context.Context, ticketID string, exitTime time.Time) (CloseTicketResult, error)
	Cancel(ctx context.Context, ticketID string) (domain.Ticket, error)
}

// SessionService orchestrates the vehicle entry/exit lifecycle: it
// claims and releases spaces in lockstep with ticket state so that a
// space is Libre exactly when no Activo ticket references it.
type SessionService struct {
	repo   SessionRepository
	ledger TicketLedger
	clock  clock.Clock
	logger *log.Logger
}

func NewSessionService(repo SessionRepository, ledger TicketLedger, clk clock.Clock, logger *log.Logger) *SessionService {
	if logger == nil {
		logger = log.Default()
	}
	return &SessionService{
		repo:   repo,
		ledger: ledger,
		clock:  clk,
		logger: logger,
	}
}

type EntryInput struct {
	ClientID string
	SpaceID  string
	// RateID is optional; when empty the oldest active rate applies.
	RateID string
}

type EntryResult struct {
	Ticket domain.Ticket
	Client domain.Client
	Space  domain.Space
	Rate   domain.Rate
}

// RegisterEntry assigns a free space to a client and opens the billing
// session. The whole flow runs in one transaction with the space row
// locked, so two concurrent entries on the same space cannot both see
// it Libre; validation failures abort before any mutation.
func (s *SessionService) RegisterEntry(ctx context.Context, in EntryInput) (EntryResult, error) {
	if in.ClientID == "" || in.SpaceID == "" {
		return EntryResult{}, domain.ErrInvalidInput
	}

	now := s.clock.Now()
	var result EntryResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		client, err := s.repo.GetClient(txCtx, in.ClientID)
		if err != nil {
			return err
		}

		space, err := s.repo.GetSpaceForUpdate(txCtx, in.SpaceID)
		if err != nil {
			return err
		}
		if !space.Available() {
			return domain.ErrSpaceOccupied
		}

		var rate domain.Rate
		if in.RateID == "" {
			rate, err = s.repo.FirstActiveRate(txCtx)
		} else {
			rate, err = s.repo.GetRate(txCtx, in.RateID)
			if err == nil && !rate.Active {
				err = domain.ErrRateNotFound
			}
		}
		if err != nil {
			return err
		}

		if err := s.repo.ClaimSpace(txCtx, space.ID); err != nil {
			return err
		}

		ticket, err := s.ledger.Open(txCtx, OpenTicketInput{
			ClientID:  client.ID,
			SpaceID:   space.ID,
			RateID:    rate.ID,
			EntryTime: now,
		})
		if err != nil {
			return err
		}

		space.State = domain.SpaceOccupied
		result = EntryResult{Ticket: ticket, Client: client, Space: space, Rate: rate}
		return nil
	})
	if err != nil {
		return EntryResult{}, err
	}
	return result, nil
}

type ExitResult struct {
	Ticket   domain.Ticket
	Hours    decimal.Decimal
	Amount   decimal.Decimal
	ExitTime time.Time
}

// RegisterExit finalizes the ticket with the computed charges and frees
// its space, as one transaction. A failed release rolls the close back
// and is surfaced as ErrSpaceReleaseFailed rather than leaving a
// Finalizado ticket on an occupied space.
func (s *SessionService) RegisterExit(ctx context.Context, ticketID string) (ExitResult, error) {
	now := s.clock.Now()
	var result ExitResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		closed, err := s.ledger.Close(txCtx, ticketID, now)
		if err != nil {
			return err
		}

		if err := s.repo.ReleaseSpace(txCtx, closed.Ticket.SpaceID); err != nil {
			s.logger.Printf("ERROR: releasing space %s after closing ticket %s: %v",
				closed.Ticket.SpaceID, ticketID, err)
			return fmt.Errorf("%w: %v", domain.ErrSpaceReleaseFailed, err)
		}

		result = ExitResult{
			Ticket:   closed.Ticket,
			Hours:    closed.Hours,
			Amount:   closed.Amount,
			ExitTime: now,
		}
		return nil
	})
	if err != nil {
		return ExitResult{}, err
	}
	return result, nil
}

// CancelTicket voids an Activo ticket and frees its space without
// billing, in one transaction.
func (s *SessionService) CancelTicket(ctx context.Context, ticketID string) (domain.Ticket, error) {
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.ledger.Cancel(txCtx, ticketID)
		if err != nil {
			return err
		}
		if err := s.repo.ReleaseSpace(txCtx, ticket.SpaceID); err != nil {
			s.logger.Printf("ERROR: releasing space %s after cancelling ticket %s: %v",
				ticket.SpaceID, ticketID, err)
			return fmt.Errorf("%w: %v", domain.ErrSpaceReleaseFailed, err)
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}
