package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"

	"github.com/umgjosem/Arqui-parqueo/internal/clock"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type TicketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	GetTicketForUpdate(ctx context.Context, id string) (domain.Ticket, error)
	GetTicketDetail(ctx context.Context, id string) (domain.TicketDetail, error)
	ListTicketDetails(ctx context.Context, status domain.TicketStatus) ([]domain.TicketDetail, error)
	ListTicketsByClient(ctx context.Context, clientID string) ([]domain.Ticket, error)
	FinalizeTicket(ctx context.Context, id string, exitTime time.Time, hours, amount decimal.Decimal) error
	SetTicketStatus(ctx context.Context, id string, status domain.TicketStatus) error
	UpdateTicketRefs(ctx context.Context, id, clientID, spaceID, rateID string) error

	// Cross-entity reads and space transitions used by ticket creation
	// and the constrained update.
	GetClient(ctx context.Context, id string) (domain.Client, error)
	GetSpaceForUpdate(ctx context.Context, id string) (domain.Space, error)
	ClaimSpace(ctx context.Context, id string) error
	ReleaseSpace(ctx context.Context, id string) error
	GetRate(ctx context.Context, id string) (domain.Rate, error)
}

// TicketService is the billing ledger: it opens sessions, finalizes
// them with the computed charges, and keeps terminal tickets immutable.
type TicketService struct {
	repo  TicketRepository
	clock clock.Clock
}

func NewTicketService(repo TicketRepository, clk clock.Clock) *TicketService {
	return &TicketService{repo: repo, clock: clk}
}

type OpenTicketInput struct {
	ClientID  string
	SpaceID   string
	RateID    string
	EntryTime time.Time
}

// Open creates an Activo ticket with zero hours and amount. It trusts
// its caller: client, space and rate validation is the orchestrator's
// job, and the write joins any transaction carried in ctx.
func (s *TicketService) Open(ctx context.Context, in OpenTicketInput) (domain.Ticket, error) {
	ticket := domain.Ticket{
		ID:        uuid.NewString(),
		ClientID:  in.ClientID,
		SpaceID:   in.SpaceID,
		RateID:    in.RateID,
		EntryTime: in.EntryTime,
		Hours:     decimal.Zero,
		Amount:    decimal.Zero,
		Status:    domain.TicketActive,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

type CloseTicketResult struct {
	Ticket domain.Ticket
	Hours  decimal.Decimal
	Amount decimal.Decimal
}

// Close finalizes an Activo ticket: it computes elapsed hours and the
// amount due from the ticket's rate and stamps the exit time. The
// transition is single-shot; closing a non-Activo ticket is a conflict.
func (s *TicketService) Close(ctx context.Context, ticketID string, exitTime time.Time) (CloseTicketResult, error) {
	var result CloseTicketResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetTicketForUpdate(txCtx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status != domain.TicketActive {
			return domain.ErrTicketNotActive
		}

		// The rate may have been deactivated since entry; it still bills.
		rate, err := s.repo.GetRate(txCtx, ticket.RateID)
		if err != nil {
			return err
		}

		hours, amount, err := domain.Charges(ticket.EntryTime, exitTime, rate.AmountPerHour)
		if err != nil {
			return err
		}

		if err := s.repo.FinalizeTicket(txCtx, ticket.ID, exitTime, hours, amount); err != nil {
			return err
		}

		ticket.ExitTime = null.TimeFrom(exitTime)
		ticket.Hours = hours
		ticket.Amount = amount
		ticket.Status = domain.TicketFinalized
		result = CloseTicketResult{Ticket: ticket, Hours: hours, Amount: amount}
		return nil
	})
	if err != nil {
		return CloseTicketResult{}, err
	}
	return result, nil
}

// Cancel voids an Activo ticket without billing it.
func (s *TicketService) Cancel(ctx context.Context, ticketID string) (domain.Ticket, error) {
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetTicketForUpdate(txCtx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status != domain.TicketActive {
			return domain.ErrTicketNotActive
		}
		if err := s.repo.SetTicketStatus(txCtx, ticket.ID, domain.TicketCancelled); err != nil {
			return err
		}
		ticket.Status = domain.TicketCancelled
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (domain.TicketDetail, error) {
	return s.repo.GetTicketDetail(ctx, id)
}

// List returns tickets with their related records, filtered by estado.
// An empty filter means Activo, matching the original API.
func (s *TicketService) List(ctx context.Context, status string) ([]domain.TicketDetail, error) {
	filter := domain.TicketActive
	if status != "" {
		switch domain.TicketStatus(status) {
		case domain.TicketActive, domain.TicketFinalized, domain.TicketCancelled:
			filter = domain.TicketStatus(status)
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	return s.repo.ListTicketDetails(ctx, filter)
}

func (s *TicketService) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListTicketsByClient(ctx, clientID)
}

type CreateTicketInput struct {
	ClientID  string
	SpaceID   string
	RateID    string
	EntryTime *time.Time
}

// Create is the administrative ticket creation: it validates like an
// entry but accepts an explicit hora_ingreso for backfilled sessions.
// The ticket always starts Activo and claims its space.
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (domain.Ticket, error) {
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetClient(txCtx, in.ClientID); err != nil {
			return err
		}
		space, err := s.repo.GetSpaceForUpdate(txCtx, in.SpaceID)
		if err != nil {
			return err
		}
		if !space.Available() {
			return domain.ErrSpaceOccupied
		}
		rate, err := s.repo.GetRate(txCtx, in.RateID)
		if err != nil {
			return err
		}
		if !rate.Active {
			return domain.ErrRateNotFound
		}

		if err := s.repo.ClaimSpace(txCtx, space.ID); err != nil {
			return err
		}

		entryTime := s.clock.Now()
		if in.EntryTime != nil {
			entryTime = in.EntryTime.UTC()
		}
		ticket, err := s.Open(txCtx, OpenTicketInput{
			ClientID:  in.ClientID,
			SpaceID:   in.SpaceID,
			RateID:    rate.ID,
			EntryTime: entryTime,
		})
		if err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

type UpdateTicketInput struct {
	ClientID string
	SpaceID  string
	RateID   string
}

// Update reassigns the client, rate or space of an Activo ticket.
// Moving a ticket to another space frees the old slot and claims the
// new one in the same transaction. Terminal tickets are immutable.
func (s *TicketService) Update(ctx context.Context, ticketID string, in UpdateTicketInput) (domain.Ticket, error) {
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetTicketForUpdate(txCtx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status != domain.TicketActive {
			return domain.ErrTicketNotActive
		}

		if in.ClientID != "" && in.ClientID != ticket.ClientID {
			if _, err := s.repo.GetClient(txCtx, in.ClientID); err != nil {
				return err
			}
			ticket.ClientID = in.ClientID
		}
		if in.RateID != "" && in.RateID != ticket.RateID {
			rate, err := s.repo.GetRate(txCtx, in.RateID)
			if err != nil {
				return err
			}
			if !rate.Active {
				return domain.ErrRateNotFound
			}
			ticket.RateID = rate.ID
		}
		if in.SpaceID != "" && in.SpaceID != ticket.SpaceID {
			newSpace, err := s.repo.GetSpaceForUpdate(txCtx, in.SpaceID)
			if err != nil {
				return err
			}
			if !newSpace.Available() {
				return domain.ErrSpaceOccupied
			}
			if err := s.repo.ClaimSpace(txCtx, newSpace.ID); err != nil {
				return err
			}
			if err := s.repo.ReleaseSpace(txCtx, ticket.SpaceID); err != nil {
				return err
			}
			ticket.SpaceID = newSpace.ID
		}

		if err := s.repo.UpdateTicketRefs(txCtx, ticket.ID, ticket.ClientID, ticket.SpaceID, ticket.RateID); err != nil {
			return err
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}
