package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/umgjosem/Arqui-parqueo/internal/clock"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type RateRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateRate(ctx context.Context, rate domain.Rate) error
	GetRate(ctx context.Context, id string) (domain.Rate, error)
	ListActiveRates(ctx context.Context) ([]domain.Rate, error)
	UpdateRate(ctx context.Context, rate domain.Rate) error
	RateHasActiveTickets(ctx context.Context, rateID string) (bool, error)
}

// RateService manages hourly billing plans. Plans are soft-deleted
// (deactivated) so finalized tickets keep a valid reference.
type RateService struct {
	repo  RateRepository
	clock clock.Clock
}

func NewRateService(repo RateRepository, clk clock.Clock) *RateService {
	return &RateService{repo: repo, clock: clk}
}

type CreateRateInput struct {
	Description   string
	AmountPerHour decimal.Decimal
}

func (s *RateService) Create(ctx context.Context, in CreateRateInput) (domain.Rate, error) {
	if in.Description == "" || in.AmountPerHour.IsNegative() {
		return domain.Rate{}, domain.ErrInvalidInput
	}

	rate := domain.Rate{
		ID:            uuid.NewString(),
		Description:   in.Description,
		AmountPerHour: in.AmountPerHour.Round(2),
		Active:        true,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.CreateRate(ctx, rate); err != nil {
		return domain.Rate{}, err
	}
	return rate, nil
}

// GetActive resolves a rate by id, treating inactive plans as missing.
func (s *RateService) GetActive(ctx context.Context, id string) (domain.Rate, error) {
	rate, err := s.repo.GetRate(ctx, id)
	if err != nil {
		return domain.Rate{}, err
	}
	if !rate.Active {
		return domain.Rate{}, domain.ErrRateNotFound
	}
	return rate, nil
}

func (s *RateService) ListActive(ctx context.Context) ([]domain.Rate, error) {
	return s.repo.ListActiveRates(ctx)
}

type UpdateRateInput struct {
	Description   string
	AmountPerHour *decimal.Decimal
	Active        *bool
}

func (s *RateService) Update(ctx context.Context, id string, in UpdateRateInput) (domain.Rate, error) {
	rate, err := s.repo.GetRate(ctx, id)
	if err != nil {
		return domain.Rate{}, err
	}

	if in.Description != "" {
		rate.Description = in.Description
	}
	if in.AmountPerHour != nil {
		if in.AmountPerHour.IsNegative() {
			return domain.Rate{}, domain.ErrInvalidInput
		}
		rate.AmountPerHour = in.AmountPerHour.Round(2)
	}
	if in.Active != nil {
		rate.Active = *in.Active
	}

	if err := s.repo.UpdateRate(ctx, rate); err != nil {
		return domain.Rate{}, err
	}
	return rate, nil
}

// Deactivate flips a rate inactive. It refuses while any Activo ticket
// still bills against the rate; deactivating an already-inactive rate
// is a no-op success.
func (s *RateService) Deactivate(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		rate, err := s.repo.GetRate(txCtx, id)
		if err != nil {
			return err
		}
		if !rate.Active {
			return nil
		}

		inUse, err := s.repo.RateHasActiveTickets(txCtx, id)
		if err != nil {
			return err
		}
		if inUse {
			return domain.ErrRateInUse
		}

		rate.Active = false
		return s.repo.UpdateRate(txCtx, rate)
	})
}
