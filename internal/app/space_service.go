package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/umgjosem/Arqui-parqueo/internal/clock"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type SpaceRepository interface {
	CreateSpace(ctx context.Context, space domain.Space) error
	GetSpace(ctx context.Context, id string) (domain.Space, error)
	ListSpaces(ctx context.Context) ([]domain.Space, error)
	ListTicketsBySpace(ctx context.Context, spaceID string) ([]domain.Ticket, error)
	UpdateSpace(ctx context.Context, space domain.Space) error
	DeleteSpace(ctx context.Context, id string) error
}

// SpaceService administers the lot's slots. The Libre/Ocupado
// transitions tied to tickets happen inside the session flow, not here;
// this service covers setup and corrective edits.
type SpaceService struct {
	repo  SpaceRepository
	clock clock.Clock
}

func NewSpaceService(repo SpaceRepository, clk clock.Clock) *SpaceService {
	return &SpaceService{repo: repo, clock: clk}
}

type CreateSpaceInput struct {
	Number string
	State  string
}

func (s *SpaceService) Create(ctx context.Context, in CreateSpaceInput) (domain.Space, error) {
	if in.Number == "" {
		return domain.Space{}, domain.ErrInvalidInput
	}

	state := domain.SpaceFree
	if in.State != "" {
		normalized, ok := domain.NormalizeSpaceState(in.State)
		if !ok {
			return domain.Space{}, domain.ErrInvalidInput
		}
		state = normalized
	}

	space := domain.Space{
		ID:        uuid.NewString(),
		Number:    in.Number,
		State:     state,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateSpace(ctx, space); err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

// SpaceDetail is a space with every ticket that has used it.
type SpaceDetail struct {
	Space   domain.Space
	Tickets []domain.Ticket
}

func (s *SpaceService) Get(ctx context.Context, id string) (SpaceDetail, error) {
	space, err := s.repo.GetSpace(ctx, id)
	if err != nil {
		return SpaceDetail{}, err
	}
	tickets, err := s.repo.ListTicketsBySpace(ctx, id)
	if err != nil {
		return SpaceDetail{}, err
	}
	return SpaceDetail{Space: space, Tickets: tickets}, nil
}

func (s *SpaceService) List(ctx context.Context) ([]domain.Space, error) {
	return s.repo.ListSpaces(ctx)
}

// Availability reports whether the space can take a vehicle right now.
func (s *SpaceService) Availability(ctx context.Context, id string) (domain.Space, error) {
	return s.repo.GetSpace(ctx, id)
}

type UpdateSpaceInput struct {
	Number string
	State  string
}

// Update renames a space or overrides its state for lot administration.
// State overrides do not touch tickets; they exist to correct drift.
func (s *SpaceService) Update(ctx context.Context, id string, in UpdateSpaceInput) (domain.Space, error) {
	space, err := s.repo.GetSpace(ctx, id)
	if err != nil {
		return domain.Space{}, err
	}

	if in.Number != "" {
		space.Number = in.Number
	}
	if in.State != "" {
		state, ok := domain.NormalizeSpaceState(in.State)
		if !ok {
			return domain.Space{}, domain.ErrInvalidInput
		}
		space.State = state
	}

	if err := s.repo.UpdateSpace(ctx, space); err != nil {
		return domain.Space{}, err
	}
	return space, nil
}

func (s *SpaceService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteSpace(ctx, id)
}
