package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/umgjosem/Arqui-parqueo/internal/clock"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

type ClientRepository interface {
	CreateClient(ctx context.Context, client domain.Client) error
	GetClient(ctx context.Context, id string) (domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	UpdateClient(ctx context.Context, client domain.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// ClientService registers and looks up vehicle owners. Session logic
// consults it but never mutates clients.
type ClientService struct {
	repo  ClientRepository
	clock clock.Clock
}

func NewClientService(repo ClientRepository, clk clock.Clock) *ClientService {
	return &ClientService{repo: repo, clock: clk}
}

type CreateClientInput struct {
	NIT   string
	Name  string
	Plate string
}

func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (domain.Client, error) {
	if in.NIT == "" || in.Name == "" || in.Plate == "" {
		return domain.Client{}, domain.ErrInvalidInput
	}

	client := domain.Client{
		ID:        uuid.NewString(),
		NIT:       in.NIT,
		Name:      in.Name,
		Plate:     in.Plate,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (domain.Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.ListClients(ctx)
}

type UpdateClientInput struct {
	NIT   string
	Name  string
	Plate string
}

// Update applies corrective edits; empty fields keep their value.
func (s *ClientService) Update(ctx context.Context, id string, in UpdateClientInput) (domain.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}

	if in.NIT != "" {
		client.NIT = in.NIT
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	if in.Plate != "" {
		client.Plate = in.Plate
	}

	if err := s.repo.UpdateClient(ctx, client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteClient(ctx, id)
}
