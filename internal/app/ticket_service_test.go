package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umgjosem/Arqui-parqueo/internal/clock"
	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

func TestTicketService_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	seed := func() *memStore {
		store := newMemStore()
		store.addClient(domain.Client{ID: "cli-1", NIT: "123", Name: "Ana", Plate: "P001AAA"})
		store.addSpace(domain.Space{ID: "esp-1", Number: "A-01", State: domain.SpaceFree})
		store.addRate(domain.Rate{ID: "tar-1", Description: "Normal", AmountPerHour: decimal.NewFromInt(10), Active: true, CreatedAt: now})
		return store
	}

	t.Run("creates active ticket and claims the space", func(t *testing.T) {
		store := seed()
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(now))

		ticket, err := svc.Create(context.Background(), CreateTicketInput{
			ClientID: "cli-1",
			SpaceID:  "esp-1",
			RateID:   "tar-1",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.Status != domain.TicketActive {
			t.Fatalf("expected Activo, got %s", ticket.Status)
		}
		if !ticket.EntryTime.Equal(now) {
			t.Fatalf("expected entry time %v, got %v", now, ticket.EntryTime)
		}
		if got := store.spaces["esp-1"].State; got != domain.SpaceOccupied {
			t.Fatalf("expected space claimed, got %s", got)
		}
	})

	t.Run("honors an explicit entry time", func(t *testing.T) {
		store := seed()
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(now))

		backfill := now.Add(-2 * time.Hour)
		ticket, err := svc.Create(context.Background(), CreateTicketInput{
			ClientID:  "cli-1",
			SpaceID:   "esp-1",
			RateID:    "tar-1",
			EntryTime: &backfill,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ticket.EntryTime.Equal(backfill) {
			t.Fatalf("expected entry time %v, got %v", backfill, ticket.EntryTime)
		}
	})

	t.Run("occupied space is a conflict", func(t *testing.T) {
		store := seed()
		store.spaces["esp-1"] = domain.Space{ID: "esp-1", Number: "A-01", State: domain.SpaceOccupied}
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(now))

		_, err := svc.Create(context.Background(), CreateTicketInput{
			ClientID: "cli-1",
			SpaceID:  "esp-1",
			RateID:   "tar-1",
		})
		if !errors.Is(err, domain.ErrSpaceOccupied) {
			t.Fatalf("expected ErrSpaceOccupied, got %v", err)
		}
	})

	t.Run("inactive rate is not found", func(t *testing.T) {
		store := seed()
		store.addRate(domain.Rate{ID: "tar-off", Description: "Retirada", AmountPerHour: decimal.NewFromInt(3), Active: false, CreatedAt: now})
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(now))

		_, err := svc.Create(context.Background(), CreateTicketInput{
			ClientID: "cli-1",
			SpaceID:  "esp-1",
			RateID:   "tar-off",
		})
		if !errors.Is(err, domain.ErrRateNotFound) {
			t.Fatalf("expected ErrRateNotFound, got %v", err)
		}
	})
}

func TestTicketService_Close(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("deactivated rate still bills", func(t *testing.T) {
		store := newMemStore()
		store.addClient(domain.Client{ID: "cli-1", NIT: "123", Name: "Ana", Plate: "P001AAA"})
		store.addSpace(domain.Space{ID: "esp-1", Number: "A-01", State: domain.SpaceOccupied})
		store.addRate(domain.Rate{ID: "tar-1", Description: "Retirada", AmountPerHour: decimal.NewFromInt(10), Active: false, CreatedAt: entry})
		store.addTicket(domain.Ticket{
			ID: "tic-1", ClientID: "cli-1", SpaceID: "esp-1", RateID: "tar-1",
			EntryTime: entry, Hours: decimal.Zero, Amount: decimal.Zero,
			Status: domain.TicketActive, CreatedAt: entry,
		})
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(entry))

		res, err := svc.Close(context.Background(), "tic-1", entry.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !res.Amount.Equal(decimal.RequireFromString("20")) {
			t.Fatalf("expected amount 20, got %s", res.Amount)
		}
	})

	t.Run("exit before entry is rejected", func(t *testing.T) {
		store := newMemStore()
		store.addRate(domain.Rate{ID: "tar-1", Description: "Normal", AmountPerHour: decimal.NewFromInt(10), Active: true, CreatedAt: entry})
		store.addTicket(domain.Ticket{
			ID: "tic-1", ClientID: "cli-1", SpaceID: "esp-1", RateID: "tar-1",
			EntryTime: entry, Hours: decimal.Zero, Amount: decimal.Zero,
			Status: domain.TicketActive, CreatedAt: entry,
		})
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(entry))

		_, err := svc.Close(context.Background(), "tic-1", entry.Add(-time.Minute))
		if !errors.Is(err, domain.ErrNegativeDuration) {
			t.Fatalf("expected ErrNegativeDuration, got %v", err)
		}
		if got := store.tickets["tic-1"].Status; got != domain.TicketActive {
			t.Fatalf("expected ticket still Activo, got %s", got)
		}
	})
}

func TestTicketService_Update(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	seed := func() *memStore {
		store := newMemStore()
		store.addClient(domain.Client{ID: "cli-1", NIT: "123", Name: "Ana", Plate: "P001AAA"})
		store.addClient(domain.Client{ID: "cli-2", NIT: "456", Name: "Beto", Plate: "P002BBB"})
		store.addSpace(domain.Space{ID: "esp-1", Number: "A-01", State: domain.SpaceOccupied})
		store.addSpace(domain.Space{ID: "esp-2", Number: "A-02", State: domain.SpaceFree})
		store.addRate(domain.Rate{ID: "tar-1", Description: "Normal", AmountPerHour: decimal.NewFromInt(10), Active: true, CreatedAt: entry})
		store.addTicket(domain.Ticket{
			ID: "tic-1", ClientID: "cli-1", SpaceID: "esp-1", RateID: "tar-1",
			EntryTime: entry, Hours: decimal.Zero, Amount: decimal.Zero,
			Status: domain.TicketActive, CreatedAt: entry,
		})
		return store
	}

	t.Run("moving spaces frees the old slot", func(t *testing.T) {
		store := seed()
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(entry))

		ticket, err := svc.Update(context.Background(), "tic-1", UpdateTicketInput{SpaceID: "esp-2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.SpaceID != "esp-2" {
			t.Fatalf("expected ticket on esp-2, got %s", ticket.SpaceID)
		}
		if got := store.spaces["esp-1"].State; got != domain.SpaceFree {
			t.Fatalf("expected old space freed, got %s", got)
		}
		if got := store.spaces["esp-2"].State; got != domain.SpaceOccupied {
			t.Fatalf("expected new space claimed, got %s", got)
		}
	})

	t.Run("reassigning the client", func(t *testing.T) {
		store := seed()
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(entry))

		ticket, err := svc.Update(context.Background(), "tic-1", UpdateTicketInput{ClientID: "cli-2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.ClientID != "cli-2" {
			t.Fatalf("expected client cli-2, got %s", ticket.ClientID)
		}
	})

	t.Run("finalized tickets are immutable", func(t *testing.T) {
		store := seed()
		tic := store.tickets["tic-1"]
		tic.Status = domain.TicketFinalized
		store.tickets["tic-1"] = tic
		svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(entry))

		_, err := svc.Update(context.Background(), "tic-1", UpdateTicketInput{ClientID: "cli-2"})
		if !errors.Is(err, domain.ErrTicketNotActive) {
			t.Fatalf("expected ErrTicketNotActive, got %v", err)
		}
	})
}

func TestTicketService_List(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	store := newMemStore()
	store.addClient(domain.Client{ID: "cli-1", NIT: "123", Name: "Ana", Plate: "P001AAA"})
	store.addSpace(domain.Space{ID: "esp-1", Number: "A-01", State: domain.SpaceOccupied})
	store.addRate(domain.Rate{ID: "tar-1", Description: "Normal", AmountPerHour: decimal.NewFromInt(10), Active: true, CreatedAt: entry})
	store.addTicket(domain.Ticket{
		ID: "tic-1", ClientID: "cli-1", SpaceID: "esp-1", RateID: "tar-1",
		EntryTime: entry, Status: domain.TicketActive, CreatedAt: entry,
	})
	store.addTicket(domain.Ticket{
		ID: "tic-2", ClientID: "cli-1", SpaceID: "esp-1", RateID: "tar-1",
		EntryTime: entry.Add(-time.Hour), Status: domain.TicketFinalized, CreatedAt: entry,
	})
	svc := NewTicketService(&fakeTicketRepo{store: store}, clock.NewFixed(entry))

	t.Run("empty filter means Activo", func(t *testing.T) {
		details, err := svc.List(context.Background(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(details) != 1 || details[0].Ticket.ID != "tic-1" {
			t.Fatalf("expected only tic-1, got %+v", details)
		}
		if details[0].Client.Name != "Ana" {
			t.Fatalf("expected joined client, got %+v", details[0].Client)
		}
	})

	t.Run("explicit filter", func(t *testing.T) {
		details, err := svc.List(context.Background(), "Finalizado")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(details) != 1 || details[0].Ticket.ID != "tic-2" {
			t.Fatalf("expected only tic-2, got %+v", details)
		}
	})

	t.Run("unknown filter is invalid input", func(t *testing.T) {
		if _, err := svc.List(context.Background(), "Pendiente"); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("listing by unknown client fails", func(t *testing.T) {
		if _, err := svc.ListByClient(context.Background(), "cli-missing"); !errors.Is(err, domain.ErrClientNotFound) {
			t.Fatalf("expected ErrClientNotFound, got %v", err)
		}
	})
}
