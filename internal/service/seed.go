package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/pkg/password"
)

type SeedStore struct {
	Wipe          func(ctx context.Context) error
	Users         AuthUserRepository
	Events        EventRepository
	Presentations PresentationRepository
	Tickets       TicketRepository
}

type seedUser struct {
	email    string
	name     string
	lastname string
	roles    []domain.Role
}

var seedUsers = []seedUser{
	{email: "admin@ticktopia.io", name: "Ada", lastname: "Admin", roles: []domain.Role{domain.RoleAdmin}},
	{email: "manager@ticktopia.io", name: "Mario", lastname: "Manager", roles: []domain.Role{domain.RoleEventManager}},
	{email: "client@ticktopia.io", name: "Clara", lastname: "Client", roles: []domain.Role{domain.RoleClient}},
	{email: "checker@ticktopia.io", name: "Chen", lastname: "Checker", roles: []domain.Role{domain.RoleTicketChecker}},
}

// Seeder resets the store to a known data set. It runs once, sequentially, at
// startup and bypasses authorization.
type Seeder struct {
	store    SeedStore
	password string
	clock    clock.Clock
}

func NewSeeder(store SeedStore, pw string, clk clock.Clock) *Seeder {
	return &Seeder{
		store:    store,
		password: pw,
		clock:    clk,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.store.Wipe(ctx); err != nil {
		return fmt.Errorf("s.store.Wipe -> %w", err)
	}

	hash, err := password.Hash(s.password)
	if err != nil {
		return fmt.Errorf("password.Hash -> %w", err)
	}

	users := make(map[domain.Role]domain.User, len(seedUsers))
	for _, su := range seedUsers {
		u, err := s.store.Users.Create(ctx, domain.User{
			Email:    su.email,
			Password: hash,
			Name:     su.name,
			Lastname: su.lastname,
			IsActive: true,
			Roles:    domain.NewRoles(su.roles...),
		})
		if err != nil {
			return fmt.Errorf("s.store.Users.Create -> %w", err)
		}
		users[su.roles[0]] = u
	}

	manager := users[domain.RoleEventManager]
	events := []domain.Event{
		{Name: "Rock al Parque", BannerPhotoURL: "https://cdn.ticktopia.io/banners/rock.png", IsPublic: true, OwnerID: manager.ID},
		{Name: "Festival Estereo Picnic", BannerPhotoURL: "https://cdn.ticktopia.io/banners/fep.png", IsPublic: true, OwnerID: manager.ID},
		{Name: "Private Rehearsal", BannerPhotoURL: "https://cdn.ticktopia.io/banners/rehearsal.png", IsPublic: false, OwnerID: manager.ID},
	}

	now := s.clock.Now()
	var onSale []domain.Presentation
	for _, e := range events {
		created, err := s.store.Events.Create(ctx, e.Normalize())
		if err != nil {
			return fmt.Errorf("s.store.Events.Create -> %w", err)
		}

		for _, schedule := range []domain.Schedule{domain.ScheduleOnSale(now), domain.ScheduleUpcoming(now)} {
			p, err := s.store.Presentations.Create(ctx, domain.Presentation{
				EventID:     created.ID,
				Place:       "Parque Simon Bolivar",
				City:        "Bogota",
				Capacity:    5000,
				Price:       120000,
				Latitude:    4.6584,
				Longitude:   -74.0936,
				Description: created.Name + " live",
				Schedule:    schedule,
			})
			if err != nil {
				return fmt.Errorf("s.store.Presentations.Create -> %w", err)
			}
			if created.IsPublic && schedule.IssuanceWindow().Contains(now) {
				onSale = append(onSale, p)
			}
		}
	}

	client := users[domain.RoleClient]
	states := []func(domain.Ticket) (domain.Ticket, error){
		func(t domain.Ticket) (domain.Ticket, error) { return t, nil },
		domain.Ticket.Redeem,
		func(t domain.Ticket) (domain.Ticket, error) { return t.Deactivate(), nil },
	}
	for i, state := range states {
		if len(onSale) == 0 {
			break
		}
		t, err := domain.NewTicket(onSale[i%len(onSale)], client.ID, i+1, now)
		if err != nil {
			return fmt.Errorf("domain.NewTicket -> %w", err)
		}
		if t, err = state(t); err != nil {
			return err
		}
		if _, err = s.store.Tickets.Create(ctx, t); err != nil {
			return fmt.Errorf("s.store.Tickets.Create -> %w", err)
		}
	}

	zap.L().Info("seed completed",
		zap.Int("users", len(seedUsers)),
		zap.Int("events", len(events)),
		zap.Int("tickets", len(states)),
	)

	return nil
}
