package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/notify"
	"github.com/vietanh2810/ticktopia-api/internal/repository"
)

var refNow = time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)

// memStore is an in-memory stand-in for the gorm repositories. It returns the
// same sentinels the real repositories do.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]domain.User
	events        map[uuid.UUID]domain.Event
	presentations map[uuid.UUID]domain.Presentation
	tickets       map[uuid.UUID]domain.Ticket
	failWith      error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]domain.User{},
		events:        map[uuid.UUID]domain.Event{},
		presentations: map[uuid.UUID]domain.Presentation{},
		tickets:       map[uuid.UUID]domain.Ticket{},
	}
}

func (m *memStore) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = map[uuid.UUID]domain.User{}
	m.events = map[uuid.UUID]domain.Event{}
	m.presentations = map[uuid.UUID]domain.Presentation{}
	m.tickets = map[uuid.UUID]domain.Ticket{}
}

type fakeUsers struct{ *memStore }

func (f fakeUsers) Create(_ context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	u.ID = uuid.New()
	f.users[u.ID] = u

	return u, nil
}

func (f fakeUsers) FindByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return u, nil
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f fakeUsers) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return []domain.User{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}

	return out, nil
}

func (f fakeUsers) Update(_ context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	for id, existing := range f.users {
		if id != u.ID && existing.Email == u.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	f.users[u.ID] = u

	return u, nil
}

type fakeEvents struct{ *memStore }

func (f fakeEvents) Create(_ context.Context, e domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Event{}, f.failWith
	}
	if _, ok := f.users[e.OwnerID]; !ok {
		return domain.Event{}, repository.ErrUserNotFound
	}
	e.ID = uuid.New()
	f.events[e.ID] = e

	return e, nil
}

func (f fakeEvents) FindByID(_ context.Context, id uuid.UUID, publicOnly bool) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Event{}, f.failWith
	}
	e, ok := f.events[id]
	if !ok || (publicOnly && !e.IsPublic) {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return e, nil
}

func (f fakeEvents) FindByName(_ context.Context, name string, publicOnly bool) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Event{}, f.failWith
	}
	for _, e := range f.events {
		if strings.EqualFold(e.Name, strings.TrimSpace(name)) && (!publicOnly || e.IsPublic) {
			return e, nil
		}
	}

	return domain.Event{}, repository.ErrEventNotFound
}

func (f fakeEvents) FindPublic(_ context.Context, limit, offset int) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Event
	for _, e := range f.events {
		if e.IsPublic {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return []domain.Event{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}

	return out, nil
}

func (f fakeEvents) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Event
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (f fakeEvents) Update(_ context.Context, e domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	f.events[e.ID] = e

	return e, nil
}

func (f fakeEvents) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	for _, t := range f.tickets {
		if f.presentations[t.PresentationID].EventID == id {
			return repository.ErrEventHasTickets
		}
	}
	for pid, p := range f.presentations {
		if p.EventID == id {
			delete(f.presentations, pid)
		}
	}
	delete(f.events, id)

	return nil
}

type fakePresentations struct{ *memStore }

func (f fakePresentations) Create(_ context.Context, p domain.Presentation) (domain.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[p.EventID]; !ok {
		return domain.Presentation{}, repository.ErrEventNotFound
	}
	p.ID = uuid.New()
	f.presentations[p.ID] = p

	return p, nil
}

func (f fakePresentations) FindByID(_ context.Context, id uuid.UUID) (domain.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Presentation{}, f.failWith
	}
	p, ok := f.presentations[id]
	if !ok {
		return domain.Presentation{}, repository.ErrPresentationNotFound
	}
	e := f.events[p.EventID]
	p.Event = &e

	return p, nil
}

func (f fakePresentations) FindPublicByEvent(_ context.Context, eventID uuid.UUID, openAfter time.Time) ([]domain.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Presentation{}
	if e, ok := f.events[eventID]; !ok || !e.IsPublic {
		return out, nil
	}
	for _, p := range f.presentations {
		if p.EventID == eventID && !p.OpenDate.Before(openAfter) {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f fakePresentations) FindByEvent(_ context.Context, eventID uuid.UUID) ([]domain.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Presentation{}
	for _, p := range f.presentations {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f fakePresentations) Update(_ context.Context, p domain.Presentation) (domain.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.presentations[p.ID]; !ok {
		return domain.Presentation{}, repository.ErrPresentationNotFound
	}
	p.Event = nil
	f.presentations[p.ID] = p

	return p, nil
}

func (f fakePresentations) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.presentations[id]; !ok {
		return repository.ErrPresentationNotFound
	}
	for _, t := range f.tickets {
		if t.PresentationID == id {
			return repository.ErrPresentationHasTickets
		}
	}
	delete(f.presentations, id)

	return nil
}

type fakeTickets struct{ *memStore }

func (f fakeTickets) Create(_ context.Context, t domain.Ticket) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.presentations[t.PresentationID]; !ok {
		return domain.Ticket{}, repository.ErrPresentationNotFound
	}
	t.ID = uuid.New()
	f.tickets[t.ID] = t

	return t, nil
}

func (f fakeTickets) FindByID(_ context.Context, id uuid.UUID) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}

	return t, nil
}

func (f fakeTickets) FindByUser(_ context.Context, userID uuid.UUID) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Ticket{}
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}

	return out, nil
}

func (f fakeTickets) UpdateState(_ context.Context, t domain.Ticket) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[t.ID]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}
	stored.IsActive = t.IsActive
	stored.IsRedeemed = t.IsRedeemed
	f.tickets[t.ID] = stored

	return stored, nil
}

func (f fakeTickets) ExistsForEvent(_ context.Context, eventID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if f.presentations[t.PresentationID].EventID == eventID {
			return true, nil
		}
	}

	return false, nil
}

func (f fakeTickets) ExistsForPresentation(_ context.Context, presentationID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.PresentationID == presentationID {
			return true, nil
		}
	}

	return false, nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++

	return fn(ctx)
}

type fakeSessions struct {
	revoked map[string]time.Duration
}

func (f *fakeSessions) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[tokenID] = ttl

	return nil
}

type fakeNotifier struct {
	messages []notify.Message
	err      error
}

func (f *fakeNotifier) Publish(_ context.Context, msg notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)

	return nil
}

// harness wires every service over one memStore at refNow.
type harness struct {
	store         *memStore
	tx            *fakeTx
	sessions      *fakeSessions
	notifier      *fakeNotifier
	auth          *AuthService
	users         *UserService
	events        *EventService
	presentations *PresentationService
	tickets       *TicketService

	admin   domain.User
	manager domain.User
	client  domain.User
	checker domain.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		store:    newMemStore(),
		tx:       &fakeTx{},
		sessions: &fakeSessions{},
		notifier: &fakeNotifier{},
	}
	clk := clock.NewFixed(refNow)
	guard := NewDeletionGuard(fakeTickets{h.store})

	h.auth = NewAuthService(fakeUsers{h.store}, h.sessions)
	h.users = NewUserService(fakeUsers{h.store})
	h.events = NewEventService(fakeEvents{h.store}, fakeUsers{h.store}, guard, h.tx)
	h.presentations = NewPresentationService(fakePresentations{h.store}, fakeEvents{h.store}, guard, h.tx, clk)
	h.tickets = NewTicketService(fakeTickets{h.store}, fakePresentations{h.store}, h.notifier, h.tx, clk)

	h.admin = h.addUser(t, "admin@ticktopia.io", domain.RoleAdmin)
	h.manager = h.addUser(t, "manager@ticktopia.io", domain.RoleEventManager)
	h.client = h.addUser(t, "client@ticktopia.io", domain.RoleClient)
	h.checker = h.addUser(t, "checker@ticktopia.io", domain.RoleTicketChecker)

	return h
}

func (h *harness) addUser(t *testing.T, email string, roles ...domain.Role) domain.User {
	t.Helper()

	u, err := fakeUsers{h.store}.Create(context.Background(), domain.User{
		Email:    email,
		Name:     "Test",
		Lastname: "User",
		IsActive: true,
		Roles:    domain.NewRoles(roles...),
	})
	require.NoError(t, err)

	return u
}

func (h *harness) newEvent(t *testing.T, owner domain.User, name string, public bool) domain.Event {
	t.Helper()

	e, err := h.events.Create(context.Background(), owner.Principal(), EventInput{Name: name, IsPublic: &public})
	require.NoError(t, err)

	return e
}

func (h *harness) newPresentation(t *testing.T, owner domain.User, eventID uuid.UUID, schedule domain.Schedule) domain.Presentation {
	t.Helper()

	p, err := h.presentations.Create(context.Background(), owner.Principal(), eventID, domain.Presentation{
		Place:       "Movistar Arena",
		City:        "Bogota",
		Capacity:    100,
		Price:       50,
		Description: "main stage",
		Schedule:    schedule,
	})
	require.NoError(t, err)

	return p
}
