package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/ticktopia-api/internal/api/middleware"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/domain"
	"github.com/vietanh2810/ticktopia-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/ticktopia-api/internal/service"
)

const (
	testKey   = "test-signing-key"
	testAgent = "ticktopia-test/1.0"
)

type noRevocations struct{}

func (noRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type fakeResolver map[uuid.UUID]domain.Roles

func (f fakeResolver) Authenticate(_ context.Context, id uuid.UUID) (domain.Principal, error) {
	roles, ok := f[id]
	if !ok {
		return domain.Principal{}, domain.Unauthenticated("user not found")
	}

	return domain.Principal{ID: id, Roles: roles}, nil
}

type fakeEventService struct {
	events  map[string]domain.Event
	created []service.EventInput
	seen    domain.Principal
}

func (f *fakeEventService) Create(_ context.Context, p domain.Principal, in service.EventInput) (domain.Event, error) {
	f.seen = p
	if !p.Roles.Has(domain.RoleEventManager) && !p.Roles.Has(domain.RoleAdmin) {
		return domain.Event{}, domain.Forbidden("event-manager role required")
	}
	f.created = append(f.created, in)

	return domain.Event{ID: uuid.New(), Name: in.Name, OwnerID: p.ID}, nil
}

func (f *fakeEventService) FindPublic(context.Context, int, int) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		if e.IsPublic {
			out = append(out, e)
		}
	}

	return out, nil
}

func (f *fakeEventService) FindOwned(context.Context, domain.Principal) ([]domain.Event, error) {
	return nil, nil
}

func (f *fakeEventService) Resolve(_ context.Context, p domain.Principal, term string) (domain.Event, error) {
	f.seen = p
	e, ok := f.events[term]
	if !ok || (!e.IsPublic && e.OwnerID != p.ID) {
		return domain.Event{}, domain.NotFound("event not found")
	}

	return e, nil
}

func (f *fakeEventService) ResolveUnrestricted(ctx context.Context, p domain.Principal, term string) (domain.Event, error) {
	return f.Resolve(ctx, p, term)
}

func (f *fakeEventService) Update(context.Context, domain.Principal, uuid.UUID, domain.EventPatch) (domain.Event, error) {
	return domain.Event{}, domain.InvalidState("event has sold tickets")
}

func (f *fakeEventService) Delete(context.Context, domain.Principal, uuid.UUID) error {
	return nil
}

func newEventRouter(svc EventService, users PrincipalResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := middleware.NewAuthenticator(testKey, noRevocations{}, clock.NewSystem())
	h := NewEventHandler(svc, users)

	r := gin.New()
	r.GET("/", HandleHealthcheck)
	r.GET("/events", h.HandleListPublicEvents)
	r.POST("/events", auth.VerifyJWT(), h.HandleCreateEvent)
	r.GET("/events/:eventID", auth.OptionalJWT(), h.HandleGetEvent)
	r.PATCH("/events/:eventID", auth.VerifyJWT(), h.HandleUpdateEvent)
	r.DELETE("/events/:eventID", auth.VerifyJWT(), h.HandleDeleteEvent)

	return r
}

func send(t *testing.T, r http.Handler, method, path, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testAgent)
	if userID != uuid.Nil {
		token, err := jwthelper.GenerateToken([]byte(testKey), time.Hour, userID, testAgent, time.Now())
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestEventHandler(t *testing.T) {
	manager := uuid.New()
	client := uuid.New()
	users := fakeResolver{
		manager: domain.NewRoles(domain.RoleEventManager),
		client:  domain.NewRoles(domain.RoleClient),
	}
	private := domain.Event{ID: uuid.New(), Name: "secret-gig", OwnerID: manager}
	svc := &fakeEventService{events: map[string]domain.Event{
		"rock-fest":  {ID: uuid.New(), Name: "rock-fest", IsPublic: true, OwnerID: manager},
		"secret-gig": private,
	}}
	r := newEventRouter(svc, users)

	t.Run("healthcheck", func(t *testing.T) {
		w := send(t, r, http.MethodGet, "/", "", uuid.Nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("create requires a token", func(t *testing.T) {
		w := send(t, r, http.MethodPost, "/events", `{"name":"x"}`, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("create as client is forbidden", func(t *testing.T) {
		w := send(t, r, http.MethodPost, "/events", `{"name":"x"}`, client)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"forbidden"`)
	})

	t.Run("create rejects malformed body", func(t *testing.T) {
		w := send(t, r, http.MethodPost, "/events", `{"name":`, manager)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create rejects invalid banner", func(t *testing.T) {
		w := send(t, r, http.MethodPost, "/events", `{"name":"x","banner_photo_url":"nope"}`, manager)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create as manager", func(t *testing.T) {
		w := send(t, r, http.MethodPost, "/events", `{"name":"Jazz Night"}`, manager)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Jazz Night"`)
		assert.Equal(t, manager, svc.seen.ID)
	})

	t.Run("public list", func(t *testing.T) {
		w := send(t, r, http.MethodGet, "/events?limit=5", "", uuid.Nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "rock-fest")
		assert.NotContains(t, w.Body.String(), "secret-gig")
	})

	t.Run("bad paging", func(t *testing.T) {
		w := send(t, r, http.MethodGet, "/events?limit=ten", "", uuid.Nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("private event hidden from anonymous", func(t *testing.T) {
		w := send(t, r, http.MethodGet, "/events/secret-gig", "", uuid.Nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, uuid.Nil, svc.seen.ID)
	})

	t.Run("private event visible to owner", func(t *testing.T) {
		w := send(t, r, http.MethodGet, "/events/secret-gig", "", manager)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("update maps invalid state", func(t *testing.T) {
		w := send(t, r, http.MethodPatch, "/events/"+private.ID.String(), `{"is_public":false}`, manager)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("delete rejects bad id", func(t *testing.T) {
		w := send(t, r, http.MethodDelete, "/events/not-a-uuid", "", manager)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := send(t, r, http.MethodDelete, "/events/"+private.ID.String(), "", manager)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown user token", func(t *testing.T) {
		w := send(t, r, http.MethodPost, "/events", `{"name":"x"}`, uuid.New())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
