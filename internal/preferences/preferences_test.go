package preferences

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-todo-backend/internal/auth"
	"smart-todo-backend/internal/db/dbtest"
)

var at = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

type memRepo struct {
	byUser map[string]Preferences
}

func (m *memRepo) Get(_ context.Context, userID string) (Preferences, error) {
	p, ok := m.byUser[userID]
	if !ok {
		p = Defaults(userID, at)
		m.byUser[userID] = p
	}
	return p, nil
}

func (m *memRepo) Update(ctx context.Context, userID string, patch Patch) (Preferences, error) {
	p, _ := m.Get(ctx, userID)
	p = patch.Apply(p)
	m.byUser[userID] = p
	return p, nil
}

func serve(h http.HandlerFunc, method, body string, id auth.Identity) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "/user/preferences", strings.NewReader(body))
	r = r.WithContext(auth.WithIdentity(r.Context(), id))
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func TestGetHandler_CreatesDefaults(t *testing.T) {
	repo := &memRepo{byUser: map[string]Preferences{}}
	w := serve(GetHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), http.MethodGet, "", auth.Identity{UserID: "u1"})

	require.Equal(t, http.StatusOK, w.Code)
	var p Preferences
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, Defaults("u1", at), p)
}

func TestUpdateHandler(t *testing.T) {
	repo := &memRepo{byUser: map[string]Preferences{}}
	h := UpdateHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := serve(h, http.MethodPut, `{"reminderTime":0,"timezone":"Europe/Berlin","pushNotifications":false}`, auth.Identity{UserID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)

	p := repo.byUser["u1"]
	assert.Equal(t, 0, p.ReminderTime)
	assert.Equal(t, "Europe/Berlin", p.Timezone)
	assert.False(t, p.PushNotifications)
	assert.True(t, p.EmailNotifications)

	for _, body := range []string{`{"reminderTime":24}`, `{"reminderTime":-1}`, `{"timezone":"Mars/Olympus"}`} {
		assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPut, body, auth.Identity{UserID: "u1"}).Code, body)
	}
}

func TestProfileHandler(t *testing.T) {
	w := serve(ProfileHandler(), http.MethodGet, "", auth.Identity{UserID: "u1", Email: "a@b.c", ImageURL: "https://x/y.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","email":"a@b.c","imageUrl":"https://x/y.png"}`, w.Body.String())

	w = serve(ProfileHandler(), http.MethodGet, "", auth.Identity{UserID: "default-user"})
	assert.JSONEq(t, `{"id":"default-user","email":null,"imageUrl":""}`, w.Body.String())

	w = serve(ProfileHandler(), http.MethodGet, "", auth.Identity{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStore_Integration(t *testing.T) {
	s := NewStore(dbtest.Open(t))
	s.now = func() time.Time { return at }
	ctx := context.Background()

	p, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 9, p.ReminderTime)

	again, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p.UserID, again.UserID)

	off := false
	updated, err := s.Update(ctx, "u2", Patch{EmailNotifications: &off})
	require.NoError(t, err)
	assert.False(t, updated.EmailNotifications)
	assert.Equal(t, "UTC", updated.Timezone)

	// patches to different fields both survive
	hour := 7
	tz := " Europe/Berlin "
	var wg sync.WaitGroup
	for _, patch := range []Patch{{ReminderTime: &hour}, {Timezone: &tz}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "u2", patch)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := s.Get(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, final.EmailNotifications)
	assert.True(t, final.PushNotifications)
	assert.Equal(t, 7, final.ReminderTime)
	assert.Equal(t, "Europe/Berlin", final.Timezone)
}
