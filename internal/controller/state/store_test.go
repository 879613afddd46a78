package state

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/booking"
	"github.com/Freeeeeet/agenda_bot/internal/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestStores(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"memory": NewManager(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.True(t, empty.IsEmpty())

			draft := booking.NewDraft(model.EntryKindAppointment, 7)
			draft.Date = "2024-06-03"
			draft.ServiceID = 10
			draft.DurationMinutes = 60
			draft.Start = "09:30"

			sess := &Session{State: StateAppointmentFlow, Draft: &draft}
			sess.Set("client_id", "20")
			require.NoError(t, store.Save(ctx, 42, sess))

			got, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, StateAppointmentFlow, got.State)
			require.NotNil(t, got.Draft)
			assert.Equal(t, draft, *got.Draft)
			assert.Equal(t, "20", got.Get("client_id"))

			// изменения полученной копии не попадают в хранилище без Save
			got.Draft.Start = "10:00"
			again, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, "09:30", again.Draft.Start)

			require.NoError(t, store.Save(ctx, 42, &Session{}))
			cleared, err := store.Get(ctx, 42)
			require.NoError(t, err)
			assert.True(t, cleared.IsEmpty())

			require.NoError(t, store.Save(ctx, 42, sess))
			require.NoError(t, store.Clear(ctx, 42))
			cleared, err = store.Get(ctx, 42)
			require.NoError(t, err)
			assert.True(t, cleared.IsEmpty())
		})
	}
}

func TestRedisStoreExpiresIdleSessions(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1, &Session{State: StateCreateClientName}))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey(1)))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Save(ctx, 1, &Session{State: StateCreateClientPhone}))
	assert.Equal(t, time.Hour, mr.TTL(sessionKey(1)))

	mr.FastForward(61 * time.Minute)
	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, sess.IsEmpty())
}

func TestRedisStoreCorruptedValue(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set(sessionKey(5), "{not json"))

	_, err := store.Get(context.Background(), 5)
	assert.Error(t, err)
}

func TestSessionClone(t *testing.T) {
	var nilSession *Session
	assert.True(t, nilSession.Clone().IsEmpty())
	assert.Equal(t, "", nilSession.Get("x"))

	s := &Session{State: StateScheduleHours}
	s.Set("weekday", "MON")
	c := s.Clone()
	c.Set("weekday", "TUE")
	assert.Equal(t, "MON", s.Get("weekday"))
}
