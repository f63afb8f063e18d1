package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/voxrelay/internal/database/databasetest"
	"github.com/xpanvictor/voxrelay/internal/domains/session"
	"github.com/xpanvictor/voxrelay/internal/types"
)

func newRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, opts...), mr
}

func stores(t *testing.T) map[string]session.Store {
	rs, _ := newRedisStore(t)
	return map[string]session.Store{
		"memory": NewMemoryStore(),
		"redis":  rs,
		"gorm":   NewGormSessionRepo(databasetest.NewSQLite(t, &ConversationEntity{})),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.LoadHistory(ctx, "unknown")
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)

			first := []types.Message{types.SystemMessage("s1"), types.UserMessage("hola"), types.AssistantMessage("hey")}
			require.NoError(t, store.SaveHistory(ctx, "dev-1", first))

			got, err = store.LoadHistory(ctx, "dev-1")
			require.NoError(t, err)
			assert.Equal(t, first, got)

			second := []types.Message{types.SystemMessage("s2"), types.UserMessage("adiós")}
			require.NoError(t, store.SaveHistory(ctx, "dev-1", second))
			got, err = store.LoadHistory(ctx, "dev-1")
			require.NoError(t, err)
			assert.Equal(t, second, got, "save replaces the whole history")

			require.NoError(t, store.SaveHistory(ctx, "dev-2", first))

			n, err := store.Delete(ctx, "dev-1")
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			n, err = store.Delete(ctx, "dev-1")
			require.NoError(t, err)
			assert.EqualValues(t, 0, n)

			got, err = store.LoadHistory(ctx, "dev-1")
			require.NoError(t, err)
			assert.Empty(t, got)

			got, err = store.LoadHistory(ctx, "dev-2")
			require.NoError(t, err)
			assert.Len(t, got, 3, "other sessions are untouched")
		})
	}
}

func TestStoreStats(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := store.Stats(ctx, 10)
			require.NoError(t, err)
			assert.Zero(t, empty.TotalSessions)
			assert.Nil(t, empty.LastActivity)

			for i := 1; i <= 3; i++ {
				msgs := make([]types.Message, i)
				for j := range msgs {
					msgs[j] = types.UserMessage(fmt.Sprint(j))
				}
				require.NoError(t, store.SaveHistory(ctx, fmt.Sprintf("dev-%d", i), msgs))
				time.Sleep(2 * time.Millisecond)
			}

			st, err := store.Stats(ctx, 2)
			require.NoError(t, err)
			assert.EqualValues(t, 3, st.TotalSessions)
			assert.EqualValues(t, 6, st.TotalMessages)
			assert.InDelta(t, 2.0, st.AvgHistoryLength, 1e-9)
			require.Len(t, st.Recent, 2)
			assert.Equal(t, "dev-3", st.Recent[0].SessionKey)
			assert.Equal(t, 3, st.Recent[0].MessageCount)
			require.NotNil(t, st.LastActivity)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	msgs := []types.Message{types.SystemMessage("s")}
	require.NoError(t, store.SaveHistory(ctx, "k", msgs))
	msgs[0].Content = "mutated"

	got, err := store.LoadHistory(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "s", got[0].Content)

	got[0].Content = "again"
	again, _ := store.LoadHistory(ctx, "k")
	assert.Equal(t, "s", again[0].Content)
}

func TestMemoryStoreConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("dev-%d", i)
			for j := 0; j < 50; j++ {
				_ = store.SaveHistory(ctx, key, []types.Message{types.UserMessage(fmt.Sprint(j))})
				_, _ = store.LoadHistory(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	st, err := store.Stats(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 20, st.TotalSessions)
	assert.Empty(t, st.Recent)
}

func TestRedisStoreTTLAndPrefix(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, WithRedisTTL(time.Minute), WithRedisPrefix("hist:"))

	require.NoError(t, store.SaveHistory(ctx, "dev-1", []types.Message{types.UserMessage("hola")}))
	assert.True(t, mr.Exists("hist:dev-1"))
	assert.Equal(t, time.Minute, mr.TTL("hist:dev-1"))

	mr.FastForward(2 * time.Minute)
	got, err := store.LoadHistory(ctx, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStoreCorruptRecord(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.LoadHistory(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt session record")
}

func TestConversationEntityRoundTrip(t *testing.T) {
	msgs := []types.Message{types.SystemMessage("s"), types.UserMessage("¿qué hora es?")}
	e, err := NewConversationEntity("dev-1", msgs)
	require.NoError(t, err)
	assert.Equal(t, 2, e.MessageCount)

	got, err := e.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, msgs, got)

	empty, err := (&ConversationEntity{SessionKey: "x"}).ToDomain()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormSaveIsSingleRowUpsert(t *testing.T) {
	ctx := context.Background()
	db := databasetest.NewSQLite(t, &ConversationEntity{})
	store := NewGormSessionRepo(db)

	for i := 1; i <= 3; i++ {
		msgs := make([]types.Message, i)
		for j := range msgs {
			msgs[j] = types.UserMessage(fmt.Sprint(j))
		}
		require.NoError(t, store.SaveHistory(ctx, "dev-1", msgs))
	}

	var rows []ConversationEntity
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].MessageCount)
	assert.False(t, rows[0].CreatedAt.IsZero())
	assert.False(t, rows[0].UpdatedAt.Before(rows[0].CreatedAt))
}

func TestGormLoadCorruptRow(t *testing.T) {
	db := databasetest.NewSQLite(t, &ConversationEntity{})
	require.NoError(t, db.Create(&ConversationEntity{SessionKey: "bad", Messages: "{not json"}).Error)

	_, err := NewGormSessionRepo(db).LoadHistory(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode history for bad")
}
