package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/config"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(sessionID string) string {
	return fmt.Sprintf("sess:%s", sessionID)
}

func newTestManager(store *mockStore) *Manager {
	m, err := newManager(store, time.Hour)
	if err != nil {
		panic(err)
	}
	return m
}

func TestManagerCreateAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	require.NoError(t, manager.Create(ctx, accessID, 42))
	assert.Equal(t, "42", store.data["sess:"+accessID])
	assert.Equal(t, time.Hour, store.ttls["sess:"+accessID])

	ok, err := manager.Verify(ctx, accessID, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, manager.Revoke(ctx, accessID))
	ok, err = manager.Verify(ctx, accessID, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	// revoking twice stays quiet
	require.NoError(t, manager.Revoke(ctx, accessID))
}

func TestManagerRejectsBlankAccessID(t *testing.T) {
	manager := newTestManager(newMockStore())
	ctx := context.Background()

	assert.ErrorIs(t, manager.Create(ctx, " ", 1), ErrBlankAccessID)
	assert.ErrorIs(t, manager.Revoke(ctx, ""), ErrBlankAccessID)
	_, err := manager.Verify(ctx, "", 1)
	assert.ErrorIs(t, err, ErrBlankAccessID)
}

func TestVerifyRejectsForeignOwner(t *testing.T) {
	manager := newTestManager(newMockStore())
	ctx := context.Background()

	accessID := NewAccessID()
	require.NoError(t, manager.Create(ctx, accessID, 7))

	ok, err := manager.Verify(ctx, accessID, 8)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPropagatesStoreErrors(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection refused")
	manager := newTestManager(store)

	ok, err := manager.Verify(context.Background(), "abc", 1)
	assert.False(t, ok)
	assert.EqualError(t, err, "connection refused")
}

func TestNewManagerValidatesInputs(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{ExpirationMinutes: 10})
	assert.Error(t, err)

	_, err = newManager(newMockStore(), 0)
	assert.Error(t, err)
}

func TestNewAccessIDUnique(t *testing.T) {
	assert.NotEqual(t, NewAccessID(), NewAccessID())
}
