// Package session keeps the server-side half of a login: one Redis key per
// issued token id, holding the id of the user it was issued to.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/config"
	redisclient "github.com/angelmondragon/sirene-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrBlankAccessID is returned for an empty token id.
var ErrBlankAccessID = errors.New("session: access id is required")

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Verifier is the read side the request middleware needs.
type Verifier interface {
	Verify(ctx context.Context, accessID string, userID int64) (bool, error)
}

// Manager tracks live sessions keyed by the JWT jti. A token whose jti is
// gone, or points at another user, is treated as logged out.
type Manager struct {
	store store
	ttl   time.Duration
}

var _ Verifier = (*Manager)(nil)

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, cfg.SessionTTL())
}

func newManager(s store, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Manager{store: s, ttl: ttl}, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) key(accessID string) (string, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return "", ErrBlankAccessID
	}
	return m.store.SessionKey(accessID), nil
}

// Create records a live session for accessID owned by userID.
func (m *Manager) Create(ctx context.Context, accessID string, userID int64) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, key, strconv.FormatInt(userID, 10), m.ttl)
}

// Verify reports whether accessID is live and was issued to userID.
func (m *Manager) Verify(ctx context.Context, accessID string, userID int64) (bool, error) {
	key, err := m.key(accessID)
	if err != nil {
		return false, err
	}
	owner, err := m.store.Get(ctx, key)
	if errors.Is(err, redislib.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner == strconv.FormatInt(userID, 10), nil
}

// Revoke deletes the session. Unknown sessions are not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

// NewAccessID mints the jti that doubles as the Redis key suffix.
func NewAccessID() string {
	return uuid.NewString()
}
