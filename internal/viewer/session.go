// Package viewer tracks per-session viewer preferences, currently the
// detected browser timezone used by the central calendar view.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists viewer timezones keyed by session id with a
// TTL, so stale sessions expire on their own.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSessionStore creates a session store. A non-positive TTL gets a
// 12 hour default.
func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	if redisClient == nil {
		panic("viewer: redis client required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{redis: redisClient, ttl: ttl}
}

func (s *SessionStore) key(sessionID string) string {
	return fmt.Sprintf("viewer:tz:%s", sessionID)
}

// SetTimezone records the viewer's IANA zone for a session. Unknown
// zone names are rejected.
func (s *SessionStore) SetTimezone(ctx context.Context, sessionID, zone string) error {
	if sessionID == "" {
		return fmt.Errorf("viewer: session id required")
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return fmt.Errorf("viewer: unknown timezone %q: %w", zone, err)
	}

	if err := s.redis.Set(ctx, s.key(sessionID), zone, s.ttl).Err(); err != nil {
		return fmt.Errorf("viewer: set timezone: %w", err)
	}
	return nil
}

// Timezone returns the stored zone for a session, or ok=false when the
// session has none. Callers fall back to the configured default zone;
// detection failure degrades silently rather than blocking the render.
func (s *SessionStore) Timezone(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}

	zone, err := s.redis.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("viewer: get timezone: %w", err)
	}
	return zone, true, nil
}
