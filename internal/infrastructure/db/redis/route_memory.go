package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RouteMemory durably remembers the last meaningful path per profile.
// Key format: route:last:<profile_id>; no TTL, the memory survives
// sessions and tabs.
type RouteMemory struct {
	client *redis.Client
}

// NewRouteMemory creates a RouteMemory wrapping the given Redis client.
func NewRouteMemory(client *redis.Client) *RouteMemory {
	return &RouteMemory{client: client}
}

func (m *RouteMemory) Save(ctx context.Context, profileID, path string) error {
	if err := m.client.Set(ctx, m.key(profileID), path, 0).Err(); err != nil {
		return fmt.Errorf("route memory save: %w", err)
	}
	return nil
}

// Last returns the remembered path, or "" when none is stored.
func (m *RouteMemory) Last(ctx context.Context, profileID string) (string, error) {
	v, err := m.client.Get(ctx, m.key(profileID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("route memory read: %w", err)
	}
	return v, nil
}

func (m *RouteMemory) key(profileID string) string {
	return "route:last:" + profileID
}
