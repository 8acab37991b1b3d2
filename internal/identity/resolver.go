package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hireflow/internal/logging"
)

// Roles allowed into the staff area
const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
)

// IsStaff reports whether role grants access to staff pages
func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleRecruiter
}

// RoleCache remembers roles fetched from the identity provider
type RoleCache interface {
	GetRole(ctx context.Context, userID string) (string, bool, error)
	SetRole(ctx context.Context, userID, role string) error
}

// RedisRoleCache keeps looked-up roles in Redis with a TTL
type RedisRoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRoleCache creates a cache entry per user with the given TTL
func NewRedisRoleCache(client *redis.Client, ttl time.Duration) *RedisRoleCache {
	return &RedisRoleCache{client: client, ttl: ttl}
}

func roleKey(userID string) string { return "hireflow:role:" + userID }

func (c *RedisRoleCache) GetRole(ctx context.Context, userID string) (string, bool, error) {
	role, err := c.client.Get(ctx, roleKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cached role: %w", err)
	}
	return role, true, nil
}

func (c *RedisRoleCache) SetRole(ctx context.Context, userID, role string) error {
	if err := c.client.Set(ctx, roleKey(userID), role, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache role: %w", err)
	}
	return nil
}

// Resolver determines a session's role: the session claim first, then the
// cache, then the identity provider. Lookup failures resolve to no role.
type Resolver struct {
	lookup RoleLookup
	cache  RoleCache
	logger logging.Logger
}

// NewResolver creates a resolver. lookup and cache may be nil.
func NewResolver(lookup RoleLookup, cache RoleCache, logger logging.Logger) *Resolver {
	return &Resolver{lookup: lookup, cache: cache, logger: logger.WithField("component", "identity")}
}

// ResolveRole returns the role of the session's user or "" when unknown
func (r *Resolver) ResolveRole(ctx context.Context, session *Session) string {
	if session == nil {
		return ""
	}
	if role := session.Role(); role != "" {
		return role
	}
	if r.lookup == nil {
		return ""
	}

	if r.cache != nil {
		role, ok, err := r.cache.GetRole(ctx, session.UserID)
		if err != nil {
			r.logger.Warn("Role cache read failed", map[string]interface{}{"user_id": session.UserID, "error": err.Error()})
		} else if ok {
			return role
		}
	}

	role, err := r.lookup.LookupRole(ctx, session.UserID)
	if err != nil {
		r.logger.Error("Failed to fetch user role", map[string]interface{}{"user_id": session.UserID, "error": err.Error()})
		return ""
	}

	if r.cache != nil && role != "" {
		if err := r.cache.SetRole(ctx, session.UserID, role); err != nil {
			r.logger.Warn("Role cache write failed", map[string]interface{}{"user_id": session.UserID, "error": err.Error()})
		}
	}
	return role
}
