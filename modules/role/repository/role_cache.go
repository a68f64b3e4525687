package repository

import (
	"context"
	"errors"
	"time"

	"comercia/domain"
	"comercia/pkg/cache"
	"comercia/pkg/log"
)

const roleCacheTTL = 5 * time.Minute

// RoleCache keeps recently resolved roles close to the request path. The
// authenticator hits it on every request, so role lookups must not touch
// the database each time. Writes through the usecase invalidate entries,
// and the short TTL bounds staleness for writes from other replicas.
type RoleCache struct {
	client cache.Client
	logger log.Logger
}

func NewRoleCache(client cache.Client, logger log.Logger) *RoleCache {
	return &RoleCache{
		client: client,
		logger: logger,
	}
}

func roleKey(tenantID, roleID string) string {
	return cache.Key("role", tenantID, roleID)
}

// Get returns the cached role or nil on a miss. Cache failures degrade to
// a miss so a broken Redis never blocks authorization.
func (c *RoleCache) Get(ctx context.Context, tenantID, roleID string) *domain.Role {
	var role domain.Role
	err := c.client.GetJSON(ctx, roleKey(tenantID, roleID), &role)
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			c.logger.Warn("role cache read failed",
				log.TenantID(tenantID),
				log.RoleID(roleID),
				log.Error(err),
			)
		}
		return nil
	}
	return &role
}

func (c *RoleCache) Set(ctx context.Context, role *domain.Role) {
	if role == nil {
		return
	}
	err := c.client.SetJSON(ctx, roleKey(role.TenantID, role.ID), role, roleCacheTTL)
	if err != nil {
		c.logger.Warn("role cache write failed",
			log.TenantID(role.TenantID),
			log.RoleID(role.ID),
			log.Error(err),
		)
	}
}

func (c *RoleCache) Invalidate(ctx context.Context, tenantID, roleID string) {
	err := c.client.Delete(ctx, roleKey(tenantID, roleID))
	if err != nil {
		c.logger.Warn("role cache invalidation failed",
			log.TenantID(tenantID),
			log.RoleID(roleID),
			log.Error(err),
		)
	}
}

// InvalidateTenant flushes every cached role for a tenant. Used after
// provisioning, which rewrites all system roles at once.
func (c *RoleCache) InvalidateTenant(ctx context.Context, tenantID string) {
	err := c.client.DeletePattern(ctx, cache.Key("role", tenantID, "*"))
	if err != nil {
		c.logger.Warn("role cache tenant flush failed",
			log.TenantID(tenantID),
			log.Error(err),
		)
	}
}
