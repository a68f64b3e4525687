package middleware

import (
	"context"
	"strings"

	"comercia/common"
	"comercia/domain"

	"github.com/gin-gonic/gin"
)

type JwtProvider interface {
	Verify(tokenType domain.TokenType, tokenStr string) (*domain.JwtClaims, error)
}

// RoleResolver turns the (tenant, role) pair from the token into the live
// role definition. Implementations sit in front of a cache so this lookup
// stays cheap on the hot path.
type RoleResolver interface {
	Resolve(ctx context.Context, tenantID, roleID string) (*domain.Role, error)
}

type headerData struct {
	AccessToken string
}

func extractHeaderData(c *gin.Context) *headerData {
	hData := &headerData{}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		hData.AccessToken = strings.TrimPrefix(authHeader, "Bearer ")
	}

	return hData
}

// Authenticator verifies the access token and resolves the caller's role.
// A token whose role no longer exists is treated as invalid: role deletion
// revokes outstanding tokens at the next request.
func (m *middlewares) Authenticator() gin.HandlerFunc {
	return func(c *gin.Context) {
		headerData := extractHeaderData(c)

		claims, err := m.jwtProvider.Verify(domain.TokenTypeAccess, headerData.AccessToken)
		if err != nil {
			common.ResponseError(c, domain.ErrInvalidToken.WithWrap(err))
			return
		}

		role, err := m.roleResolver.Resolve(c.Request.Context(), claims.Tid, claims.Rid)
		if err != nil && !common.IsRecordNotFound(err) {
			common.ResponseError(c, err)
			return
		}
		if role == nil {
			common.ResponseError(c, domain.ErrInvalidToken)
			return
		}

		c.Set(common.UserIDContextKey, claims.Sub)
		c.Set(common.TenantIDContextKey, claims.Tid)
		c.Set(common.RoleContextKey, role)
		c.Next()
	}
}
