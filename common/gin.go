package common

import (
	"net"
	"strings"

	"comercia/domain"

	"github.com/gin-gonic/gin"
)

const (
	UserIDContextKey    = "auth.user_id"
	TenantIDContextKey  = "auth.tenant_id"
	RoleContextKey      = "auth.role"
	RequestIDContextKey = "request_id"
)

type ClientInfo struct {
	UserAgent string
	IPAddress string
}

func ExtractClientInfo(c *gin.Context) *ClientInfo {
	return &ClientInfo{
		UserAgent: c.GetHeader("User-Agent"),
		IPAddress: GetClientIP(c),
	}
}

// GetClientIP gets the real client IP address
func GetClientIP(c *gin.Context) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	xff := c.GetHeader("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xri := c.GetHeader("X-Real-IP")
	if xri != "" && net.ParseIP(xri) != nil {
		return xri
	}

	remoteIP, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return remoteIP
}

// GetRoleFromCtx returns the role resolved by the authenticator, or nil
// when the request is unauthenticated.
func GetRoleFromCtx(c *gin.Context) *domain.Role {
	if v, ok := c.Get(RoleContextKey); ok {
		if role, ok := v.(*domain.Role); ok {
			return role
		}
	}
	return nil
}

func GetUserIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get(UserIDContextKey); ok {
		if userID, ok := v.(string); ok {
			return userID
		}
	}
	return ""
}

func GetTenantIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get(TenantIDContextKey); ok {
		if tenantID, ok := v.(string); ok {
			return tenantID
		}
	}
	return ""
}

func GetRequestIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get(RequestIDContextKey); ok {
		if requestID, ok := v.(string); ok {
			return requestID
		}
	}
	return ""
}
