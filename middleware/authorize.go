package middleware

import (
	"comercia/common"
	"comercia/domain"
	"comercia/pkg/log"

	"github.com/gin-gonic/gin"
)

// RequirePermission gates a route on a (resource, action) grant of the
// caller's role. Denials never distinguish "resource not granted" from
// "action not granted" in the response body; the reason goes to the log.
func (m *middlewares) RequirePermission(resource domain.Resource, action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := common.GetRoleFromCtx(c)
		if role == nil {
			common.ResponseForbidden(c, "Role context not found")
			return
		}

		decision := role.AuthorizeAction(resource, action)
		if !decision.Allowed {
			m.logDenial(c, role, decision,
				log.Resource(string(resource)),
				log.Action(string(action)),
			)
			common.ResponseError(c, decision.Err())
			return
		}

		c.Next()
	}
}

// RequireSpecial gates a route on a boolean special permission.
func (m *middlewares) RequireSpecial(flag domain.SpecialFlag) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := common.GetRoleFromCtx(c)
		if role == nil {
			common.ResponseForbidden(c, "Role context not found")
			return
		}

		decision := role.AuthorizeSpecial(flag)
		if !decision.Allowed {
			m.logDenial(c, role, decision,
				log.String("special_flag", string(flag)),
			)
			common.ResponseError(c, decision.Err())
			return
		}

		c.Next()
	}
}

func (m *middlewares) logDenial(c *gin.Context, role *domain.Role, decision domain.Decision, fields ...log.Field) {
	fields = append(fields,
		log.TenantID(role.TenantID),
		log.RoleID(role.ID),
		log.UserID(common.GetUserIDFromCtx(c)),
		log.String("deny_reason", string(decision.Reason)),
		log.String("path", c.Request.URL.Path),
	)

	// An unknown resource or flag at this point is a programming error in
	// the route wiring, not a policy outcome. Make it loud.
	if decision.CallerBug() {
		m.logger.Error("authorization check with unknown catalog entry", fields...)
		return
	}
	m.logger.Info("authorization denied", fields...)
}
