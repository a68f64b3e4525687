package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"comercia/common"
	"comercia/domain"
	"comercia/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authorizedRouter(role *domain.Role, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/probe",
		func(c *gin.Context) {
			if role != nil {
				c.Set(common.RoleContextKey, role)
			}
		},
		guard,
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func probe(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)
	return w
}

func testMiddlewares() Middlewares {
	return NewMiddlewares(Dependencies{Logger: log.MustNewDevelopmentLogger()})
}

func TestRequirePermission(t *testing.T) {
	m := testMiddlewares()
	role := &domain.Role{
		TenantID: "tenant-1",
		Code:     "salesperson",
		Active:   true,
		Grant: domain.ResourceGrant{
			domain.ResourceInvoices: domain.NewActionSet(domain.ActionRead),
		},
	}

	tests := []struct {
		name     string
		role     *domain.Role
		resource domain.Resource
		action   domain.Action
		status   int
	}{
		{
			name:     "granted",
			role:     role,
			resource: domain.ResourceInvoices,
			action:   domain.ActionRead,
			status:   http.StatusOK,
		},
		{
			name:     "action not granted",
			role:     role,
			resource: domain.ResourceInvoices,
			action:   domain.ActionDelete,
			status:   http.StatusForbidden,
		},
		{
			name:     "resource not granted",
			role:     role,
			resource: domain.ResourcePayments,
			action:   domain.ActionRead,
			status:   http.StatusForbidden,
		},
		{
			name:     "no role in context",
			role:     nil,
			resource: domain.ResourceInvoices,
			action:   domain.ActionRead,
			status:   http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := authorizedRouter(tt.role, m.RequirePermission(tt.resource, tt.action))
			w := probe(r)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireSpecial(t *testing.T) {
	m := testMiddlewares()
	role := &domain.Role{
		TenantID: "tenant-1",
		Code:     "manager",
		Active:   true,
		Special:  domain.SpecialPermissions{ManageUsers: true},
	}

	w := probe(authorizedRouter(role, m.RequireSpecial(domain.FlagManageUsers)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = probe(authorizedRouter(role, m.RequireSpecial(domain.FlagManageRoles)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	role.Active = false
	w = probe(authorizedRouter(role, m.RequireSpecial(domain.FlagManageUsers)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
