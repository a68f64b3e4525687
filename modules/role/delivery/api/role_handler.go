package api

import (
	"comercia/bootstrap"
	"comercia/common"
	"comercia/domain"
	"comercia/middleware"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	usecase     domain.RoleUsecase
	templates   *bootstrap.Registry
	middlewares middleware.Middlewares
}

func NewRoleHandler(usecase domain.RoleUsecase, templates *bootstrap.Registry, middlewares middleware.Middlewares) *RoleHandler {
	return &RoleHandler{
		usecase:     usecase,
		templates:   templates,
		middlewares: middlewares,
	}
}

func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	role := rg.Group("/roles")

	role.Use(h.middlewares.Authenticator())
	role.Use(h.middlewares.APIRateLimits())

	// Reading the role list only takes a read grant; changing anything
	// requires the manage_roles special permission.
	canRead := h.middlewares.RequirePermission(domain.ResourceRoles, domain.ActionRead)
	canManage := h.middlewares.RequireSpecial(domain.FlagManageRoles)

	role.GET("", canRead, h.List)
	role.GET("/templates", canRead, h.ListTemplates)
	role.GET("/:id", canRead, h.GetByID)
	role.GET("/code/:code", canRead, h.GetByCode)

	role.POST("", canManage, h.Create)
	role.PUT("/:id", canManage, h.Update)
	role.POST("/:id/deactivate", canManage, h.Deactivate)
	role.DELETE("/:id", canManage, h.Delete)
	role.POST("/provision", canManage, h.Provision)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req domain.RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	role, err := h.usecase.Create(
		c.Request.Context(),
		common.GetTenantIDFromCtx(c),
		common.GetUserIDFromCtx(c),
		&req,
	)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, role, "Role created successfully")
}

func (h *RoleHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req domain.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	role, err := h.usecase.Update(
		c.Request.Context(),
		common.GetTenantIDFromCtx(c),
		common.GetUserIDFromCtx(c),
		id,
		&req,
	)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role, "Role updated successfully")
}

func (h *RoleHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	role, err := h.usecase.Deactivate(c.Request.Context(), common.GetTenantIDFromCtx(c), id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role, "Role deactivated successfully")
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	err := h.usecase.Delete(c.Request.Context(), common.GetTenantIDFromCtx(c), id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "Role deleted successfully")
}

func (h *RoleHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	role, err := h.usecase.FindByID(c.Request.Context(), common.GetTenantIDFromCtx(c), id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role, "Role found")
}

func (h *RoleHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	role, err := h.usecase.FindByTenantAndCode(c.Request.Context(), common.GetTenantIDFromCtx(c), code)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, role, "Role found")
}

func (h *RoleHandler) List(c *gin.Context) {
	var filter domain.RoleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	tenantID := common.GetTenantIDFromCtx(c)
	filter.TenantID = &tenantID

	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	roles, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{
		"roles":      roles,
		"pagination": pagination,
	}, "Roles listed successfully")
}

func (h *RoleHandler) ListTemplates(c *gin.Context) {
	common.ResponseOK(c, h.templates.List(), "Templates listed successfully")
}

// Provision installs the six system roles for the caller's tenant. Safe to
// repeat: existing system roles are refreshed in place.
func (h *RoleHandler) Provision(c *gin.Context) {
	roles, err := h.usecase.ProvisionTenant(c.Request.Context(), common.GetTenantIDFromCtx(c))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, roles, "Tenant provisioned successfully")
}
