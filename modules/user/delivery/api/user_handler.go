package api

import (
	"comercia/common"
	"comercia/domain"
	"comercia/middleware"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	usecase     domain.UserUsecase
	middlewares middleware.Middlewares
}

func NewUserHandler(usecase domain.UserUsecase, middlewares middleware.Middlewares) *UserHandler {
	return &UserHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/users")

	user.Use(h.middlewares.Authenticator())
	user.Use(h.middlewares.APIRateLimits())

	// User administration requires the manage_users special permission.
	user.POST("", h.middlewares.RequireSpecial(domain.FlagManageUsers), h.Create)
	user.PUT("/:id/role", h.middlewares.RequireSpecial(domain.FlagManageUsers), h.AssignRole)

	user.GET("", h.middlewares.RequirePermission(domain.ResourceUsers, domain.ActionRead), h.List)
	user.GET("/:id", h.middlewares.RequirePermission(domain.ResourceUsers, domain.ActionRead), h.GetByID)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req domain.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}
	user, err := h.usecase.Create(c.Request.Context(), common.GetTenantIDFromCtx(c), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, user, "User created successfully")
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	user, err := h.usecase.FindByID(c.Request.Context(), common.GetTenantIDFromCtx(c), id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, user, "User found")
}

func (h *UserHandler) List(c *gin.Context) {
	var filter domain.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	// Listings never cross the caller's tenant.
	tenantID := common.GetTenantIDFromCtx(c)
	filter.TenantID = &tenantID

	var option domain.FindPageOption
	if err := c.ShouldBindQuery(&option); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	users, pagination, err := h.usecase.FindPage(c.Request.Context(), &filter, &option)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{
		"users":      users,
		"pagination": pagination,
	}, "Users listed successfully")
}

func (h *UserHandler) AssignRole(c *gin.Context) {
	id := c.Param("id")
	var req domain.UserAssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}
	err := h.usecase.AssignRole(c.Request.Context(), common.GetTenantIDFromCtx(c), id, req.RoleID)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "Role assigned successfully")
}
