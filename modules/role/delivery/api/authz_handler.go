package api

import (
	"comercia/common"
	"comercia/domain"
	"comercia/middleware"

	"github.com/gin-gonic/gin"
)

// AuthzHandler exposes the authorization evaluator over HTTP so front ends
// can decide what to render without duplicating the grant logic. The checks
// run against the caller's own role; a deny is a normal 200 response carrying
// the decision, not an error.
type AuthzHandler struct {
	middlewares middleware.Middlewares
}

func NewAuthzHandler(middlewares middleware.Middlewares) *AuthzHandler {
	return &AuthzHandler{middlewares: middlewares}
}

func (h *AuthzHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authz := rg.Group("/authz")

	authz.Use(h.middlewares.Authenticator())
	authz.Use(h.middlewares.APIRateLimits())

	authz.POST("/check", h.CheckAction)
	authz.POST("/check-special", h.CheckSpecial)
	authz.POST("/check-discount", h.CheckDiscount)
}

// Resource and action are deliberately unvalidated at the binding layer;
// out-of-catalog names must come back as unknown_* decisions, not 400s.
type checkActionRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type checkSpecialRequest struct {
	Flag string `json:"flag" binding:"required"`
}

type checkDiscountRequest struct {
	Percent float64 `json:"percent" binding:"min=0"`
}

func (h *AuthzHandler) CheckAction(c *gin.Context) {
	var req checkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	role := common.GetRoleFromCtx(c)
	if role == nil {
		common.ResponseForbidden(c, "Role context not found")
		return
	}

	decision := role.AuthorizeAction(domain.Resource(req.Resource), domain.Action(req.Action))
	common.ResponseOK(c, decision, "Authorization evaluated")
}

func (h *AuthzHandler) CheckSpecial(c *gin.Context) {
	var req checkSpecialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	role := common.GetRoleFromCtx(c)
	if role == nil {
		common.ResponseForbidden(c, "Role context not found")
		return
	}

	decision := role.AuthorizeSpecial(domain.SpecialFlag(req.Flag))
	common.ResponseOK(c, decision, "Authorization evaluated")
}

func (h *AuthzHandler) CheckDiscount(c *gin.Context) {
	var req checkDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	role := common.GetRoleFromCtx(c)
	if role == nil {
		common.ResponseForbidden(c, "Role context not found")
		return
	}

	decision := role.AuthorizeDiscount(req.Percent)
	common.ResponseOK(c, decision, "Authorization evaluated")
}
