package middleware

import (
	"comercia/domain"
	"comercia/pkg/cache"
	"comercia/pkg/log"

	"github.com/gin-gonic/gin"
)

// Middlewares defines all available middleware methods
type Middlewares interface {
	// Rate limiting middlewares
	RateLimit(config ...RateLimitConfig) gin.HandlerFunc
	RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc
	APIRateLimits() gin.HandlerFunc

	// Logging middlewares
	LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc
	RequestIDMiddleware() gin.HandlerFunc

	// CORS middlewares
	CORS(config ...CORSConfig) gin.HandlerFunc
	SimpleAllowAllCORS() gin.HandlerFunc

	// Authentication and authorization middlewares
	Authenticator() gin.HandlerFunc
	RequirePermission(resource domain.Resource, action domain.Action) gin.HandlerFunc
	RequireSpecial(flag domain.SpecialFlag) gin.HandlerFunc
}

// Dependencies holds all dependencies needed by middlewares
type Dependencies struct {
	Cache        cache.Client
	Logger       log.Logger
	JwtProvider  JwtProvider
	RoleResolver RoleResolver
}

// NewMiddlewares creates a new instance of middlewares with dependencies
func NewMiddlewares(deps Dependencies) Middlewares {
	return &middlewares{
		cache:        deps.Cache,
		logger:       deps.Logger,
		jwtProvider:  deps.JwtProvider,
		roleResolver: deps.RoleResolver,
	}
}

// middlewares is the concrete implementation of Middlewares interface
type middlewares struct {
	cache        cache.Client
	logger       log.Logger
	jwtProvider  JwtProvider
	roleResolver RoleResolver
}
