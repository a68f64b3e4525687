package domain

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

/****************************
*        Auth errors        *
****************************/
var (
	ErrInvalidToken = &DetailedError{
		IDField:         "INVALID_TOKEN",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Token is invalid or expired",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrTenantMismatch = &DetailedError{
		IDField:         "TENANT_MISMATCH",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "Token does not belong to the requested tenant",
		StatusCodeField: http.StatusForbidden,
	}
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// JwtClaims carries the resolved principal: which user, in which tenant,
// holding which role. The authorization core consumes (Tid, Rid) as its
// session-resolution input.
type JwtClaims struct {
	Sub string `json:"sub"`
	Tid string `json:"tid"`
	Rid string `json:"rid"`
	jwt.RegisteredClaims
}
