package common

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"comercia/domain"

	"github.com/golang-jwt/jwt/v5"
)

type JwtProviderConfig interface {
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	RefreshTokenExpiresIn() time.Duration
	TokenIssuer() string
}

type JWTProvider struct {
	cfg JwtProviderConfig
}

func NewJWTProvider(cfg JwtProviderConfig) *JWTProvider {
	return &JWTProvider{cfg: cfg}
}

func (j *JWTProvider) Generate(tokenType domain.TokenType, userID, tenantID, roleID string) (string, error) {
	switch tokenType {
	case domain.TokenTypeAccess:
		return j.generateAccessToken(userID, tenantID, roleID)
	case domain.TokenTypeRefresh:
		return j.generateRefreshToken()
	default:
		return "", errors.New("invalid token type")
	}
}

func (j *JWTProvider) generateAccessToken(userID, tenantID, roleID string) (string, error) {
	claims := domain.JwtClaims{
		Sub: userID,
		Tid: tenantID,
		Rid: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.TokenIssuer(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.cfg.AccessTokenExpiresIn())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.AccessTokenSecret()))
}

func (j *JWTProvider) generateRefreshToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Verify parses an access token and returns its claims. Refresh tokens are
// opaque random strings, not JWTs.
func (j *JWTProvider) Verify(tokenType domain.TokenType, tokenStr string) (*domain.JwtClaims, error) {
	if tokenType != domain.TokenTypeAccess {
		return nil, errors.New("only access tokens can be verified with JWT")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &domain.JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.cfg.AccessTokenSecret()), nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken.WithWrap(err)
	}
	claims, ok := token.Claims.(*domain.JwtClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
