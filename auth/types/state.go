package types

import "github.com/golang-jwt/jwt/v5"

// StateClaims is the payload round-tripped through the provider's state parameter.
type StateClaims struct {
	UserID string `json:"uid"`
	Nonce  string `json:"nonce"`
	jwt.RegisteredClaims
}

// SessionClaims is the local session cookie issued by the login service.
// The subject is the local user id.
type SessionClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

const (
	SessionCookie    = "jwt"
	AccessTokenType  = "access"
	ContextUserIDKey = "user_id"
)
