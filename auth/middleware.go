package auth

import (
	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware rejects requests without a valid session cookie.
func JWTMiddleware(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(types.SessionCookie)
		if err != nil || token == "" {
			apperror.UnauthorizedResponse(ctx, "unauthorized")
			return
		}

		claims, err := ParseSession(token, secretKey)
		if err != nil {
			refresh, _ := ctx.Cookie("refresh_token")
			if refresh != "" {
				apperror.UnauthorizedResponse(ctx, "token_expired")
			} else {
				apperror.UnauthorizedResponse(ctx, "invalid_token")
			}
			return
		}

		ctx.Set(types.ContextUserIDKey, claims.Subject)
		ctx.Next()
	}
}

// OptionalSession resolves the session user when there is one and lets the
// request through either way.
func OptionalSession(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, err := ctx.Cookie(types.SessionCookie); err == nil && token != "" {
			if claims, err := ParseSession(token, secretKey); err == nil {
				ctx.Set(types.ContextUserIDKey, claims.Subject)
			}
		}
		ctx.Next()
	}
}

func ParseSession(token, secretKey string) (*types.SessionClaims, error) {
	parsedToken, err := jwt.ParseWithClaims(token, &types.SessionClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsedToken.Valid {
		return nil, apperror.ErrInvalidToken
	}

	claims := parsedToken.Claims.(*types.SessionClaims)
	if claims.Type != types.AccessTokenType || claims.Subject == "" {
		return nil, apperror.ErrInvalidToken
	}
	return claims, nil
}
