package auth

import (
	"fmt"
	"time"

	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/golang-jwt/jwt/v5"
)

const stateIssuer = "lfusys-connections"

// StateCodec signs and verifies the state parameter. The encoded form is a
// compact HS256 JWT, which is URL safe as is.
type StateCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateCodec(secret string, ttl time.Duration) *StateCodec {
	return &StateCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *StateCodec) WithClock(now func() time.Time) *StateCodec {
	c.now = now
	return c
}

func (c *StateCodec) TTL() time.Duration {
	return c.ttl
}

func (c *StateCodec) Encode(userID, nonce string) (string, error) {
	if userID == "" || nonce == "" {
		return "", fmt.Errorf("%w: user id and nonce are required", apperror.ErrInvalidArgument)
	}

	now := c.now()
	claims := types.StateClaims{
		UserID: userID,
		Nonce:  nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

func (c *StateCodec) Decode(state string) (*types.StateClaims, error) {
	if state == "" {
		return nil, fmt.Errorf("%w: empty state", apperror.ErrInvalidState)
	}

	parsed, err := jwt.ParseWithClaims(state, &types.StateClaims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidState, err)
	}

	claims := parsed.Claims.(*types.StateClaims)
	if claims.UserID == "" || claims.Nonce == "" {
		return nil, fmt.Errorf("%w: missing user id or nonce", apperror.ErrInvalidState)
	}
	return claims, nil
}
