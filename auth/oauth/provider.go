package oauth

import (
	"context"
	"fmt"
	"time"
)

type TokenResult struct {
	AccessToken string
	ExpiresIn   int64
	ReceivedAt  time.Time
}

// ExpiresAt is the absolute expiry as seen when the token was received.
func (t TokenResult) ExpiresAt() time.Time {
	return t.ReceivedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

type Profile struct {
	ExternalID string
	Name       string
	Email      string
}

type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (TokenResult, error)
	GetProfile(ctx context.Context, accessToken string) (Profile, error)
}

// ExchangeError is a failed call to the provider's token endpoint. Err holds
// the transport failure when the provider never answered.
type ExchangeError struct {
	Code        string
	Description string
	Status      int
	Err         error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("token endpoint returned status %d", e.Status)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
