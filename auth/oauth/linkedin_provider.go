package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Yulian302/lfusys-services-connections/auth"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/Yulian302/lfusys-services-connections/config"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const tracerName = "github.com/Yulian302/lfusys-services-connections/auth/oauth"

type linkedInProvider struct {
	cfg     config.LinkedInConfig
	oauth   *oauth2.Config
	client  *auth.Client
	timeout time.Duration
	now     func() time.Time

	tokenBreaker   *gobreaker.CircuitBreaker[*oauth2.Token]
	profileBreaker *gobreaker.CircuitBreaker[types.LinkedInUser]
}

func NewLinkedInProvider(cfg config.LinkedInConfig) *linkedInProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &linkedInProvider{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client:  auth.NewClient(timeout),
		timeout: timeout,
		now:     time.Now,

		tokenBreaker:   gobreaker.NewCircuitBreaker[*oauth2.Token](breakerSettings("linkedin:access-token")),
		profileBreaker: gobreaker.NewCircuitBreaker[types.LinkedInUser](breakerSettings("linkedin:userinfo")),
	}
}

func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name: name,

		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},

		// a provider rejecting a bad code is not an outage
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var rErr *oauth2.RetrieveError
			if errors.As(err, &rErr) && rErr.Response != nil {
				return rErr.Response.StatusCode < 500
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}
}

func (p *linkedInProvider) Name() string {
	return "linkedin"
}

func (p *linkedInProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *linkedInProvider) ExchangeCode(ctx context.Context, code string) (TokenResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "linkedin.exchange_code", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	tok, err := p.tokenBreaker.Execute(func() (*oauth2.Token, error) {
		reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		reqCtx = context.WithValue(reqCtx, oauth2.HTTPClient, p.client.HTTP())
		return p.oauth.Exchange(reqCtx, code)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token exchange failed")
		return TokenResult{}, toExchangeError(err)
	}

	received := p.now()
	res := TokenResult{
		AccessToken: tok.AccessToken,
		ExpiresIn:   expiresIn(tok, received),
		ReceivedAt:  received,
	}
	span.SetAttributes(attribute.Int64("oauth.expires_in", res.ExpiresIn))
	return res, nil
}

func (p *linkedInProvider) GetProfile(ctx context.Context, accessToken string) (Profile, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "linkedin.userinfo", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	user, err := p.profileBreaker.Execute(func() (types.LinkedInUser, error) {
		reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		var u types.LinkedInUser
		err := p.client.GetJSONWithToken(reqCtx, p.cfg.UserInfoURL, accessToken, &u)
		return u, err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "userinfo failed")
		return Profile{}, fmt.Errorf("linkedin userinfo: %w", err)
	}

	if user.Sub == "" {
		return Profile{}, fmt.Errorf("linkedin response missing sub")
	}

	return Profile{
		ExternalID: user.Sub,
		Name:       user.Name,
		Email:      user.Email,
	}, nil
}

func toExchangeError(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		exErr := &ExchangeError{
			Code:        rErr.ErrorCode,
			Description: rErr.ErrorDescription,
		}
		if rErr.Response != nil {
			exErr.Status = rErr.Response.StatusCode
		}
		if exErr.Description == "" && exErr.Code == "" && exErr.Status != 0 {
			exErr.Description = http.StatusText(exErr.Status)
		}
		return exErr
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &ExchangeError{Code: "unavailable", Description: "linkedin is temporarily unavailable"}
	}
	return &ExchangeError{Code: "exchange_error", Err: err}
}

func expiresIn(tok *oauth2.Token, received time.Time) int64 {
	if tok.ExpiresIn > 0 {
		return tok.ExpiresIn
	}
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	if !tok.Expiry.IsZero() {
		return int64(tok.Expiry.Sub(received).Round(time.Second) / time.Second)
	}
	return 0
}
