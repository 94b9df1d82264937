package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/auth"
	"github.com/Yulian302/lfusys-services-connections/auth/oauth"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/Yulian302/lfusys-services-connections/crypt"
	"github.com/Yulian302/lfusys-services-connections/logging"
	"github.com/Yulian302/lfusys-services-connections/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	nonceBytes = 16
	tracerName = "github.com/Yulian302/lfusys-services-connections/services"
)

// Redirect error codes understood by the settings page.
const (
	CodeMissingCode    = "missing_code"
	CodeInvalidState   = "invalid_state"
	CodeStateMismatch  = "state_mismatch"
	CodeExchangeFailed = "exchange_failed"
)

// Messages shown on the settings page when the failure detail is internal.
const (
	MsgNoResponse    = "linkedin did not respond"
	MsgProfileFailed = "could not read linkedin profile"
	MsgSaveFailed    = "could not save linkedin connection"
)

type OutcomeKind int

const (
	OutcomeConnected OutcomeKind = iota
	OutcomePartialNoUser
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeConnected:
		return "connected"
	case OutcomePartialNoUser:
		return "partial_no_user"
	default:
		return "failed"
	}
}

// Outcome is the terminal state of one callback. Err wraps one of the
// apperror callback kinds for failed and partial outcomes.
type Outcome struct {
	Kind      OutcomeKind
	UserID    string
	ErrorCode string
	Message   string
	Err       error
}

// Query renders the outcome as redirect query parameters.
func (o Outcome) Query() url.Values {
	q := url.Values{}
	switch o.Kind {
	case OutcomeConnected:
		q.Set("success", "true")
	case OutcomePartialNoUser:
		q.Set("success", "true")
		q.Set("linked", "false")
	default:
		q.Set("error", o.ErrorCode)
		if o.Message != "" {
			q.Set("msg", o.Message)
		}
	}
	return q
}

type CallbackParams struct {
	Code             string `form:"code"`
	State            string `form:"state"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
}

type ConnectionService interface {
	BuildAuthorizationURL(ctx context.Context, userID string) (string, error)
	HandleCallback(ctx context.Context, params CallbackParams, sessionUserID string) Outcome
	GetStatus(ctx context.Context, userID string) (*types.ConnectionStatus, error)
	Disconnect(ctx context.Context, userID string) error
}

type ConnectionServiceImpl struct {
	provider oauth.Provider
	profiles store.ProfileStore
	nonces   store.NonceStore
	states   *auth.StateCodec
	now      func() time.Time
}

func NewConnectionService(provider oauth.Provider, profiles store.ProfileStore, nonces store.NonceStore, states *auth.StateCodec) *ConnectionServiceImpl {
	return &ConnectionServiceImpl{
		provider: provider,
		profiles: profiles,
		nonces:   nonces,
		states:   states,
		now:      time.Now,
	}
}

func (s *ConnectionServiceImpl) BuildAuthorizationURL(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", apperror.ErrInvalidArgument)
	}

	nonce, err := crypt.GenerateState(nonceBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInternalServer, err)
	}

	if err := s.nonces.Save(ctx, nonce, userID, s.states.TTL()); err != nil {
		return "", fmt.Errorf("%w: store nonce: %w", apperror.ErrInternalServer, err)
	}

	state, err := s.states.Encode(userID, nonce)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInternalServer, err)
	}

	return s.provider.AuthCodeURL(state), nil
}

// HandleCallback runs the callback to a terminal outcome. It never returns an
// error: every failure is folded into the outcome.
func (s *ConnectionServiceImpl) HandleCallback(ctx context.Context, params CallbackParams, sessionUserID string) Outcome {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "connections.handle_callback")
	defer span.End()

	out := s.handleCallback(ctx, params, sessionUserID)

	span.SetAttributes(
		attribute.String("connection.outcome", out.Kind.String()),
		attribute.String("connection.error_code", out.ErrorCode),
	)
	if out.Err != nil {
		span.RecordError(out.Err)
	}
	return out
}

func (s *ConnectionServiceImpl) handleCallback(ctx context.Context, params CallbackParams, sessionUserID string) Outcome {
	log := logging.FromContext(ctx).With(slog.String("provider", s.provider.Name()))

	if params.Error != "" {
		log.Info("provider denied authorization", "error", params.Error, "description", params.ErrorDescription)
		return failed(params.Error, params.ErrorDescription, apperror.ErrProviderDenied)
	}

	if params.Code == "" {
		log.Warn("callback without code or error")
		return failed(CodeMissingCode, "", apperror.ErrMalformedCallback)
	}

	userID, out, ok := s.verifyState(ctx, log, params.State, sessionUserID)
	if !ok {
		return out
	}

	tok, err := s.provider.ExchangeCode(ctx, params.Code)
	if err != nil {
		log.Warn("token exchange failed", "error", err)
		return failed(CodeExchangeFailed, exchangeMessage(err), fmt.Errorf("%w: %w", apperror.ErrTokenExchangeFailed, err))
	}

	profile, err := s.provider.GetProfile(ctx, tok.AccessToken)
	if err != nil {
		log.Warn("profile fetch failed", "error", err)
		return failed(CodeExchangeFailed, MsgProfileFailed, fmt.Errorf("%w: %w", apperror.ErrProfileFetchFailed, err))
	}

	exists, err := s.profiles.UserExists(ctx, userID)
	if err != nil {
		log.Error("could not resolve user", "user_id", userID, "error", err)
		return failed(CodeExchangeFailed, MsgSaveFailed, fmt.Errorf("%w: %w", apperror.ErrPersistenceFailed, err))
	}
	if !exists {
		return s.unresolved(log, userID)
	}

	rec := types.ConnectionRecord{
		UserID:            userID,
		ExternalToken:     tok.AccessToken,
		ExternalProfileID: profile.ExternalID,
		Connected:         true,
		TokenExpiresAt:    tok.ExpiresAt(),
		UpdatedAt:         s.now(),
	}
	if err := s.profiles.SaveConnection(ctx, rec); err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			return s.unresolved(log, userID)
		}
		log.Error("could not save connection", "user_id", userID, "error", err)
		return failed(CodeExchangeFailed, MsgSaveFailed, fmt.Errorf("%w: %w", apperror.ErrPersistenceFailed, err))
	}

	log.Info("linkedin connected", "user_id", userID, "expires_at", rec.TokenExpiresAt)
	return Outcome{Kind: OutcomeConnected, UserID: userID}
}

// verifyState authenticates the state token and burns its nonce. The state
// is the primary source of the user identity; a session user, when present,
// must agree with it.
func (s *ConnectionServiceImpl) verifyState(ctx context.Context, log *slog.Logger, state, sessionUserID string) (string, Outcome, bool) {
	claims, err := s.states.Decode(state)
	if err != nil {
		log.Warn("rejected callback state", "error", err)
		return "", failed(CodeInvalidState, "authorization request could not be verified", err), false
	}

	issuedTo, found, err := s.nonces.Consume(ctx, claims.Nonce)
	if err != nil {
		log.Error("could not consume state nonce", "error", err)
		return "", failed(CodeInvalidState, "authorization request could not be verified", fmt.Errorf("%w: %w", apperror.ErrInvalidState, err)), false
	}
	if !found || issuedTo != claims.UserID {
		log.Warn("state nonce unknown or already used", "user_id", claims.UserID)
		return "", failed(CodeInvalidState, "authorization request expired or was already used", apperror.ErrInvalidState), false
	}

	if sessionUserID != "" && sessionUserID != claims.UserID {
		log.Warn("state user does not match session", "state_user_id", claims.UserID, "session_user_id", sessionUserID)
		return "", failed(CodeStateMismatch, "authorization was started by a different account", apperror.ErrStateMismatch), false
	}

	return claims.UserID, Outcome{}, true
}

func (s *ConnectionServiceImpl) unresolved(log *slog.Logger, userID string) Outcome {
	log.Warn("no local user for linkedin connection, skipping save", "user_id", userID)
	return Outcome{
		Kind:   OutcomePartialNoUser,
		UserID: userID,
		Err:    apperror.ErrUnresolvedUser,
	}
}

func (s *ConnectionServiceImpl) GetStatus(ctx context.Context, userID string) (*types.ConnectionStatus, error) {
	rec, err := s.profiles.GetConnection(ctx, userID)
	if errors.Is(err, apperror.ErrConnectionNotFound) {
		return &types.ConnectionStatus{Connected: false}, nil
	}
	if err != nil {
		return nil, err
	}

	status := &types.ConnectionStatus{
		Connected:         rec.Connected,
		ExternalProfileID: rec.ExternalProfileID,
	}
	if rec.Connected && !rec.TokenExpiresAt.IsZero() {
		exp := rec.TokenExpiresAt
		status.TokenExpiresAt = &exp
		status.Expired = !s.now().Before(exp)
	}
	return status, nil
}

func (s *ConnectionServiceImpl) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", apperror.ErrInvalidArgument)
	}
	if err := s.profiles.Disconnect(ctx, userID); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("linkedin disconnected", "user_id", userID)
	return nil
}

func failed(code, msg string, err error) Outcome {
	return Outcome{
		Kind:      OutcomeFailed,
		ErrorCode: code,
		Message:   msg,
		Err:       err,
	}
}

func exchangeMessage(err error) string {
	var exErr *oauth.ExchangeError
	if errors.As(err, &exErr) && exErr.Description != "" {
		return exErr.Description
	}
	return MsgNoResponse
}
