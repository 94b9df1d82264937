package apperror

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternalServer  = errors.New("internal server error")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")

	ErrConnectionNotFound = errors.New("connection not found")
	ErrIncompleteRecord   = errors.New("connection record is incomplete")

	// callback failure kinds
	ErrProviderDenied      = errors.New("provider denied authorization")
	ErrMalformedCallback   = errors.New("malformed callback")
	ErrInvalidState        = errors.New("invalid state")
	ErrStateMismatch       = errors.New("state does not match session user")
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrProfileFetchFailed  = errors.New("profile fetch failed")
	ErrPersistenceFailed   = errors.New("persistence failed")
	ErrUnresolvedUser      = errors.New("unresolved user")
)
