package store

import (
	"context"

	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/Yulian302/lfusys-services-connections/health"
)

// ProfileStore owns connection records. A record only exists as part of an
// existing user profile: saving for an unknown user yields ErrUserNotFound.
type ProfileStore interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	SaveConnection(ctx context.Context, rec types.ConnectionRecord) error
	GetConnection(ctx context.Context, userID string) (*types.ConnectionRecord, error)
	Disconnect(ctx context.Context, userID string) error

	health.ReadinessCheck
}

var (
	_ ProfileStore = (*DynamoDbProfileStore)(nil)
	_ ProfileStore = (*SQLiteProfileStore)(nil)
	_ NonceStore   = (*RedisNonceStore)(nil)
)
