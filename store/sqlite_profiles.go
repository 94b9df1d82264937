package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	id                        TEXT PRIMARY KEY,
	linkedin_token            TEXT,
	linkedin_profile_id       TEXT,
	linkedin_connected        INTEGER,
	linkedin_token_expires_at INTEGER,
	linkedin_updated_at       INTEGER
)`

// SQLiteProfileStore keeps profiles in a local SQLite file for development
// without DynamoDB.
type SQLiteProfileStore struct {
	db  *sql.DB
	now func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func OpenSQLiteProfileStore(path string) (*SQLiteProfileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteProfileStore{db: db, now: time.Now}, nil
}

func (s *SQLiteProfileStore) IsReady(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteProfileStore) Name() string {
	return "ProfileStore[sqlite]"
}

// CreateProfile registers a bare profile. Profiles are normally created by
// the account service; this exists for local seeding.
func (s *SQLiteProfileStore) CreateProfile(ctx context.Context, userID string) error {
	if userID == "" {
		return apperror.ErrInvalidArgument
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO profiles (id) VALUES (?)`, userID)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *SQLiteProfileStore) UserExists(ctx context.Context, userID string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM profiles WHERE id = ?`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get profile: %w", err)
	}
	return true, nil
}

func (s *SQLiteProfileStore) SaveConnection(ctx context.Context, rec types.ConnectionRecord) error {
	if rec.Connected && !rec.Complete() {
		return apperror.ErrIncompleteRecord
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now()
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET
		   linkedin_token = ?,
		   linkedin_profile_id = ?,
		   linkedin_connected = ?,
		   linkedin_token_expires_at = ?,
		   linkedin_updated_at = ?
		 WHERE id = ?`,
		rec.ExternalToken,
		rec.ExternalProfileID,
		rec.Connected,
		toMillis(rec.TokenExpiresAt),
		toMillis(rec.UpdatedAt),
		rec.UserID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteProfileStore) GetConnection(ctx context.Context, userID string) (*types.ConnectionRecord, error) {
	var (
		token, profileID     sql.NullString
		connected            sql.NullBool
		expiresAt, updatedAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT linkedin_token, linkedin_profile_id, linkedin_connected, linkedin_token_expires_at, linkedin_updated_at
		 FROM profiles WHERE id = ?`, userID,
	).Scan(&token, &profileID, &connected, &expiresAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	if !connected.Valid {
		return nil, apperror.ErrConnectionNotFound
	}

	rec := &types.ConnectionRecord{
		UserID:            userID,
		ExternalToken:     token.String,
		ExternalProfileID: profileID.String,
		Connected:         connected.Bool,
	}
	if expiresAt.Valid {
		rec.TokenExpiresAt = fromMillis(expiresAt.Int64)
	}
	if updatedAt.Valid {
		rec.UpdatedAt = fromMillis(updatedAt.Int64)
	}
	return rec, nil
}

func (s *SQLiteProfileStore) Disconnect(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET
		   linkedin_token = NULL,
		   linkedin_profile_id = NULL,
		   linkedin_connected = 0,
		   linkedin_token_expires_at = NULL,
		   linkedin_updated_at = ?
		 WHERE id = ?`,
		toMillis(s.now()), userID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteProfileStore) Shutdown(ctx context.Context) error {
	return s.db.Close()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}
