package avatar

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNoAvatar is returned when the user does not exist or has no stored
// avatar; callers are not told which.
var ErrNoAvatar = errors.New("no avatar stored")

// Store persists the processed avatar PNG for a user. The default backend
// keeps the bytes on the user row; an S3 backend can be selected via config.
type Store interface {
	Put(ctx context.Context, userID uuid.UUID, data []byte) error
	Get(ctx context.Context, userID uuid.UUID) ([]byte, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type postgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Put(ctx context.Context, userID uuid.UUID, data []byte) error {
	query := `UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`
	res, err := s.db.ExecContext(ctx, query, data, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (s *postgresStore) Get(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var data []byte
	query := `SELECT avatar FROM users WHERE id = $1`
	err := s.db.GetContext(ctx, &data, query, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAvatar
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoAvatar
	}

	return data, nil
}

func (s *postgresStore) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET avatar = NULL, updated_at = now() WHERE id = $1`
	_, err := s.db.ExecContext(ctx, query, userID)
	return err
}
